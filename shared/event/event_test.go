package event_test

import (
	"context"
	"errors"
	"labplanner/infras/kafka"
	kafkaMocks "labplanner/infras/kafka/mocks"
	"labplanner/shared/constant"
	"labplanner/shared/event"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "planner-1")

	evt := event.New(ctx, "booking", event.ActionCreated, "101", map[string]int{"id": 101})

	assert.Equal(t, "planner-1", evt.Actor)
	assert.Equal(t, "101", evt.Key)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	evt := event.New(context.Background(), "capacity_override", event.ActionDeleted, "7", nil)

	client.EXPECT().
		SendMessages(gomock.Any(), "labplanner.capacity-override", kafka.Message{Key: "7", Value: evt}).
		Return(errors.New("broker down"))

	assert.NotPanics(t, func() {
		event.Publish(context.Background(), client, "labplanner.capacity-override", evt)
	})
}
