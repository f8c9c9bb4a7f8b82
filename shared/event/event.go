// Package event publishes domain change notifications to Kafka.
package event

import (
	"context"
	"labplanner/infras/kafka"
	"labplanner/shared/constant"
	"labplanner/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	ActionPurged  Action = "purged"
)

type Event struct {
	Entity     string    `json:"entity"`
	Action     Action    `json:"action"`
	Key        string    `json:"key"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New stamps an event with the acting user from ctx and the current time.
func New(ctx context.Context, entity string, action Action, key string, payload any) Event {
	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if actor == "" {
		actor = constant.ContextSystem
	}

	return Event{
		Entity:     entity,
		Action:     action,
		Key:        key,
		Actor:      actor,
		OccurredAt: timezone.Now(),
		Payload:    payload,
	}
}

// Publish sends evt keyed by evt.Key. Failures are logged, never returned.
func Publish(ctx context.Context, client kafka.Client, topic string, evt Event) {
	err := client.SendMessages(ctx, topic, kafka.Message{Key: evt.Key, Value: evt})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Str("entity", evt.Entity).Str("action", string(evt.Action)).Msg("failed to publish event")
	}
}
