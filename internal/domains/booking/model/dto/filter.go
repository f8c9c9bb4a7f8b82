package dto

import (
	"labplanner/internal/domains/booking/model"
	"labplanner/shared"
	"labplanner/shared/constant"
	gDto "labplanner/shared/dto"
	"labplanner/shared/failure"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// BookingFilter holds the listing filters accepted on GET /v1/bookings.
type BookingFilter struct {
	EquipmentName string
	ProjectName   string
	From          string
	To            string
	IsBlocker     *bool
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.EquipmentName = strings.TrimSpace(query.Get(model.FieldEquipmentName))
	f.ProjectName = strings.TrimSpace(query.Get(model.FieldProjectName))
	f.From = strings.TrimSpace(query.Get(constant.RequestParamFrom))
	f.To = strings.TrimSpace(query.Get(constant.RequestParamTo))
	f.IsBlocker = shared.ConvertStringToBool(query.Get(model.FieldIsBlocker))
}

// ToFilterGroup renders the filter. From and To must be ISO dates when set;
// a booking matches when it shares at least one day with [From, To].
func (f *BookingFilter) ToFilterGroup() (gDto.FilterGroup, error) {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.EquipmentName != "" {
		ref := ParseReference(f.EquipmentName)

		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldEquipmentName, Value: ref.Base, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})

		if ref.Sub != "" {
			group.Filters = append(group.Filters, gDto.Filter{
				Field: model.FieldSubResource, Value: ref.Sub, Operator: gDto.FilterOperatorEq, Table: model.TableName,
			})
		}
	}

	if f.ProjectName != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldProjectName, Value: f.ProjectName, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	if f.From != "" {
		from, err := civil.ParseDate(f.From)
		if err != nil {
			return group, failure.BadRequestFromString("from must be a date in YYYY-MM-DD format") // nolint:wrapcheck
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldEndDate, Value: from.In(time.UTC), Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName,
		})
	}

	if f.To != "" {
		to, err := civil.ParseDate(f.To)
		if err != nil {
			return group, failure.BadRequestFromString("to must be a date in YYYY-MM-DD format") // nolint:wrapcheck
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldStartDate, Value: to.In(time.UTC), Operator: gDto.FilterOperatorLessEq, Table: model.TableName,
		})
	}

	if f.IsBlocker != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: model.FieldIsBlocker, Value: *f.IsBlocker, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})
	}

	return group, nil
}
