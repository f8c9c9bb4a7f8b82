package dto

import (
	"labplanner/shared/constant"
	"labplanner/shared/model"
	"labplanner/shared/timezone"
	"time"
)

// Metadata is the audit trail as rendered in responses. Rows written before
// auditing was recorded carry zero timestamps and render as "".
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func formatAudit(at time.Time) string {
	if at.IsZero() {
		return ""
	}

	return timezone.Format(at, constant.DateFormat)
}

func (m *Metadata) FromModel(source model.Metadata) {
	m.CreatedAt = formatAudit(source.CreatedAt)
	m.ModifiedAt = formatAudit(source.ModifiedAt)
	m.CreatedBy = source.CreatedBy
	m.ModifiedBy = source.ModifiedBy
}
