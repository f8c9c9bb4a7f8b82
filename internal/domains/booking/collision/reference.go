package collision

import "strings"

// Sub-resources are written after one of these separators, e.g. "EKV-2000 - Side A".
var referenceSeparators = []string{" - ", " — "}

// EquipmentRef identifies a reservable unit: the equipment base name plus an
// optional sub-resource. Capacity is looked up by Base; occupancy is counted
// among reservations with an identical EquipmentRef.
type EquipmentRef struct {
	Base string `json:"base"`
	Sub  string `json:"sub,omitempty"`
}

// ParseEquipmentRef splits a composite reference on its first separator.
func ParseEquipmentRef(raw string) EquipmentRef {
	raw = strings.TrimSpace(raw)

	idx, width := -1, 0

	for _, separator := range referenceSeparators {
		if i := strings.Index(raw, separator); i >= 0 && (idx < 0 || i < idx) {
			idx, width = i, len(separator)
		}
	}

	if idx < 0 {
		return EquipmentRef{Base: raw}
	}

	return EquipmentRef{
		Base: strings.TrimSpace(raw[:idx]),
		Sub:  strings.TrimSpace(raw[idx+width:]),
	}
}

func (r EquipmentRef) IsZero() bool {
	return r.Base == ""
}

// String renders the composite form accepted by ParseEquipmentRef.
func (r EquipmentRef) String() string {
	if r.Sub == "" {
		return r.Base
	}

	return r.Base + referenceSeparators[0] + r.Sub
}
