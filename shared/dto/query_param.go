package dto

import (
	"labplanner/shared/constant"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positiveParam(values url.Values, key string) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil || n <= 0 {
		return 0
	}

	return n
}

// FromRequest reads paging and sorting from the query string. Limits above
// constant.MaxValueLimit are clamped. With withDefaults a missing page or
// limit takes the package default, otherwise the listing stays unpaginated.
// A sort column without a direction sorts ascending.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	q.Page = positiveParam(values, constant.RequestParamPage)
	q.Limit = min(positiveParam(values, constant.RequestParamLimit), constant.MaxValueLimit)
	q.SortBy = strings.TrimSpace(values.Get(constant.RequestParamSortBy))

	switch dir := strings.ToUpper(strings.TrimSpace(values.Get(constant.RequestParamSortDir))); {
	case dir == SortDirAsc || dir == SortDirDesc:
		q.SortDir = dir
	case q.SortBy != "":
		q.SortDir = SortDirAsc
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
