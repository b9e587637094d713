// AngelaMos | 2026
// pagination.go

package core

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type PageParams struct {
	Page  int `json:"page"  validate:"min=1"`
	Limit int `json:"limit" validate:"min=1,max=100"`
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(p PageParams, total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}

// ParsePageParams reads page and limit from the query string. Absent values
// take the defaults; non-numeric values are reported as field errors instead
// of silently defaulting. Range checks are left to the validator.
func ParsePageParams(q url.Values) (PageParams, []FieldError) {
	var errs []FieldError

	page, err := parseIntParam(q, "page", DefaultPage)
	if err != nil {
		errs = append(errs, *err)
	}

	limit, err := parseIntParam(q, "limit", DefaultLimit)
	if err != nil {
		errs = append(errs, *err)
	}

	return PageParams{Page: page, Limit: limit}, errs
}

func parseIntParam(q url.Values, key string, def int) (int, *FieldError) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, &FieldError{
			Field:   key,
			Tag:     "number",
			Message: fmt.Sprintf("%s must be a number", key),
		}
	}
	return v, nil
}

// ParseBoolParam returns nil when the key is absent.
func ParseBoolParam(q url.Values, key string) (*bool, *FieldError) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}

	var v bool
	switch raw {
	case "true":
		v = true
	case "false":
	default:
		return nil, &FieldError{
			Field:   key,
			Tag:     "boolean",
			Message: fmt.Sprintf("%s must be true or false", key),
		}
	}
	return &v, nil
}
