// AngelaMos | 2026
// query.go

package dashboard

import (
	"net/url"
	"strings"
	"time"

	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/user"
)

const (
	Range7Days  = "7days"
	Range30Days = "30days"
	Range90Days = "90days"
	RangeCustom = "custom"
)

const defaultSpan = 30 * 24 * time.Hour

var rangeSpans = map[string]time.Duration{
	Range7Days:  7 * 24 * time.Hour,
	Range30Days: defaultSpan,
	Range90Days: 90 * 24 * time.Hour,
}

// Query is the parsed dashboard query string.
type Query struct {
	DateRange string `json:"dateRange"`
	StartDate string `json:"startDate" validate:"omitempty,isodate"`
	EndDate   string `json:"endDate"   validate:"omitempty,isodate"`
	Role      string `json:"role"      validate:"oneof=admin manager user all"`
	Search    string `json:"search"    validate:"max=100"`
	Page      int    `json:"page"      validate:"min=1"`
	Limit     int    `json:"limit"     validate:"min=1,max=100"`
}

// ParseQuery reads the raw query string, applying defaults. An unrecognized
// dateRange falls back to 30days.
func ParseQuery(q url.Values) (Query, []core.FieldError) {
	page, errs := core.ParsePageParams(q)

	dateRange := q.Get("dateRange")
	if _, known := rangeSpans[dateRange]; !known && dateRange != RangeCustom {
		dateRange = Range30Days
	}

	role := q.Get("role")
	if role == "" {
		role = user.RoleAll
	}

	return Query{
		DateRange: dateRange,
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Role:      role,
		Search:    strings.TrimSpace(q.Get("search")),
		Page:      page.Page,
		Limit:     page.Limit,
	}, errs
}

func (q Query) PageParams() core.PageParams {
	return core.PageParams{Page: q.Page, Limit: q.Limit}
}

type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Window resolves the date range against now. Custom bounds default to the
// 30 day window edges when omitted; a start after the end is rejected.
func (q Query) Window(now time.Time) (Window, []core.FieldError) {
	if q.DateRange != RangeCustom {
		span, ok := rangeSpans[q.DateRange]
		if !ok {
			span = defaultSpan
		}
		return Window{Start: now.Add(-span), End: now}, nil
	}

	w := Window{Start: now.Add(-defaultSpan), End: now}
	var errs []core.FieldError

	if q.StartDate != "" {
		t, err := core.ParseDate(q.StartDate)
		if err != nil {
			errs = append(errs, dateError("startDate"))
		}
		w.Start = t
	}
	if q.EndDate != "" {
		t, err := core.ParseDate(q.EndDate)
		if err != nil {
			errs = append(errs, dateError("endDate"))
		}
		w.End = t
	}

	if len(errs) == 0 && w.Start.After(w.End) {
		errs = append(errs, core.FieldError{
			Field:   "startDate",
			Tag:     "ltefield",
			Message: "startDate must not be after endDate",
		})
	}

	return w, errs
}

// Filter builds the full user predicate for the window.
func (q Query) Filter(w Window) user.Filter {
	return user.NewFilter(w.Start, w.End).
		WithRole(q.Role).
		WithSearch(q.Search)
}

func dateError(field string) core.FieldError {
	return core.FieldError{
		Field:   field,
		Tag:     "isodate",
		Message: field + " must be a date (YYYY-MM-DD or RFC 3339)",
	}
}
