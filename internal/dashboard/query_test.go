// AngelaMos | 2026
// query_test.go

package dashboard

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return refNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func TestParseQueryDefaults(t *testing.T) {
	t.Parallel()

	q, errs := ParseQuery(url.Values{})
	require.Empty(t, errs)
	assert.Equal(t, Query{
		DateRange: Range30Days,
		Role:      "all",
		Page:      1,
		Limit:     10,
	}, q)
}

func TestParseQueryUnknownRangeFallsBack(t *testing.T) {
	t.Parallel()

	q, errs := ParseQuery(url.Values{"dateRange": {"365days"}})
	require.Empty(t, errs)
	assert.Equal(t, Range30Days, q.DateRange)
}

func TestParseQueryShapeErrors(t *testing.T) {
	t.Parallel()

	_, errs := ParseQuery(url.Values{"page": {"two"}, "limit": {"x"}})
	require.Len(t, errs, 2)
	assert.Equal(t, "page", errs[0].Field)
	assert.Equal(t, "limit", errs[1].Field)
}

func TestWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		want  Window
	}{
		{"7 days", Query{DateRange: Range7Days}, Window{daysAgo(7), refNow}},
		{"30 days", Query{DateRange: Range30Days}, Window{daysAgo(30), refNow}},
		{"90 days", Query{DateRange: Range90Days}, Window{daysAgo(90), refNow}},
		{"custom without bounds", Query{DateRange: RangeCustom}, Window{daysAgo(30), refNow}},
		{
			"custom with dates",
			Query{DateRange: RangeCustom, StartDate: "2026-01-01", EndDate: "2026-02-01T10:00:00+05:30"},
			Window{
				time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 2, 1, 4, 30, 0, 0, time.UTC),
			},
		},
		{
			"custom start only",
			Query{DateRange: RangeCustom, StartDate: "2026-03-01"},
			Window{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), refNow},
		},
		{
			"dates ignored outside custom",
			Query{DateRange: Range7Days, StartDate: "2020-01-01"},
			Window{daysAgo(7), refNow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, errs := tt.query.Window(refNow)
			require.Empty(t, errs)
			assert.True(t, tt.want.Start.Equal(got.Start), "start %s", got.Start)
			assert.True(t, tt.want.End.Equal(got.End), "end %s", got.End)
		})
	}
}

func TestWindowRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		field string
		tag   string
	}{
		{"bad start", Query{DateRange: RangeCustom, StartDate: "yesterday"}, "startDate", "isodate"},
		{"bad end", Query{DateRange: RangeCustom, EndDate: "03/01/2026"}, "endDate", "isodate"},
		{
			"inverted",
			Query{DateRange: RangeCustom, StartDate: "2026-03-10", EndDate: "2026-03-01"},
			"startDate",
			"ltefield",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, errs := tt.query.Window(refNow)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.tag, errs[0].Tag)
		})
	}
}

func TestQueryFilter(t *testing.T) {
	t.Parallel()

	w := Window{daysAgo(7), refNow}

	f := Query{Role: "all", Search: ""}.Filter(w)
	assert.False(t, f.HasRole())
	assert.False(t, f.HasSearch())

	f = Query{Role: "manager", Search: "asha"}.Filter(w)
	assert.Equal(t, "manager", f.Role)
	assert.Equal(t, "asha", f.Search)
	assert.Equal(t, w.Start, f.From)
	assert.Equal(t, w.End, f.To)
}
