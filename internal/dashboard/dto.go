// AngelaMos | 2026
// dto.go

package dashboard

import (
	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/user"
)

type Overview struct {
	TotalUsers       int            `json:"totalUsers"`
	NewUsers         int            `json:"newUsers"`
	ActiveUsers      int            `json:"activeUsers"`
	MatchingUsers    int            `json:"matchingUsers"`
	RoleDistribution map[string]int `json:"roleDistribution"`
}

type Trends struct {
	Period     Window            `json:"period"`
	UserGrowth []user.DailyCount `json:"userGrowth"`
}

type AppliedFilters struct {
	DateRange string `json:"dateRange"`
	Role      string `json:"role"`
	Search    string `json:"search,omitempty"`
}

type OverviewResponse struct {
	Overview    Overview       `json:"overview"`
	Trends      Trends         `json:"trends"`
	RecentUsers []user.Summary `json:"recentUsers"`
	Filters     AppliedFilters `json:"filters"`
}

type Statistics struct {
	Period    Window          `json:"period"`
	RoleStats []user.RoleStat `json:"roleStats"`
	Filters   AppliedFilters  `json:"filters"`
}

type AnalyticsResponse struct {
	Users      []user.ListItem `json:"users"`
	Pagination core.Pagination `json:"pagination"`
	Statistics Statistics      `json:"statistics"`
}

func appliedFilters(q Query) AppliedFilters {
	return AppliedFilters{
		DateRange: q.DateRange,
		Role:      q.Role,
		Search:    q.Search,
	}
}
