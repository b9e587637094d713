// AngelaMos | 2026
// filter.go

package student

import (
	"strings"
)

// Filter narrows a student listing. Every clause is optional and only added
// when its field is set; the zero Filter matches all students.
type Filter struct {
	Search            string
	Class             string
	Section           string
	AccommodationType string
	TransportNeeded   *bool
}

func (f Filter) Matches(s *Student) bool {
	if f.Class != "" && s.Class != f.Class {
		return false
	}
	if f.Section != "" && s.Section != f.Section {
		return false
	}
	if f.AccommodationType != "" && s.AccommodationType != f.AccommodationType {
		return false
	}
	if f.TransportNeeded != nil && s.TransportNeeded != *f.TransportNeeded {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		return strings.Contains(strings.ToLower(s.FirstName), needle) ||
			strings.Contains(strings.ToLower(s.LastName), needle) ||
			strings.Contains(strings.ToLower(s.RollNumber), needle)
	}
	return true
}
