// AngelaMos | 2026
// entity.go

package student

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

const (
	AccommodationDayScholar = "Day Scholler"
	AccommodationHosteller  = "Hosteller"
)

type Student struct {
	ID                string          `db:"id"`
	FirstName         string          `db:"first_name"`
	LastName          string          `db:"last_name"`
	RollNumber        string          `db:"roll_number"`
	Class             string          `db:"class"`
	Section           string          `db:"section"`
	Gender            string          `db:"gender"`
	DateOfBirth       time.Time       `db:"date_of_birth"`
	AccommodationType string          `db:"accommodation_type"`
	TransportNeeded   bool            `db:"transport_needed"`
	Address           string          `db:"address"`
	Location          string          `db:"location"`
	District          string          `db:"district"`
	Pincode           string          `db:"pincode"`
	State             string          `db:"state"`
	ContactNumber     string          `db:"contact_number"`
	Email             string          `db:"email"`
	ParentDetails     ParentDetails   `db:"parent_details"`
	AcademicDetails   AcademicDetails `db:"academic_details"`
	Avatar            string          `db:"avatar"`
	IsActive          bool            `db:"is_active"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// ParentDetails is stored as a JSONB document.
type ParentDetails struct {
	FatherName       string   `json:"fatherName,omitempty"       validate:"omitempty,max=100"`
	FatherContact    string   `json:"fatherContact,omitempty"    validate:"omitempty,phone"`
	FatherOccupation string   `json:"fatherOccupation,omitempty" validate:"omitempty,max=100"`
	MotherName       string   `json:"motherName,omitempty"       validate:"omitempty,max=100"`
	MotherContact    string   `json:"motherContact,omitempty"    validate:"omitempty,phone"`
	AnnualIncome     *float64 `json:"annualIncome,omitempty"     validate:"omitempty,gte=0"`
}

func (p ParentDetails) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *ParentDetails) Scan(src any) error {
	return scanJSON(src, p)
}

// AcademicDetails is stored as a JSONB document.
type AcademicDetails struct {
	Rank   string  `json:"rank,omitempty" validate:"omitempty,max=32"`
	Points float64 `json:"points"         validate:"gte=0"`
}

func (a AcademicDetails) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AcademicDetails) Scan(src any) error {
	return scanJSON(src, a)
}

func scanJSON(src, dst any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan jsonb: unsupported type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
