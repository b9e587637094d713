// AngelaMos | 2026
// dto.go

package student

import (
	"net/url"
	"strings"
	"time"

	"github.com/tharunrega/smansys/internal/core"
)

// Request is the full student document accepted by create and replace.
type Request struct {
	FirstName         string           `json:"firstName"                   validate:"required,max=50"`
	LastName          string           `json:"lastName"                    validate:"required,max=50"`
	RollNumber        string           `json:"rollNumber"                  validate:"required,max=64"`
	Class             string           `json:"class"                       validate:"required,max=32"`
	Section           string           `json:"section"                     validate:"required,max=32"`
	Gender            string           `json:"gender"                      validate:"required,oneof=Male Female Other"`
	DateOfBirth       string           `json:"dateOfBirth"                 validate:"required,isodate"`
	AccommodationType string           `json:"accommodationType,omitempty" validate:"omitempty,oneof='Day Scholler' Hosteller"`
	TransportNeeded   *bool            `json:"transportNeeded,omitempty"`
	Address           string           `json:"address"                     validate:"required,max=500"`
	Location          string           `json:"location,omitempty"          validate:"omitempty,max=100"`
	District          string           `json:"district,omitempty"          validate:"omitempty,max=100"`
	Pincode           string           `json:"pincode,omitempty"           validate:"omitempty,max=16"`
	State             string           `json:"state,omitempty"             validate:"omitempty,max=100"`
	ContactNumber     string           `json:"contactNumber,omitempty"     validate:"omitempty,phone"`
	Email             string           `json:"email,omitempty"             validate:"omitempty,email,max=255"`
	ParentDetails     *ParentDetails   `json:"parentDetails,omitempty"`
	AcademicDetails   *AcademicDetails `json:"academicDetails,omitempty"`
	Avatar            string           `json:"avatar,omitempty"            validate:"omitempty,max=500"`
}

// Normalize trims identifying fields in place.
func (r *Request) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.RollNumber = strings.TrimSpace(r.RollNumber)
}

// Apply writes the request onto s. Required fields always overwrite.
// Omitted optional fields keep their stored values, except accommodationType
// and transportNeeded which fall back to their defaults.
func (r *Request) Apply(s *Student) error {
	dob, err := core.ParseDate(r.DateOfBirth)
	if err != nil {
		return err
	}

	s.FirstName = r.FirstName
	s.LastName = r.LastName
	s.RollNumber = r.RollNumber
	s.Class = r.Class
	s.Section = r.Section
	s.Gender = r.Gender
	s.DateOfBirth = dob
	s.Address = r.Address

	s.AccommodationType = r.AccommodationType
	if s.AccommodationType == "" {
		s.AccommodationType = AccommodationDayScholar
	}
	s.TransportNeeded = r.TransportNeeded != nil && *r.TransportNeeded

	keep(&s.Location, r.Location)
	keep(&s.District, r.District)
	keep(&s.Pincode, r.Pincode)
	keep(&s.State, r.State)
	keep(&s.ContactNumber, r.ContactNumber)
	keep(&s.Email, r.Email)
	keep(&s.Avatar, r.Avatar)
	if r.ParentDetails != nil {
		s.ParentDetails = *r.ParentDetails
	}
	if r.AcademicDetails != nil {
		s.AcademicDetails = *r.AcademicDetails
	}
	return nil
}

func keep(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ListQuery holds the parsed GET /students query string.
type ListQuery struct {
	Search            string `json:"search"            validate:"max=100"`
	Class             string `json:"class"             validate:"max=32"`
	Section           string `json:"section"           validate:"max=32"`
	AccommodationType string `json:"accommodationType" validate:"omitempty,oneof='Day Scholler' Hosteller"`
	TransportNeeded   *bool  `json:"transportNeeded"`
	Page              int    `json:"page"              validate:"min=1"`
	Limit             int    `json:"limit"             validate:"min=1,max=100"`
}

func (q ListQuery) PageParams() core.PageParams {
	return core.PageParams{Page: q.Page, Limit: q.Limit}
}

// ParseListQuery reads the raw query string. Shape errors (non-numeric page,
// non-boolean transportNeeded) are returned as details; range and enum checks
// are left to the validator.
func ParseListQuery(q url.Values) (ListQuery, []core.FieldError) {
	page, errs := core.ParsePageParams(q)

	transport, ferr := core.ParseBoolParam(q, "transportNeeded")
	if ferr != nil {
		errs = append(errs, *ferr)
	}

	return ListQuery{
		Search:            strings.TrimSpace(q.Get("search")),
		Class:             q.Get("class"),
		Section:           q.Get("section"),
		AccommodationType: q.Get("accommodationType"),
		TransportNeeded:   transport,
		Page:              page.Page,
		Limit:             page.Limit,
	}, errs
}

func (q ListQuery) Filter() Filter {
	return Filter{
		Search:            q.Search,
		Class:             q.Class,
		Section:           q.Section,
		AccommodationType: q.AccommodationType,
		TransportNeeded:   q.TransportNeeded,
	}
}

type Response struct {
	ID                string          `json:"id"`
	FirstName         string          `json:"firstName"`
	LastName          string          `json:"lastName"`
	RollNumber        string          `json:"rollNumber"`
	Class             string          `json:"class"`
	Section           string          `json:"section"`
	Gender            string          `json:"gender"`
	DateOfBirth       time.Time       `json:"dateOfBirth"`
	AccommodationType string          `json:"accommodationType"`
	TransportNeeded   bool            `json:"transportNeeded"`
	Address           string          `json:"address"`
	Location          string          `json:"location"`
	District          string          `json:"district"`
	Pincode           string          `json:"pincode"`
	State             string          `json:"state"`
	ContactNumber     string          `json:"contactNumber"`
	Email             string          `json:"email"`
	ParentDetails     ParentDetails   `json:"parentDetails"`
	AcademicDetails   AcademicDetails `json:"academicDetails"`
	Avatar            string          `json:"avatar"`
	IsActive          bool            `json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type DataResponse struct {
	Message string   `json:"message,omitempty"`
	Data    Response `json:"data"`
}

type ListResponse struct {
	Data       []Response      `json:"data"`
	Pagination core.Pagination `json:"pagination"`
}

func ToResponse(s *Student) Response {
	return Response{
		ID:                s.ID,
		FirstName:         s.FirstName,
		LastName:          s.LastName,
		RollNumber:        s.RollNumber,
		Class:             s.Class,
		Section:           s.Section,
		Gender:            s.Gender,
		DateOfBirth:       s.DateOfBirth,
		AccommodationType: s.AccommodationType,
		TransportNeeded:   s.TransportNeeded,
		Address:           s.Address,
		Location:          s.Location,
		District:          s.District,
		Pincode:           s.Pincode,
		State:             s.State,
		ContactNumber:     s.ContactNumber,
		Email:             s.Email,
		ParentDetails:     s.ParentDetails,
		AcademicDetails:   s.AcademicDetails,
		Avatar:            s.Avatar,
		IsActive:          s.IsActive,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func ToResponseList(students []Student) []Response {
	out := make([]Response, len(students))
	for i := range students {
		out[i] = ToResponse(&students[i])
	}
	return out
}
