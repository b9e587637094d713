// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// UpdateProfileRequest carries the self-service whitelist. A nil field is
// left untouched.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=2,max=50"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,min=2,max=50"`
	Bio       *string `json:"bio,omitempty"       validate:"omitempty,max=500"`
	Phone     *string `json:"phone,omitempty"     validate:"omitempty,phone"`
	Address   *string `json:"address,omitempty"   validate:"omitempty,max=200"`
	Location  *string `json:"location,omitempty"  validate:"omitempty,max=100"`
	District  *string `json:"district,omitempty"  validate:"omitempty,max=100"`
	Pincode   *string `json:"pincode,omitempty"   validate:"omitempty,len=6,numeric"`
	State     *string `json:"state,omitempty"     validate:"omitempty,max=100"`
}

func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.FirstName == nil &&
		r.LastName == nil &&
		r.Bio == nil &&
		r.Phone == nil &&
		r.Address == nil &&
		r.Location == nil &&
		r.District == nil &&
		r.Pincode == nil &&
		r.State == nil
}

// Apply copies the present fields onto u.
func (r *UpdateProfileRequest) Apply(u *User) {
	setIf(&u.FirstName, r.FirstName)
	setIf(&u.LastName, r.LastName)
	setIf(&u.Bio, r.Bio)
	setIf(&u.Phone, r.Phone)
	setIf(&u.Address, r.Address)
	setIf(&u.Location, r.Location)
	setIf(&u.District, r.District)
	setIf(&u.Pincode, r.Pincode)
	setIf(&u.State, r.State)
}

func setIf(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

type Response struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Avatar    string     `json:"avatar"`
	Bio       string     `json:"bio"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Location  string     `json:"location"`
	District  string     `json:"district"`
	Pincode   string     `json:"pincode"`
	State     string     `json:"state"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Summary is the compact projection used in dashboard listings.
type Summary struct {
	ID        string     `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Avatar    string     `json:"avatar"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

type ListItem struct {
	Summary
	IsActive bool `json:"isActive"`
}

func ToResponse(u *User) Response {
	return Response{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Phone:     u.Phone,
		Address:   u.Address,
		Location:  u.Location,
		District:  u.District,
		Pincode:   u.Pincode,
		State:     u.State,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToSummary(u *User) Summary {
	return Summary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func ToSummaryList(users []User) []Summary {
	out := make([]Summary, 0, len(users))
	for i := range users {
		out = append(out, ToSummary(&users[i]))
	}
	return out
}

func ToListItems(users []User) []ListItem {
	out := make([]ListItem, 0, len(users))
	for i := range users {
		out = append(out, ListItem{
			Summary:  ToSummary(&users[i]),
			IsActive: users[i].IsActive,
		})
	}
	return out
}
