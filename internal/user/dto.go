// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"
)

type UpdateUserRequest struct {
	UserName  *string `json:"userName,omitempty"  validate:"omitempty,min=3,max=20"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName,omitempty"  validate:"omitempty,max=50"`
	Email     *string `json:"email,omitempty"     validate:"omitempty,email,max=255"`
	Image     *string `json:"image,omitempty"     validate:"omitempty,url,max=2048"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		r.Email = &email
	}
	if r.UserName != nil {
		name := strings.TrimSpace(*r.UserName)
		r.UserName = &name
	}
}

func (r *UpdateUserRequest) Empty() bool {
	return r.UserName == nil && r.FirstName == nil && r.LastName == nil &&
		r.Email == nil && r.Image == nil
}

type UserResponse struct {
	ID        string    `json:"_id"`
	UserName  string    `json:"userName"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	Role      string    `json:"role"`
	IsBanned  bool      `json:"isBanned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Banned   *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Image:     u.Image,
		Role:      u.Role,
		IsBanned:  u.IsBanned,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
