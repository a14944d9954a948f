// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	UserName     string    `db:"user_name"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	GoogleID     *string   `db:"google_id"`
	Image        string    `db:"image"`
	Role         string    `db:"role"`
	IsBanned     bool      `db:"is_banned"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Stats is the account summary shown on the admin dashboard.
type Stats struct {
	Total  int `db:"total"  json:"total"`
	Banned int `db:"banned" json:"banned"`
	Admins int `db:"admins" json:"admins"`
}
