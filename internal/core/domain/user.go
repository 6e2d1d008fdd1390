package domain

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User models a registered account. Authors are plain users who own books.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user has been assigned the named role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// ContactAddress is where author notifications go: the email when set,
// otherwise the username.
func (u *User) ContactAddress() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

// Role is a named authority grouping. Name is unique.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
