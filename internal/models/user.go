package models

import "time"

// Division groups users organisationally.
type Division struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	RoleID       *string    `db:"role_id" json:"role_id,omitempty"`
	DivisionID   *string    `db:"division_id" json:"division_id,omitempty"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Principal is the per-request identity snapshot every operation receives.
// The role's permission set is loaded fresh for each request; nothing here
// survives the request that resolved it.
type Principal struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	IsSuperuser bool    `json:"is_superuser"`
	Role        *Role   `json:"role,omitempty"`
	DivisionID  *string `json:"division_id,omitempty"`
	StudentID   *string `json:"student_id,omitempty"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	RoleID    string
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
