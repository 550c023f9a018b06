package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the server: it carries a `json:"-"`
// tag and list queries additionally avoid selecting it.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password, write-only.
//  Phone        – optional contact number.
//  Role         – "owner" or "admin".
//  IsActive     – soft-delete flag; inactive users cannot authenticate.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    `json:"id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    Phone        string    `json:"phone,omitempty"`
    Role         string    `json:"role"`
    IsActive     bool      `json:"isActive"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}

// Roles accepted in users.role.
const (
    RoleOwner = "owner"
    RoleAdmin = "admin"
)
