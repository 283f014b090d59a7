package model

import (
	"strings"
	"time"
)

// Role pengguna: dibandingkan lewat enum, bukan string bebas.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleUploader Role = "uploader"
	RoleViewer   Role = "viewer"
)

// ParseRole menormalkan string role (case-insensitive). Role tak dikenal mengembalikan false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleUploader:
		return RoleUploader, true
	case RoleViewer:
		return RoleViewer, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// In : true jika r termasuk dalam allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

type User struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	PasskeyHash  *string `db:"passkey_hash" json:"-"`
	Role         Role    `db:"role" json:"role"`
	// IsActive nil = pendaftaran masih pending
	IsActive  *bool     `db:"is_active" json:"is_active"`
	Position  string    `db:"position" json:"position"`
	Instansi  string    `db:"instansi" json:"instansi"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Active : akun sudah disetujui admin.
func (u *User) Active() bool {
	return u.IsActive != nil && *u.IsActive
}

