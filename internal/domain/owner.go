package domain

import (
	"encoding/xml"

	"github.com/lib/pq"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Users is the owner side of a result. Results reference it by id and are removed
// together with it.
type Users struct {
	XMLName      xml.Name       `db:"-" json:"-" xml:"owner"`
	ID           int64          `db:"id" json:"id" xml:"id,attr"`
	UserName     string         `db:"user_name" json:"username" xml:"username"`
	Email        *string        `db:"email" json:"email,omitempty" xml:"email,omitempty"`
	PasswordHash *string        `db:"password_hash" json:"-" xml:"-"`
	AuthProvider string         `db:"auth_provider" json:"-" xml:"-"`
	GoogleID     *string        `db:"google_id" json:"-" xml:"-"`
	Roles        pq.StringArray `db:"roles" json:"roles" xml:"roles>role"`
}

func (u *Users) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

type UsersTable struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	AuthProvider string
	GoogleID     string
	Roles        string
}

func GetUserTable() UsersTable {
	return UsersTable{
		ID:           "id",
		UserName:     "user_name",
		Email:        "email",
		PasswordHash: "password_hash",
		AuthProvider: "auth_provider",
		GoogleID:     "google_id",
		Roles:        "roles",
	}
}

func (t UsersTable) GetTableName() string {
	return "users"
}

func (t UsersTable) Columns() []string {
	return []string{t.ID, t.UserName, t.Email, t.PasswordHash, t.AuthProvider, t.GoogleID, t.Roles}
}
