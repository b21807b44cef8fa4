package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserID = uuid.UUID

// Roles gate who may run imports and manage classification rules.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

type User struct {
	ID        UserID
	FirstName string
	LastName  string
	Username  string
	Password  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time
}

type UserFilter struct {
	FirstName string
	LastName  string
	Username  string
}

type Sessions struct {
	UserID       UserID
	AccessToken  string
	RefreshToken string
	IsLogin      bool
	CreatedAt    time.Time
	LoggedOutAt  time.Time
}

func UserIDFromString(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOperator || role == RoleViewer
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash to check if they match
func (u *User) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
