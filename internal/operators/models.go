package operators

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	// RoleStaff can read operator views
	RoleStaff Role = "STAFF"
	// RoleAdmin can additionally manage accounts and resend tickets
	RoleAdmin Role = "ADMIN"
)

// Operator is a back-office account for museum staff. Visitors booking
// tickets through the dialogue never get an account.
type Operator struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'STAFF'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Operator
func (Operator) TableName() string {
	return "operators"
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleStaff), string(RoleAdmin):
		return true
	default:
		return false
	}
}
