package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
)

// User represents the canonical identity entity. Role-specific profile
// columns are nullable; only the columns for the user's role are populated.
type User struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Role         enums.UserRole   `gorm:"column:role;not null"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:'active'"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;type:text;not null;uniqueIndex:idx_users_email"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Phone        *string          `gorm:"column:phone"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`

	// buyer profile
	FirstName           *string        `gorm:"column:first_name"`
	LastName            *string        `gorm:"column:last_name"`
	NIC                 *string        `gorm:"column:nic"`
	District            *string        `gorm:"column:district"`
	Address             *string        `gorm:"column:address"`
	PreferredCategories pq.StringArray `gorm:"column:preferred_categories;type:text[]"`
	LoyaltyPoints       int            `gorm:"column:loyalty_points;not null;default:0"`

	// seller profile
	FarmName        *string `gorm:"column:farm_name"`
	BankAccountName *string `gorm:"column:bank_account_name"`
	BankAccountNo   *string `gorm:"column:bank_account_no"`
	BankName        *string `gorm:"column:bank_name"`
	BankBranch      *string `gorm:"column:bank_branch"`

	// agent profile
	Regions       pq.StringArray `gorm:"column:regions;type:text[]"`
	OfficeContact *string        `gorm:"column:office_contact"`

	// admin profile
	Permissions pq.StringArray `gorm:"column:permissions;type:text[]"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
