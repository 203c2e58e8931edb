package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       *string          `json:"phone,omitempty"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`

	FirstName           *string  `json:"first_name,omitempty"`
	LastName            *string  `json:"last_name,omitempty"`
	NIC                 *string  `json:"nic,omitempty"`
	District            *string  `json:"district,omitempty"`
	Address             *string  `json:"address,omitempty"`
	PreferredCategories []string `json:"preferred_categories,omitempty"`
	LoyaltyPoints       int      `json:"loyalty_points"`

	FarmName        *string `json:"farm_name,omitempty"`
	BankAccountName *string `json:"bank_account_name,omitempty"`
	BankAccountNo   *string `json:"bank_account_no,omitempty"`
	BankName        *string `json:"bank_name,omitempty"`
	BankBranch      *string `json:"bank_branch,omitempty"`

	Regions       []string `json:"regions,omitempty"`
	OfficeContact *string  `json:"office_contact,omitempty"`

	Permissions []string `json:"permissions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:                  u.ID,
		Role:                u.Role,
		Status:              u.Status,
		Name:                u.Name,
		Email:               u.Email,
		Phone:               u.Phone,
		LastLoginAt:         u.LastLoginAt,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		NIC:                 u.NIC,
		District:            u.District,
		Address:             u.Address,
		PreferredCategories: append([]string(nil), []string(u.PreferredCategories)...),
		LoyaltyPoints:       u.LoyaltyPoints,
		FarmName:            u.FarmName,
		BankAccountName:     u.BankAccountName,
		BankAccountNo:       u.BankAccountNo,
		BankName:            u.BankName,
		BankBranch:          u.BankBranch,
		Regions:             append([]string(nil), []string(u.Regions)...),
		OfficeContact:       u.OfficeContact,
		Permissions:         append([]string(nil), []string(u.Permissions)...),
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

// CreateUserDTO holds the data required by the repo to persist a new user.
// Only the profile block matching Role should be populated.
type CreateUserDTO struct {
	Role         enums.UserRole
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	Status       *enums.UserStatus

	Buyer  *BuyerProfilePatch
	Seller *SellerProfilePatch
	Agent  *AgentProfilePatch
	Admin  *AdminProfilePatch
}

func (c CreateUserDTO) ToModel() *models.User {
	status := enums.UserStatusActive
	if c.Status != nil {
		status = *c.Status
	}

	user := &models.User{
		Role:         c.Role,
		Status:       status,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Phone:        c.Phone,
	}
	if c.Buyer != nil {
		c.Buyer.applyToModel(user)
	}
	if c.Seller != nil {
		c.Seller.applyToModel(user)
	}
	if c.Agent != nil {
		c.Agent.applyToModel(user)
	}
	if c.Admin != nil {
		c.Admin.applyToModel(user)
	}
	return user
}

// BuyerProfilePatch is the explicit allow-list of buyer-mutable profile
// fields. Unknown payload keys are rejected at the decoding layer.
type BuyerProfilePatch struct {
	FirstName           *string   `json:"first_name,omitempty"`
	LastName            *string   `json:"last_name,omitempty"`
	NIC                 *string   `json:"nic,omitempty"`
	District            *string   `json:"district,omitempty"`
	Address             *string   `json:"address,omitempty"`
	PreferredCategories *[]string `json:"preferred_categories,omitempty"`
}

func (p BuyerProfilePatch) apply(updates map[string]any) {
	if p.FirstName != nil {
		updates["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		updates["last_name"] = *p.LastName
	}
	if p.NIC != nil {
		updates["nic"] = *p.NIC
	}
	if p.District != nil {
		updates["district"] = *p.District
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.PreferredCategories != nil {
		updates["preferred_categories"] = pq.StringArray(*p.PreferredCategories)
	}
}

func (p BuyerProfilePatch) applyToModel(user *models.User) {
	user.FirstName = p.FirstName
	user.LastName = p.LastName
	user.NIC = p.NIC
	user.District = p.District
	user.Address = p.Address
	if p.PreferredCategories != nil {
		user.PreferredCategories = pq.StringArray(*p.PreferredCategories)
	}
}

// SellerProfilePatch is the seller-mutable field allow-list.
type SellerProfilePatch struct {
	FarmName        *string `json:"farm_name,omitempty"`
	BankAccountName *string `json:"bank_account_name,omitempty"`
	BankAccountNo   *string `json:"bank_account_no,omitempty"`
	BankName        *string `json:"bank_name,omitempty"`
	BankBranch      *string `json:"bank_branch,omitempty"`
}

func (p SellerProfilePatch) apply(updates map[string]any) {
	if p.FarmName != nil {
		updates["farm_name"] = *p.FarmName
	}
	if p.BankAccountName != nil {
		updates["bank_account_name"] = *p.BankAccountName
	}
	if p.BankAccountNo != nil {
		updates["bank_account_no"] = *p.BankAccountNo
	}
	if p.BankName != nil {
		updates["bank_name"] = *p.BankName
	}
	if p.BankBranch != nil {
		updates["bank_branch"] = *p.BankBranch
	}
}

func (p SellerProfilePatch) applyToModel(user *models.User) {
	user.FarmName = p.FarmName
	user.BankAccountName = p.BankAccountName
	user.BankAccountNo = p.BankAccountNo
	user.BankName = p.BankName
	user.BankBranch = p.BankBranch
}

// AgentProfilePatch is the agent-mutable field allow-list.
type AgentProfilePatch struct {
	Regions       *[]string `json:"regions,omitempty"`
	OfficeContact *string   `json:"office_contact,omitempty"`
}

func (p AgentProfilePatch) apply(updates map[string]any) {
	if p.Regions != nil {
		updates["regions"] = pq.StringArray(*p.Regions)
	}
	if p.OfficeContact != nil {
		updates["office_contact"] = *p.OfficeContact
	}
}

func (p AgentProfilePatch) applyToModel(user *models.User) {
	if p.Regions != nil {
		user.Regions = pq.StringArray(*p.Regions)
	}
	user.OfficeContact = p.OfficeContact
}

// AdminProfilePatch is the admin profile field allow-list.
type AdminProfilePatch struct {
	Permissions *[]string `json:"permissions,omitempty"`
}

func (p AdminProfilePatch) apply(updates map[string]any) {
	if p.Permissions != nil {
		updates["permissions"] = pq.StringArray(*p.Permissions)
	}
}

func (p AdminProfilePatch) applyToModel(user *models.User) {
	if p.Permissions != nil {
		user.Permissions = pq.StringArray(*p.Permissions)
	}
}

// UpdateInput carries a profile update. The shared fields plus the patch
// block matching the target's role are writable by the user themselves;
// AdminFields is honored only when the actor is an admin.
type UpdateInput struct {
	ActorID   uuid.UUID
	ActorRole enums.UserRole
	TargetID  uuid.UUID

	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`

	Buyer  *BuyerProfilePatch  `json:"buyer,omitempty"`
	Seller *SellerProfilePatch `json:"seller,omitempty"`
	Agent  *AgentProfilePatch  `json:"agent,omitempty"`
	Admin  *AdminProfilePatch  `json:"admin,omitempty"`

	AdminFields *AdminOverridePatch `json:"admin_fields,omitempty"`
}

// AdminOverridePatch covers fields only an admin may change on any account.
type AdminOverridePatch struct {
	Role          *enums.UserRole   `json:"role,omitempty"`
	Status        *enums.UserStatus `json:"status,omitempty"`
	LoyaltyPoints *int              `json:"loyalty_points,omitempty"`
}

// ListFilters narrows admin user listings.
type ListFilters struct {
	Role *enums.UserRole
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	Total    int64                      `json:"total"`
	ByRole   map[enums.UserRole]int64   `json:"by_role"`
	ByStatus map[enums.UserStatus]int64 `json:"by_status"`
}
