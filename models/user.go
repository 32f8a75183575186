package models

import (
	"net/http"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
)

// UserAppRole is the platform-level role of a user
type UserAppRole string

const (
	AppRoleCustomer = UserAppRole("Customer")
	AppRoleSteward  = UserAppRole("Steward")
)

var validUserAppRoles = map[UserAppRole]struct{}{
	AppRoleCustomer: {},
	AppRoleSteward:  {},
}

type Users []User

// User is a platform principal: a policyholder or the contract steward.
type User struct {
	ID        uuid.UUID   `db:"id"`
	Email     string      `db:"email" validate:"required"`
	FirstName string      `db:"first_name"`
	LastName  string      `db:"last_name"`
	AppRole   UserAppRole `db:"app_role" validate:"appRole"`

	// ledger account of the user on the gaming platform
	WalletAddress string `db:"wallet_address"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (u *User) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

func (u *User) Create(tx *pop.Connection) error {
	if _, ok := validUserAppRoles[u.AppRole]; !ok {
		u.AppRole = AppRoleCustomer
	}
	return create(tx, u)
}

func (u *User) Update(tx *pop.Connection) error {
	return update(tx, u)
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, u, id)
}

func (u *User) FindByEmail(tx *pop.Connection, email string) error {
	err := tx.Where("email = ?", email).First(u)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// IsAdmin is true for the contract steward role
func (u *User) IsAdmin() bool {
	return u.AppRole == AppRoleSteward
}

func (u *User) Name() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func (u *User) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	switch p {
	case PermissionView, PermissionList:
		return actor.IsAdmin() || actor.ID == u.ID
	case PermissionCreate, PermissionUpdate, PermissionDelete:
		return actor.IsAdmin()
	default:
		return false
	}
}

// MyClaims returns all claims submitted by the user, oldest first
func (u *User) MyClaims(tx *pop.Connection) Claims {
	var claims Claims
	if err := tx.Where("user_id = ?", u.ID).Order("id asc").All(&claims); err != nil {
		panic("database error finding user claims, " + err.Error())
	}
	return claims
}

func (us *Users) All(tx *pop.Connection) error {
	err := tx.Order("email asc").All(us)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}
