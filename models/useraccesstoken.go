package models

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

type UserAccessToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id" validate:"required"`
	TokenHash string    `db:"token_hash" validate:"required"`
	ExpiresAt time.Time `db:"expires_at" validate:"required"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	User User `belongs_to:"users" validate:"-"`
}

func (uat *UserAccessToken) Create(tx *pop.Connection) error {
	return create(tx, uat)
}

// NewUserAccessToken creates a token record for the given user and returns the
// plaintext token, which is never stored.
func NewUserAccessToken(tx *pop.Connection, user User) (UserAccessToken, string, error) {
	token := domain.RandomString(32, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	uat := UserAccessToken{
		UserID:    user.ID,
		TokenHash: HashClientIdAccessToken(token),
		ExpiresAt: domain.Clock.Now().UTC().Add(time.Duration(domain.Env.AccessTokenLifetimeSeconds) * time.Second),
	}
	if err := uat.Create(tx); err != nil {
		return uat, "", err
	}

	return uat, token, nil
}

func (uat *UserAccessToken) FindByBearerToken(tx *pop.Connection, bearerToken string) *api.AppError {
	err := tx.Where("token_hash = ?", HashClientIdAccessToken(bearerToken)).First(uat)
	if err != nil {
		appErr := api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized)
		if domain.IsOtherThanNoRows(err) {
			appErr.Category = api.CategoryDatabase
		}
		return appErr
	}
	return nil
}

// DeleteIfExpired destroys the token if it has expired and reports whether it did
func (uat *UserAccessToken) DeleteIfExpired(tx *pop.Connection) (bool, error) {
	if uat.ExpiresAt.After(domain.Clock.Now().UTC()) {
		return false, nil
	}

	if err := destroy(tx, uat); err != nil {
		return true, err
	}
	return true, nil
}

func (uat *UserAccessToken) GetUser(tx *pop.Connection) (User, error) {
	var user User
	if err := user.FindByID(tx, uat.UserID); err != nil {
		return User{}, err
	}
	return user, nil
}

// HashClientIdAccessToken just returns a sha256.Sum256 of the input value
func HashClientIdAccessToken(accessToken string) string {
	hash := sha256.Sum256([]byte(accessToken))
	return fmt.Sprintf("%x", hash)
}
