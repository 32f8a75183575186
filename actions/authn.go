package actions

import (
	"errors"
	"fmt"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

// AuthN authenticates the request by its bearer token and puts the user into
// the context.
func AuthN(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		bearerToken := domain.GetBearerTokenFromRequest(c.Request())
		if bearerToken == "" {
			err := errors.New("no bearer token provided")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		var userAccessToken models.UserAccessToken
		tx := models.Tx(c)
		if appErr := userAccessToken.FindByBearerToken(tx, bearerToken); appErr != nil {
			if appErr.Category == api.CategoryDatabase {
				return reportError(c, appErr)
			}
			err := errors.New("invalid bearer token")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		isExpired, err := userAccessToken.DeleteIfExpired(tx)
		if err != nil {
			return reportError(c, err)
		}

		if isExpired {
			err = errors.New("expired bearer token")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		user, err := userAccessToken.GetUser(tx)
		if err != nil {
			err = fmt.Errorf("error finding user by access token, %s", err.Error())
			return reportError(c, err)
		}
		c.Set(domain.ContextKeyCurrentUser, user)

		newExtra(c, "user_id", user.ID)
		newExtra(c, "email", user.Email)
		newExtra(c, "ip", c.Request().RemoteAddr)

		return next(c)
	}
}

// requireAdmin allows only users with the steward app role through. The
// models additionally verify the actor against the stored contract admin.
func requireAdmin(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		actor := models.CurrentUser(c)
		if !actor.IsAdmin() {
			err := fmt.Errorf("user %s is not an admin", actor.ID)
			return reportError(c, api.NewAppError(err, api.ErrorAdminOnly, api.CategoryForbidden))
		}
		return next(c)
	}
}
