package actions

import (
	"fmt"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

// UserResponse is the JSON shape of a user
//
// swagger:model
type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	AppRole       string `json:"app_role"`
	WalletAddress string `json:"wallet_address"`
}

// swagger:operation GET /users Users UsersList
//
// UsersList
//
// list all users. Admin only.
//
// ---
//
//	responses:
//	  '200':
//	    description: all users
func usersList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	if !actor.IsAdmin() {
		err := errNotAdmin(actor)
		return reportError(c, err)
	}

	var users models.Users
	if err := users.All(tx); err != nil {
		return reportError(c, err)
	}

	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = convertUser(users[i])
	}
	return renderOk(c, out)
}

// swagger:operation GET /users/me Users UsersMe
//
// UsersMe
//
// get the authenticated user
//
// ---
//
//	responses:
//	  '200':
//	    description: the authenticated user
func usersMe(c buffalo.Context) error {
	return renderOk(c, convertUser(models.CurrentUser(c)))
}

// swagger:operation GET /users/{id} Users UsersView
//
// UsersView
//
// get one user, visible to themselves and the admin
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: user ID
//	responses:
//	  '200':
//	    description: the requested user
func usersView(c buffalo.Context) error {
	user := getReferencedUserFromCtx(c)
	return renderOk(c, convertUser(*user))
}

// swagger:operation GET /users/{id}/fraud-metrics Users UsersFraudMetrics
//
// UsersFraudMetrics
//
// get a user's abuse-prevention metrics, visible to themselves and the admin
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: user ID
//	responses:
//	  '200':
//	    description: the user's fraud metrics
//	    schema:
//	      "$ref": "#/definitions/FraudMetrics"
func usersFraudMetrics(c buffalo.Context) error {
	tx := models.Tx(c)
	user := getReferencedUserFromCtx(c)

	metrics, err := models.GetFraudMetrics(tx, user.ID)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, metrics)
}

func convertUser(user models.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name(),
		AppRole:       string(user.AppRole),
		WalletAddress: user.WalletAddress,
	}
}

// getReferencedUserFromCtx pulls the user resource placed in the context by
// the AuthZ middleware
func getReferencedUserFromCtx(c buffalo.Context) *models.User {
	user, ok := c.Value(domain.TypeUser).(*models.User)
	if !ok {
		panic("user not found in context")
	}
	return user
}

func errNotAdmin(actor models.User) *api.AppError {
	err := fmt.Errorf("user %s is not an admin", actor.ID)
	return api.NewAppError(err, api.ErrorAdminOnly, api.CategoryForbidden)
}
