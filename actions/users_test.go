package actions

import (
	"fmt"
	"net/http"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/models"
)

func (as *ActionSuite) Test_UsersMe() {
	models.CreateAdminFixture(as.DB, 100)
	user := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.authRequest(user, "/users/me").Get()
	as.Equal(http.StatusOK, res.Code)

	var me UserResponse
	as.NoError(as.decodeBody(res.Body.Bytes(), &me))
	as.Equal(user.ID.String(), me.ID)
	as.Equal(user.Email, me.Email)
}

func (as *ActionSuite) Test_UsersView() {
	models.CreateAdminFixture(as.DB, 100)
	users := models.CreateUserFixtures(as.DB, 2).Users
	admin, _ := as.adminUser()

	path := fmt.Sprintf("/users/%s", users[0].ID)

	res := as.authRequest(users[0], path).Get()
	as.Equal(http.StatusOK, res.Code)

	res = as.authRequest(admin, path).Get()
	as.Equal(http.StatusOK, res.Code)

	// other customers may not view
	res = as.authRequest(users[1], path).Get()
	as.Equal(http.StatusNotFound, res.Code)
}

func (as *ActionSuite) Test_UsersList() {
	models.CreateAdminFixture(as.DB, 100)
	user := models.CreateUserFixtures(as.DB, 1).Users[0]
	admin, _ := as.adminUser()

	res := as.authRequest(user, "/users").Get()
	as.Equal(http.StatusNotFound, res.Code)

	res = as.authRequest(admin, "/users").Get()
	as.Equal(http.StatusOK, res.Code)

	var users []UserResponse
	as.NoError(as.decodeBody(res.Body.Bytes(), &users))
	as.Len(users, 2) // the admin and the customer
}

func (as *ActionSuite) Test_UsersFraudMetrics() {
	models.CreateAdminFixture(as.DB, 100)
	user := models.CreateUserFixtures(as.DB, 1).Users[0]
	as.purchasePolicy(user, api.CoverageTypeCombined)
	claim := as.submitClaim(user, 100)

	path := fmt.Sprintf("/users/%s/fraud-metrics", user.ID)
	res := as.authRequest(user, path).Get()
	as.Equal(http.StatusOK, res.Code)

	var metrics api.FraudMetrics
	as.NoError(as.decodeBody(res.Body.Bytes(), &metrics))
	as.Equal(1, metrics.TotalClaims)
	as.Equal([]int64{claim.ID}, metrics.RecentClaims)
	as.False(metrics.Flagged)
}
