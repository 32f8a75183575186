package actions

import (
	"net/http"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

func (as *ActionSuite) Test_ConfigInitialize() {
	users := models.CreateUserFixtures(as.DB, 2).Users

	input := api.ConfigInitializeInput{
		PaymentAsset:    "USDC:GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVZ",
		BasePremiumRate: 100,
	}

	// a customer may not initialize
	res := as.authRequest(users[0], "/config").Post(input)
	as.Equal(http.StatusNotFound, res.Code)

	steward := users[1]
	steward.AppRole = models.AppRoleSteward
	as.NoError(steward.Update(as.DB))

	res = as.authRequest(steward, "/config").Post(input)
	as.Equal(http.StatusOK, res.Code, "response: %s", res.Body.String())

	var config api.InsuranceConfig
	as.NoError(as.decodeBody(res.Body.Bytes(), &config))
	as.Equal(steward.ID, config.AdminID)
	as.Equal(100, config.BasePremiumRate)
	as.Equal(models.DefaultTokenMultiplier, config.TokenMultiplier)

	// a second initialization is refused
	res = as.authRequest(steward, "/config").Post(input)
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorAlreadyInitialized)}, res.Body.String(), "")

	res = as.authRequest(users[0], "/config").Get()
	as.Equal(http.StatusOK, res.Code)
}

func (as *ActionSuite) Test_PremiumQuote() {
	models.CreateAdminFixture(as.DB, 100)
	user := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.authRequest(user, "/quote").Post(api.PremiumQuoteInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1_000_000_000,
		CoveragePeriod: 365 * domain.SecondsPerDay,
	})
	as.Equal(http.StatusOK, res.Code, "response: %s", res.Body.String())

	var quote api.PremiumQuote
	as.NoError(as.decodeBody(res.Body.Bytes(), &quote))
	as.EqualValues(10_000_000, quote.Premium)

	res = as.authRequest(user, "/quote").Post(api.PremiumQuoteInput{
		CoverageType:   "Boat",
		CoverageAmount: 1_000_000_000,
		CoveragePeriod: 365 * domain.SecondsPerDay,
	})
	as.Equal(http.StatusBadRequest, res.Code)
}

func (as *ActionSuite) Test_ContractTotals() {
	models.CreateAdminFixture(as.DB, 100)
	user := models.CreateUserFixtures(as.DB, 1).Users[0]
	as.purchasePolicy(user, api.CoverageTypeCombined)
	as.submitClaim(user, 100)

	res := as.authRequest(user, "/totals").Get()
	as.Equal(http.StatusOK, res.Code)

	var totals api.ContractTotals
	as.NoError(as.decodeBody(res.Body.Bytes(), &totals))
	as.EqualValues(1, totals.TotalPolicies)
	as.EqualValues(1, totals.TotalClaims)
	as.EqualValues(4_438_356, totals.PoolBalance)
}
