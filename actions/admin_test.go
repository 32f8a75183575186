package actions

import (
	"fmt"
	"net/http"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

func (as *ActionSuite) Test_AdminRoutesRequireAdmin() {
	models.CreateAdminFixture(as.DB, 100)
	user := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.authRequest(user, "/admin/pool").Get()
	as.Equal(http.StatusNotFound, res.Code)

	res = as.authRequest(user, "/admin/pool/deposit").Post(api.PoolAmountInput{Amount: 100})
	as.Equal(http.StatusNotFound, res.Code)
}

func (as *ActionSuite) Test_AdminUpdateRates() {
	models.CreateAdminFixture(as.DB, 100)
	admin, _ := as.adminUser()

	res := as.authRequest(admin, "/admin/rates").Put(api.PremiumRatesInput{
		BasePremiumRate:    200,
		NFTMultiplier:      160,
		TokenMultiplier:    110,
		CombinedMultiplier: 190,
	})
	as.Equal(http.StatusOK, res.Code, "response: %s", res.Body.String())

	var config api.InsuranceConfig
	as.NoError(as.decodeBody(res.Body.Bytes(), &config))
	as.Equal(200, config.BasePremiumRate)
	as.Equal(190, config.CombinedMultiplier)
}

func (as *ActionSuite) Test_AdminPausedBlocksPurchase() {
	models.CreateAdminFixture(as.DB, 100)
	admin, _ := as.adminUser()
	user := models.CreateUserFixtures(as.DB, 1).Users[0]

	res := as.authRequest(admin, "/admin/paused").Put(api.PausedInput{Paused: true})
	as.Equal(http.StatusOK, res.Code)

	res = as.authRequest(user, "/policies").Post(api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1_000_000_000,
		CoveragePeriod: 30 * domain.SecondsPerDay,
		AssetAddress:   "CCTOKEN",
	})
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorContractPaused)}, res.Body.String(), "")

	res = as.authRequest(admin, "/admin/paused").Put(api.PausedInput{Paused: false})
	as.Equal(http.StatusOK, res.Code)
	as.purchasePolicy(user, api.CoverageTypeToken)
}

func (as *ActionSuite) Test_AdminPoolOps() {
	models.CreateAdminFixture(as.DB, 100)
	admin, _ := as.adminUser()

	res := as.authRequest(admin, "/admin/pool/deposit").Post(api.PoolAmountInput{Amount: 1000})
	as.Equal(http.StatusOK, res.Code)

	var pool api.PremiumPool
	as.NoError(as.decodeBody(res.Body.Bytes(), &pool))
	as.EqualValues(1000, pool.Balance)

	// overdraw is refused
	res = as.authRequest(admin, "/admin/pool/withdraw").Post(api.PoolAmountInput{Amount: 1001})
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorPoolInsufficient)}, res.Body.String(), "")

	res = as.authRequest(admin, "/admin/pool/withdraw").Post(api.PoolAmountInput{Amount: 400})
	as.Equal(http.StatusOK, res.Code)
	as.NoError(as.decodeBody(res.Body.Bytes(), &pool))
	as.EqualValues(600, pool.Balance)

	res = as.authRequest(admin, "/admin/pool").Get()
	as.Equal(http.StatusOK, res.Code)
	as.NoError(as.decodeBody(res.Body.Bytes(), &pool))
	as.EqualValues(600, pool.Balance)

	// the emergency drain takes whatever is left, no amount given
	res = as.authRequest(admin, "/admin/pool/emergency-withdraw").Post(nil)
	as.Equal(http.StatusOK, res.Code)
	as.NoError(as.decodeBody(res.Body.Bytes(), &pool))
	as.EqualValues(0, pool.Balance)
}

func (as *ActionSuite) Test_AdminFlagUnflagUser() {
	models.CreateAdminFixture(as.DB, 100)
	admin, _ := as.adminUser()
	user := models.CreateUserFixtures(as.DB, 1).Users[0]
	as.purchasePolicy(user, api.CoverageTypeCombined)

	flagPath := fmt.Sprintf("/admin/users/%s/flag", user.ID)
	res := as.authRequest(admin, flagPath).Post(api.FlagUserInput{Reason: "duplicate evidence across accounts"})
	as.Equal(http.StatusOK, res.Code, "response: %s", res.Body.String())

	var metrics api.FraudMetrics
	as.NoError(as.decodeBody(res.Body.Bytes(), &metrics))
	as.True(metrics.Flagged)
	as.Equal("duplicate evidence across accounts", metrics.FlagReason)

	// a flagged user cannot submit a claim
	res = as.authRequest(user, "/claims").Post(api.ClaimCreateInput{
		AssetType:    api.AssetTypeToken,
		AssetAddress: "CCASSET",
		ClaimAmount:  100,
		Description:  "funds lost in an exploit",
	})
	as.Equal(http.StatusNotFound, res.Code)

	unflagPath := fmt.Sprintf("/admin/users/%s/unflag", user.ID)
	res = as.authRequest(admin, unflagPath).Post(nil)
	as.Equal(http.StatusOK, res.Code)
	as.NoError(as.decodeBody(res.Body.Bytes(), &metrics))
	as.False(metrics.Flagged)

	as.submitClaim(user, 100)
}

func (as *ActionSuite) Test_AdminLedger() {
	models.CreateAdminFixture(as.DB, 100)
	admin, _ := as.adminUser()
	user := models.CreateUserFixtures(as.DB, 1).Users[0]
	as.purchasePolicy(user, api.CoverageTypeToken)

	res := as.authRequest(admin, "/admin/ledger?month=2026-03").Get()
	as.Equal(http.StatusOK, res.Code)
	as.Contains(res.Body.String(), "Premium")

	res = as.authRequest(admin, "/admin/ledger/reconcile?month=2026-03").Post(nil)
	as.Equal(http.StatusOK, res.Code)
	as.Contains(res.Body.String(), `"reconciled":1`)

	// a second reconcile finds nothing left
	res = as.authRequest(admin, "/admin/ledger/reconcile?month=2026-03").Post(nil)
	as.Equal(http.StatusOK, res.Code)
	as.Contains(res.Body.String(), `"reconciled":0`)

	res = as.authRequest(admin, "/admin/ledger?month=March").Get()
	as.Equal(http.StatusBadRequest, res.Code)
}
