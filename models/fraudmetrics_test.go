package models

import (
	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

func (ms *ModelSuite) TestClaimCooldown() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]
	ms.purchaseFixturePolicy(user, api.CoverageTypeCombined, 1_000_000_000, 90*domain.SecondsPerDay)

	ms.clock.Advance(10 * domain.DurationDay)
	first := ms.submitFixtureClaim(user, api.AssetTypeToken, 100)

	// five days later is inside the seven day cooldown
	ms.clock.Advance(5 * domain.DurationDay)
	_, err := SubmitClaim(ms.DB, user, api.ClaimCreateInput{
		AssetType:    api.AssetTypeToken,
		AssetAddress: randStr(56),
		ClaimAmount:  100,
		Description:  "too soon",
	})
	ms.AppErrorKey(err, api.ErrorFraudClaimCooldown)

	// three more days puts the last successful claim eight days back, and the
	// refused attempt left no trace, so the next claim gets the next ID
	ms.clock.Advance(3 * domain.DurationDay)
	second := ms.submitFixtureClaim(user, api.AssetTypeToken, 100)
	ms.Equal(first.ID+1, second.ID)
}

func (ms *ModelSuite) TestClaimWindowLimit() {
	admin, config := CreateAdminFixture(ms.DB, 100)
	ms.NoError(config.UpdateFraudParams(ms.DB, admin, api.FraudParamsInput{
		MaxClaimsPerPeriod: 3,
		ClaimCooldown:      0,
	}))

	user := CreateUserFixtures(ms.DB, 1).Users[0]
	ms.purchaseFixturePolicy(user, api.CoverageTypeCombined, 1_000_000_000, 365*domain.SecondsPerDay)

	for i := 0; i < 3; i++ {
		ms.submitFixtureClaim(user, api.AssetTypeToken, 100)
		ms.clock.Advance(domain.DurationDay)
	}

	_, err := SubmitClaim(ms.DB, user, api.ClaimCreateInput{
		AssetType:    api.AssetTypeToken,
		AssetAddress: randStr(56),
		ClaimAmount:  100,
		Description:  "one too many",
	})
	ms.AppErrorKey(err, api.ErrorFraudTooManyClaims)

	// once the oldest claim ages out of the trailing window, room opens up
	ms.clock.Advance(29 * domain.DurationDay)
	ms.submitFixtureClaim(user, api.AssetTypeToken, 100)
}

func (ms *ModelSuite) TestFlagUser() {
	admin, _ := CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]
	ms.purchaseFixturePolicy(user, api.CoverageTypeCombined, 1_000_000_000, 90*domain.SecondsPerDay)

	err := FlagUser(ms.DB, user, user, "self flag")
	ms.AppErrorKey(err, api.ErrorAdminOnly)

	ms.NoError(FlagUser(ms.DB, admin, user, "suspicious wallet activity"))

	_, err = SubmitClaim(ms.DB, user, api.ClaimCreateInput{
		AssetType:    api.AssetTypeToken,
		AssetAddress: randStr(56),
		ClaimAmount:  100,
		Description:  "flagged user claim",
	})
	ms.AppErrorKey(err, api.ErrorFraudUserFlagged)

	ms.NoError(UnflagUser(ms.DB, admin, user))
	ms.submitFixtureClaim(user, api.AssetTypeToken, 100)
}

func (ms *ModelSuite) TestUnflagUser_NoMetrics() {
	admin, _ := CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	err := UnflagUser(ms.DB, admin, user)
	ms.AppErrorKey(err, api.ErrorFraudMetricsMissing)
}

func (ms *ModelSuite) TestGetFraudMetrics() {
	admin, config := CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	// a user who has never claimed reports zero values
	metrics, err := GetFraudMetrics(ms.DB, user.ID)
	ms.NoError(err)
	ms.Equal(0, metrics.TotalClaims)
	ms.False(metrics.Flagged)
	ms.Nil(metrics.LastClaimAt)
	ms.Empty(metrics.RecentClaims)

	ms.NoError(config.UpdateFraudParams(ms.DB, admin, api.FraudParamsInput{
		MaxClaimsPerPeriod: 10,
		ClaimCooldown:      0,
	}))
	ms.purchaseFixturePolicy(user, api.CoverageTypeCombined, 1_000_000_000, 365*domain.SecondsPerDay)

	first := ms.submitFixtureClaim(user, api.AssetTypeToken, 100)
	ms.clock.Advance(40 * domain.DurationDay)
	second := ms.submitFixtureClaim(user, api.AssetTypeToken, 100)

	metrics, err = GetFraudMetrics(ms.DB, user.ID)
	ms.NoError(err)
	ms.Equal(2, metrics.TotalClaims, "lifetime count keeps aged-out claims")
	ms.NotContains(metrics.RecentClaims, first.ID, "aged-out claim must not be recent")
	ms.Equal([]int64{second.ID}, metrics.RecentClaims, "only the claim inside the window is recent")
	ms.NotNil(metrics.LastClaimAt)
	ms.Equal(second.SubmittedAt, *metrics.LastClaimAt)
}
