package models

import (
	"time"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

func (ms *ModelSuite) purchaseFixturePolicy(user User, coverageType api.CoverageType, amount, period int64) Policy {
	policy, err := PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   coverageType,
		CoverageAmount: amount,
		CoveragePeriod: period,
		AssetAddress:   randStr(56),
	})
	ms.NoError(err)
	return policy
}

func (ms *ModelSuite) TestPurchasePolicy() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)

	ms.Equal(api.PolicyStatusActive, policy.Status)
	ms.EqualValues(821_917, policy.PremiumPaid, "incorrect premium")
	ms.Equal(ms.clock.Now().UTC(), policy.StartTime)
	ms.Equal(ms.clock.Now().UTC().Add(30*domain.DurationDay), policy.EndTime)
	ms.True(policy.IsInForce(ms.clock.Now().UTC()))

	pool, err := GetPremiumPool(ms.DB)
	ms.NoError(err)
	ms.EqualValues(821_917, pool.Balance, "premium was not credited to the pool")

	var entries LedgerEntries
	ms.NoError(entries.AllNotEntered(ms.DB))
	ms.Len(entries, 1)
	ms.Equal(EntryTypePremium, entries[0].EntryType)
	ms.EqualValues(821_917, entries[0].Amount)
}

func (ms *ModelSuite) TestPurchasePolicy_Limits() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	_, err := PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 2_000_000_000_000,
		CoveragePeriod: 30 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorPolicyCoverageAmount)

	_, err = PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1000,
		CoveragePeriod: 3 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorPolicyCoveragePeriod)

	_, err = PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1000,
		CoveragePeriod: 400 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorPolicyCoveragePeriod)

	_, err = PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageType("House"),
		CoverageAmount: 1000,
		CoveragePeriod: 30 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorValidation)
}

func (ms *ModelSuite) TestPurchasePolicy_AlreadyActive() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)

	_, err := PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1_000_000_000,
		CoveragePeriod: 30 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorPolicyAlreadyActive)

	// expiry is lazy and never rewrites the status, so a lapsed row still
	// blocks a repurchase; renewal is the path back from a lapse
	ms.clock.Advance(31 * domain.DurationDay)

	_, err = PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1_000_000_000,
		CoveragePeriod: 30 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorPolicyAlreadyActive)
}

func (ms *ModelSuite) TestPurchasePolicy_ReplacesCancelledRow() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	first := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)
	_, err := first.Cancel(ms.DB, user)
	ms.NoError(err)

	second := ms.purchaseFixturePolicy(user, api.CoverageTypeNFT, 500_000_000, 60*domain.SecondsPerDay)
	ms.Equal(first.ID, second.ID, "repurchase must reuse the user's policy row")
	ms.Equal(api.CoverageTypeNFT, second.CoverageType)
	ms.Equal(api.PolicyStatusActive, second.Status)
}

func (ms *ModelSuite) TestPurchasePolicy_Paused() {
	admin, config := CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]
	ms.NoError(config.SetPaused(ms.DB, admin, true))

	_, err := PurchasePolicy(ms.DB, user, api.PolicyPurchaseInput{
		CoverageType:   api.CoverageTypeToken,
		CoverageAmount: 1_000_000_000,
		CoveragePeriod: 30 * domain.SecondsPerDay,
		AssetAddress:   randStr(56),
	})
	ms.AppErrorKey(err, api.ErrorContractPaused)
}

func (ms *ModelSuite) TestPolicyRenew() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)
	originalEnd := policy.EndTime

	ms.clock.Advance(10 * domain.DurationDay)

	ms.NoError(policy.Renew(ms.DB, user, api.PolicyRenewInput{AdditionalPeriod: 30 * domain.SecondsPerDay}))

	ms.Equal(originalEnd.Add(30*domain.DurationDay), policy.EndTime, "extension must start at the current end time")
	ms.EqualValues(2*821_917, policy.PremiumPaid, "only the added period is charged")
	ms.Equal(api.PolicyStatusActive, policy.Status)
}

func (ms *ModelSuite) TestPolicyRenew_Lapsed() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)

	ms.clock.Advance(40 * domain.DurationDay)
	now := ms.clock.Now().UTC()

	ms.NoError(policy.Renew(ms.DB, user, api.PolicyRenewInput{AdditionalPeriod: 30 * domain.SecondsPerDay}))

	ms.Equal(now.Add(30*domain.DurationDay), policy.EndTime, "extension of a lapsed policy must start now")
	ms.Equal(api.PolicyStatusActive, policy.Status)
}

func (ms *ModelSuite) TestPolicyRenew_TotalSpanLimit() {
	// a fresh purchase may use the full maximum period, but a renewal is
	// measured from the original start time and must stay inside it
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 365*domain.SecondsPerDay)

	err := policy.Renew(ms.DB, user, api.PolicyRenewInput{AdditionalPeriod: domain.SecondsPerDay})
	ms.AppErrorKey(err, api.ErrorPolicyPeriodExceedsLimit)
}

func (ms *ModelSuite) TestPolicyRenew_Cancelled() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)
	_, err := policy.Cancel(ms.DB, user)
	ms.NoError(err)

	err = policy.Renew(ms.DB, user, api.PolicyRenewInput{AdditionalPeriod: 30 * domain.SecondsPerDay})
	ms.AppErrorKey(err, api.ErrorPolicyNotRenewable)
}

func (ms *ModelSuite) TestPolicyCancel() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)

	// ten days used out of thirty leaves a two-thirds refund
	ms.clock.Advance(10 * domain.DurationDay)

	refund, err := policy.Cancel(ms.DB, user)
	ms.NoError(err)
	ms.EqualValues(547_944, refund, "incorrect prorated refund")
	ms.Equal(api.PolicyStatusCancelled, policy.Status)

	pool, err := GetPremiumPool(ms.DB)
	ms.NoError(err)
	ms.EqualValues(821_917-547_944, pool.Balance, "refund was not debited from the pool")

	// cancellation is permanent
	_, err = policy.Cancel(ms.DB, user)
	ms.AppErrorKey(err, api.ErrorPolicyNotActive)
}

func (ms *ModelSuite) TestPolicyCancel_WhilePaused() {
	admin, config := CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)

	ms.clock.Advance(10 * domain.DurationDay)

	// a pause must not trap holders in their coverage
	ms.NoError(config.SetPaused(ms.DB, admin, true))

	refund, err := policy.Cancel(ms.DB, user)
	ms.NoError(err)
	ms.EqualValues(547_944, refund, "incorrect prorated refund")
	ms.Equal(api.PolicyStatusCancelled, policy.Status)
}

func (ms *ModelSuite) TestPolicyCancel_AfterExpiry() {
	CreateAdminFixture(ms.DB, 100)
	user := CreateUserFixtures(ms.DB, 1).Users[0]

	policy := ms.purchaseFixturePolicy(user, api.CoverageTypeToken, 1_000_000_000, 30*domain.SecondsPerDay)

	ms.clock.Advance(31 * domain.DurationDay)

	refund, err := policy.Cancel(ms.DB, user)
	ms.NoError(err)
	ms.EqualValues(0, refund, "no refund after the coverage has run out")
	ms.Equal(api.PolicyStatusCancelled, policy.Status)
}

func (ms *ModelSuite) TestPolicyIsInForce() {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := Policy{
		Status:    api.PolicyStatusActive,
		StartTime: now,
		EndTime:   now.Add(30 * domain.DurationDay),
	}

	ms.True(policy.IsInForce(now))
	ms.True(policy.IsInForce(policy.EndTime))
	ms.False(policy.IsInForce(policy.EndTime.Add(time.Second)), "expiry is lazy but still binding")
	ms.False(policy.IsInForce(now.Add(-time.Second)))

	policy.Status = api.PolicyStatusCancelled
	ms.False(policy.IsInForce(now))
}
