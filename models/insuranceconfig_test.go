package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

func (ms *ModelSuite) TestInitializeConfig() {
	admin, config := CreateAdminFixture(ms.DB, 100)

	ms.Equal(admin.ID, config.AdminID, "incorrect admin ID")
	ms.Equal(100, config.BasePremiumRate, "incorrect base premium rate")
	ms.Equal(150, config.NFTMultiplier, "incorrect NFT multiplier")
	ms.Equal(100, config.TokenMultiplier, "incorrect Token multiplier")
	ms.Equal(180, config.CombinedMultiplier, "incorrect Combined multiplier")
	ms.EqualValues(7*domain.SecondsPerDay, config.MinCoveragePeriod)
	ms.EqualValues(365*domain.SecondsPerDay, config.MaxCoveragePeriod)
	ms.EqualValues(1_000_000_000_000, config.MaxCoverageAmount)
	ms.EqualValues(7*domain.SecondsPerDay, config.ClaimReviewPeriod)
	ms.Equal(3, config.MaxClaimsPerPeriod)
	ms.EqualValues(7*domain.SecondsPerDay, config.ClaimCooldown)
	ms.False(config.Paused, "a new contract must not be paused")

	pool, err := GetPremiumPool(ms.DB)
	ms.NoError(err)
	ms.EqualValues(0, pool.Balance, "pool must start empty")

	// a second initialization must fail
	_, err = InitializeConfig(ms.DB, admin, api.ConfigInitializeInput{
		PaymentAsset:    "USDC:other",
		BasePremiumRate: 50,
	})
	ms.AppErrorKey(err, api.ErrorAlreadyInitialized)
}

func (ms *ModelSuite) TestGetConfig_NotInitialized() {
	_, err := GetConfig(ms.DB)
	ms.AppErrorKey(err, api.ErrorNotInitialized)
}

func (ms *ModelSuite) TestCalculatePremium() {
	_, config := CreateAdminFixture(ms.DB, 100)

	tests := []struct {
		name         string
		coverageType api.CoverageType
		amount       int64
		period       int64
		want         int64
	}{
		{
			name:         "token full year",
			coverageType: api.CoverageTypeToken,
			amount:       1_000_000_000,
			period:       365 * domain.SecondsPerDay,
			want:         10_000_000,
		},
		{
			name:         "nft full year",
			coverageType: api.CoverageTypeNFT,
			amount:       1_000_000_000,
			period:       365 * domain.SecondsPerDay,
			want:         15_000_000,
		},
		{
			name:         "combined full year",
			coverageType: api.CoverageTypeCombined,
			amount:       1_000_000_000,
			period:       365 * domain.SecondsPerDay,
			want:         18_000_000,
		},
		{
			name:         "token thirty days rounds down",
			coverageType: api.CoverageTypeToken,
			amount:       1_000_000_000,
			period:       30 * domain.SecondsPerDay,
			want:         821_917,
		},
		{
			name:         "partial day does not count",
			coverageType: api.CoverageTypeToken,
			amount:       1_000_000_000,
			period:       30*domain.SecondsPerDay + 3600,
			want:         821_917,
		},
		{
			name:         "minimum premium is one",
			coverageType: api.CoverageTypeToken,
			amount:       1,
			period:       7 * domain.SecondsPerDay,
			want:         1,
		},
		{
			name:         "large amount does not overflow",
			coverageType: api.CoverageTypeCombined,
			amount:       1_000_000_000_000,
			period:       365 * domain.SecondsPerDay,
			want:         18_000_000_000,
		},
	}
	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			got := config.CalculatePremium(tt.coverageType, tt.amount, tt.period)
			require.Equal(t, tt.want, got)
		})
	}
}

func (ms *ModelSuite) TestConfigAdminOps() {
	admin, config := CreateAdminFixture(ms.DB, 100)
	other := CreateUserFixtures(ms.DB, 1).Users[0]

	err := config.UpdatePremiumRates(ms.DB, other, api.PremiumRatesInput{
		BasePremiumRate: 200, NFTMultiplier: 150, TokenMultiplier: 100, CombinedMultiplier: 180,
	})
	ms.AppErrorKey(err, api.ErrorAdminOnly)

	err = config.UpdatePremiumRates(ms.DB, admin, api.PremiumRatesInput{
		BasePremiumRate: 200, NFTMultiplier: 120, TokenMultiplier: 80, CombinedMultiplier: 220,
	})
	ms.NoError(err)

	fresh, err := GetConfig(ms.DB)
	ms.NoError(err)
	ms.Equal(200, fresh.BasePremiumRate)
	ms.Equal(120, fresh.NFTMultiplier)

	err = config.UpdateCoverageLimits(ms.DB, admin, api.CoverageLimitsInput{
		MinCoveragePeriod: 30 * domain.SecondsPerDay,
		MaxCoveragePeriod: 7 * domain.SecondsPerDay,
		MaxCoverageAmount: 1000,
	})
	ms.AppErrorKey(err, api.ErrorValidation)

	err = config.UpdateFraudParams(ms.DB, admin, api.FraudParamsInput{
		MaxClaimsPerPeriod: 5,
		ClaimCooldown:      domain.SecondsPerDay,
	})
	ms.NoError(err)

	ms.NoError(config.SetPaused(ms.DB, admin, true))
	fresh, err = GetConfig(ms.DB)
	ms.NoError(err)
	ms.True(fresh.Paused)
}
