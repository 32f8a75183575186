package models

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

// Defaults seeded at initialization. Multipliers are percentages of the base
// rate (150 = 1.5x). Periods and cooldowns are in seconds.
const (
	DefaultNFTMultiplier      = 150
	DefaultTokenMultiplier    = 100
	DefaultCombinedMultiplier = 180

	DefaultMinCoveragePeriod = 7 * domain.SecondsPerDay
	DefaultMaxCoveragePeriod = 365 * domain.SecondsPerDay
	DefaultMaxCoverageAmount = int64(1_000_000_000_000)
	DefaultClaimReviewPeriod = 7 * domain.SecondsPerDay

	DefaultMaxClaimsPerPeriod = 3
	DefaultClaimCooldown      = 7 * domain.SecondsPerDay
)

var ValidCoverageTypes = map[api.CoverageType]struct{}{
	api.CoverageTypeNFT:      {},
	api.CoverageTypeToken:    {},
	api.CoverageTypeCombined: {},
}

// InsuranceConfig is the contract configuration. Exactly one row exists once
// the contract has been initialized.
type InsuranceConfig struct {
	ID                 uuid.UUID `db:"id"`
	AdminID            uuid.UUID `db:"admin_id" validate:"required"`
	PaymentAsset       string    `db:"payment_asset" validate:"required"`
	BasePremiumRate    int       `db:"base_premium_rate" validate:"min=1"`
	NFTMultiplier      int       `db:"nft_multiplier" validate:"min=1"`
	TokenMultiplier    int       `db:"token_multiplier" validate:"min=1"`
	CombinedMultiplier int       `db:"combined_multiplier" validate:"min=1"`
	MinCoveragePeriod  int64     `db:"min_coverage_period" validate:"min=1"`
	MaxCoveragePeriod  int64     `db:"max_coverage_period" validate:"min=1"`
	MaxCoverageAmount  int64     `db:"max_coverage_amount" validate:"min=1"`
	ClaimReviewPeriod  int64     `db:"claim_review_period" validate:"min=1"`
	MaxClaimsPerPeriod int       `db:"max_claims_per_period" validate:"min=1"`
	ClaimCooldown      int64     `db:"claim_cooldown" validate:"min=0"`
	Paused             bool      `db:"paused"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (ic *InsuranceConfig) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(ic), nil
}

// InitializeConfig seeds the one and only configuration row with the caller
// as contract admin. A second call fails.
func InitializeConfig(tx *pop.Connection, actor User, input api.ConfigInitializeInput) (InsuranceConfig, error) {
	var existing InsuranceConfig
	found, err := existing.exists(tx)
	if err != nil {
		return InsuranceConfig{}, err
	}
	if found {
		return InsuranceConfig{}, api.NewAppError(
			errors.New("contract is already initialized"), api.ErrorAlreadyInitialized, api.CategoryUser)
	}

	if input.BasePremiumRate < 1 {
		return InsuranceConfig{}, api.NewAppError(
			errors.New("base premium rate must be positive"), api.ErrorValidation, api.CategoryUser)
	}

	config := InsuranceConfig{
		AdminID:            actor.ID,
		PaymentAsset:       input.PaymentAsset,
		BasePremiumRate:    input.BasePremiumRate,
		NFTMultiplier:      DefaultNFTMultiplier,
		TokenMultiplier:    DefaultTokenMultiplier,
		CombinedMultiplier: DefaultCombinedMultiplier,
		MinCoveragePeriod:  DefaultMinCoveragePeriod,
		MaxCoveragePeriod:  DefaultMaxCoveragePeriod,
		MaxCoverageAmount:  DefaultMaxCoverageAmount,
		ClaimReviewPeriod:  DefaultClaimReviewPeriod,
		MaxClaimsPerPeriod: DefaultMaxClaimsPerPeriod,
		ClaimCooldown:      DefaultClaimCooldown,
	}

	if err := create(tx, &config); err != nil {
		return InsuranceConfig{}, err
	}

	pool := PremiumPool{}
	if err := create(tx, &pool); err != nil {
		return InsuranceConfig{}, err
	}

	return config, nil
}

func (ic *InsuranceConfig) exists(tx *pop.Connection) (bool, error) {
	count, err := tx.Count(InsuranceConfig{})
	if err != nil {
		return false, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return count > 0, nil
}

// GetConfig loads the configuration row, or errors if the contract has not
// been initialized.
func GetConfig(tx *pop.Connection) (InsuranceConfig, error) {
	var config InsuranceConfig
	if err := tx.First(&config); err != nil {
		if domain.IsOtherThanNoRows(err) {
			return config, appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return config, api.NewAppError(
			errors.New("contract is not initialized"), api.ErrorNotInitialized, api.CategoryUser)
	}
	return config, nil
}

// requireAdmin verifies the actor is the stored contract admin
func (ic *InsuranceConfig) requireAdmin(actor User) error {
	if actor.ID != ic.AdminID {
		err := fmt.Errorf("actor %s is not the contract admin", actor.ID)
		return api.NewAppError(err, api.ErrorAdminOnly, api.CategoryForbidden)
	}
	return nil
}

// requireNotPaused gates purchase, renewal, and claim submission while
// paused. Cancellation, claim review, and payout intentionally bypass this
// so in-flight obligations can still be honored.
func (ic *InsuranceConfig) requireNotPaused() error {
	if ic.Paused {
		return api.NewAppError(errors.New("contract is paused"), api.ErrorContractPaused, api.CategoryUser)
	}
	return nil
}

func (ic *InsuranceConfig) UpdatePremiumRates(tx *pop.Connection, actor User, input api.PremiumRatesInput) error {
	if err := ic.requireAdmin(actor); err != nil {
		return err
	}

	ic.BasePremiumRate = input.BasePremiumRate
	ic.NFTMultiplier = input.NFTMultiplier
	ic.TokenMultiplier = input.TokenMultiplier
	ic.CombinedMultiplier = input.CombinedMultiplier

	return update(tx, ic)
}

func (ic *InsuranceConfig) UpdateCoverageLimits(tx *pop.Connection, actor User, input api.CoverageLimitsInput) error {
	if err := ic.requireAdmin(actor); err != nil {
		return err
	}

	if input.MinCoveragePeriod > input.MaxCoveragePeriod {
		err := errors.New("minimum coverage period exceeds maximum")
		return api.NewAppError(err, api.ErrorValidation, api.CategoryUser)
	}

	ic.MinCoveragePeriod = input.MinCoveragePeriod
	ic.MaxCoveragePeriod = input.MaxCoveragePeriod
	ic.MaxCoverageAmount = input.MaxCoverageAmount

	return update(tx, ic)
}

func (ic *InsuranceConfig) UpdateFraudParams(tx *pop.Connection, actor User, input api.FraudParamsInput) error {
	if err := ic.requireAdmin(actor); err != nil {
		return err
	}

	ic.MaxClaimsPerPeriod = input.MaxClaimsPerPeriod
	ic.ClaimCooldown = input.ClaimCooldown

	return update(tx, ic)
}

func (ic *InsuranceConfig) SetPaused(tx *pop.Connection, actor User, paused bool) error {
	if err := ic.requireAdmin(actor); err != nil {
		return err
	}

	ic.Paused = paused

	return update(tx, ic)
}

// multiplier returns the rate multiplier for a coverage type, as a percentage
// of the base rate.
func (ic *InsuranceConfig) multiplier(coverageType api.CoverageType) int {
	switch coverageType {
	case api.CoverageTypeNFT:
		return ic.NFTMultiplier
	case api.CoverageTypeCombined:
		return ic.CombinedMultiplier
	default:
		return ic.TokenMultiplier
	}
}

// CalculatePremium prices coverage of the given type, amount, and period
// (seconds). The arithmetic is done in big.Int so intermediate products
// cannot overflow before the final division:
//
//	premium = amount * (baseRate * multiplier / 100) * (period / 86400) / (365 * 10000)
//
// Periods are truncated to whole days, so a sub-day remainder prices as zero
// days. A valid positive quote never computes below 1.
func (ic *InsuranceConfig) CalculatePremium(coverageType api.CoverageType, amount, period int64) int64 {
	coverageDays := period / domain.SecondsPerDay
	annualRate := int64(ic.BasePremiumRate) * int64(ic.multiplier(coverageType)) / 100

	premium := new(big.Int).SetInt64(amount)
	premium.Mul(premium, big.NewInt(annualRate))
	premium.Mul(premium, big.NewInt(coverageDays))
	premium.Div(premium, big.NewInt(365*domain.BasisPoints))

	if premium.Cmp(big.NewInt(1)) < 0 {
		return 1
	}
	return premium.Int64()
}

// ConvertToAPI converts the config to its API type
func (ic *InsuranceConfig) ConvertToAPI() api.InsuranceConfig {
	return api.InsuranceConfig{
		AdminID:            ic.AdminID,
		PaymentAsset:       ic.PaymentAsset,
		BasePremiumRate:    ic.BasePremiumRate,
		NFTMultiplier:      ic.NFTMultiplier,
		TokenMultiplier:    ic.TokenMultiplier,
		CombinedMultiplier: ic.CombinedMultiplier,
		MinCoveragePeriod:  ic.MinCoveragePeriod,
		MaxCoveragePeriod:  ic.MaxCoveragePeriod,
		MaxCoverageAmount:  ic.MaxCoverageAmount,
		ClaimReviewPeriod:  ic.ClaimReviewPeriod,
		MaxClaimsPerPeriod: ic.MaxClaimsPerPeriod,
		ClaimCooldown:      ic.ClaimCooldown,
		Paused:             ic.Paused,
	}
}
