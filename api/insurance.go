package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// CoverageType classifies what a policy insures
//
// swagger:model
type CoverageType string

const (
	CoverageTypeNFT      = CoverageType("NFT")
	CoverageTypeToken    = CoverageType("Token")
	CoverageTypeCombined = CoverageType("Combined")
)

// PolicyStatus is the lifecycle status of a policy
//
// swagger:model
type PolicyStatus string

const (
	PolicyStatusActive    = PolicyStatus("Active")
	PolicyStatusExpired   = PolicyStatus("Expired")
	PolicyStatusCancelled = PolicyStatus("Cancelled")
)

// ClaimStatus is the lifecycle status of a claim
//
// swagger:model
type ClaimStatus string

const (
	ClaimStatusSubmitted   = ClaimStatus("Submitted")
	ClaimStatusUnderReview = ClaimStatus("UnderReview")
	ClaimStatusApproved    = ClaimStatus("Approved")
	ClaimStatusRejected    = ClaimStatus("Rejected")
	ClaimStatusPaid        = ClaimStatus("Paid")
)

// AssetType is the kind of asset named in a claim
//
// swagger:model
type AssetType string

const (
	AssetTypeNFT   = AssetType("NFT")
	AssetTypeToken = AssetType("Token")
)

// Policy represents an insurance policy
//
// swagger:model
type Policy struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	CoverageType   CoverageType `json:"coverage_type"`
	CoverageAmount int64        `json:"coverage_amount"`
	PremiumPaid    int64        `json:"premium_paid"`
	StartTime      time.Time    `json:"start_time"`
	EndTime        time.Time    `json:"end_time"`
	Status         PolicyStatus `json:"status"`
	AssetAddress   string       `json:"asset_address"`
	InForce        bool         `json:"in_force"`
}

// Policies is a list of Policy objects
//
// swagger:model
type Policies []Policy

// PolicyPurchaseInput is the input for purchasing a policy
//
// swagger:model
type PolicyPurchaseInput struct {
	CoverageType CoverageType `json:"coverage_type"`

	// coverage amount in minor units of the payment asset
	CoverageAmount int64 `json:"coverage_amount"`

	// coverage period in seconds
	CoveragePeriod int64 `json:"coverage_period"`

	// address of the NFT contract or token being insured
	AssetAddress string `json:"asset_address"`
}

// PolicyRenewInput is the input for renewing a policy
//
// swagger:model
type PolicyRenewInput struct {
	// additional coverage period in seconds
	AdditionalPeriod int64 `json:"additional_period"`
}

// Claim represents an insurance claim
//
// swagger:model
type Claim struct {
	ID             int64       `json:"id"`
	UserID         uuid.UUID   `json:"user_id"`
	PolicyID       uuid.UUID   `json:"policy_id"`
	AssetType      AssetType   `json:"asset_type"`
	AssetAddress   string      `json:"asset_address"`
	ClaimAmount    int64       `json:"claim_amount"`
	Description    string      `json:"description"`
	SubmittedAt    time.Time   `json:"submitted_at"`
	Status         ClaimStatus `json:"status"`
	ReviewNotes    string      `json:"review_notes"`
	PayoutAmount   int64       `json:"payout_amount"`
	PayoutAt       *time.Time  `json:"payout_at"`
	Files          ClaimFiles  `json:"files,omitempty"`
}

// Claims is a list of Claim objects
//
// swagger:model
type Claims []Claim

// ClaimCreateInput is the input for submitting a claim
//
// swagger:model
type ClaimCreateInput struct {
	AssetType    AssetType `json:"asset_type"`
	AssetAddress string    `json:"asset_address"`
	ClaimAmount  int64     `json:"claim_amount"`
	Description  string    `json:"description"`
}

// ClaimReviewInput is the admin input for deciding a claim
//
// swagger:model
type ClaimReviewInput struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes"`

	// approved payout amount, required if approved
	PayoutAmount int64 `json:"payout_amount"`
}

// ClaimFile links a stored file to a claim as evidence
//
// swagger:model
type ClaimFile struct {
	ID      uuid.UUID `json:"id"`
	ClaimID int64     `json:"claim_id"`
	File    File      `json:"file"`
}

// ClaimFiles is a list of ClaimFile objects
//
// swagger:model
type ClaimFiles []ClaimFile

// ClaimFileAttachInput is the input for attaching a file to a claim
//
// swagger:model
type ClaimFileAttachInput struct {
	FileID uuid.UUID `json:"file_id"`
}

// File represents a stored file such as claim evidence
//
// swagger:model
type File struct {
	ID          uuid.UUID `json:"id"`
	URL         string    `json:"url"`
	URLExpires  time.Time `json:"url_expires"`
	Name        string    `json:"name"`
	Size        int       `json:"size"`
	ContentType string    `json:"content_type"`
}

// InsuranceConfig is the contract configuration
//
// swagger:model
type InsuranceConfig struct {
	AdminID            uuid.UUID `json:"admin_id"`
	PaymentAsset       string    `json:"payment_asset"`
	BasePremiumRate    int       `json:"base_premium_rate"`
	NFTMultiplier      int       `json:"nft_multiplier"`
	TokenMultiplier    int       `json:"token_multiplier"`
	CombinedMultiplier int       `json:"combined_multiplier"`
	MinCoveragePeriod  int64     `json:"min_coverage_period"`
	MaxCoveragePeriod  int64     `json:"max_coverage_period"`
	MaxCoverageAmount  int64     `json:"max_coverage_amount"`
	ClaimReviewPeriod  int64     `json:"claim_review_period"`
	MaxClaimsPerPeriod int       `json:"max_claims_per_period"`
	ClaimCooldown      int64     `json:"claim_cooldown"`
	Paused             bool      `json:"paused"`
}

// ConfigInitializeInput is the input for the one-time contract initialization
//
// swagger:model
type ConfigInitializeInput struct {
	PaymentAsset string `json:"payment_asset"`

	// base premium rate in basis points (100 = 1%)
	BasePremiumRate int `json:"base_premium_rate"`
}

// PremiumRatesInput is the admin input for updating premium rates
//
// swagger:model
type PremiumRatesInput struct {
	BasePremiumRate    int `json:"base_premium_rate"`
	NFTMultiplier      int `json:"nft_multiplier"`
	TokenMultiplier    int `json:"token_multiplier"`
	CombinedMultiplier int `json:"combined_multiplier"`
}

// CoverageLimitsInput is the admin input for updating coverage limits
//
// swagger:model
type CoverageLimitsInput struct {
	MinCoveragePeriod int64 `json:"min_coverage_period"`
	MaxCoveragePeriod int64 `json:"max_coverage_period"`
	MaxCoverageAmount int64 `json:"max_coverage_amount"`
}

// FraudParamsInput is the admin input for updating fraud detection parameters
//
// swagger:model
type FraudParamsInput struct {
	MaxClaimsPerPeriod int   `json:"max_claims_per_period"`
	ClaimCooldown      int64 `json:"claim_cooldown"`
}

// PausedInput is the admin input for pausing or unpausing the contract
//
// swagger:model
type PausedInput struct {
	Paused bool `json:"paused"`
}

// PoolAmountInput is the admin input for pool deposits and withdrawals
//
// swagger:model
type PoolAmountInput struct {
	Amount int64 `json:"amount"`
}

// PremiumPool reports the current pool balance
//
// swagger:model
type PremiumPool struct {
	Balance int64 `json:"balance"`
}

// FraudMetrics reports a user's abuse-prevention metrics
//
// swagger:model
type FraudMetrics struct {
	UserID       uuid.UUID  `json:"user_id"`
	TotalClaims  int        `json:"total_claims"`
	RecentClaims []int64    `json:"recent_claims"`
	LastClaimAt  *time.Time `json:"last_claim_at"`
	Flagged      bool       `json:"flagged"`
	FlagReason   string     `json:"flag_reason"`
}

// FlagUserInput is the admin input for flagging a user
//
// swagger:model
type FlagUserInput struct {
	Reason string `json:"reason"`
}

// PremiumQuoteInput is the input for a premium quote
//
// swagger:model
type PremiumQuoteInput struct {
	CoverageType   CoverageType `json:"coverage_type"`
	CoverageAmount int64        `json:"coverage_amount"`
	CoveragePeriod int64        `json:"coverage_period"`
}

// PremiumQuote is the result of a premium calculation
//
// swagger:model
type PremiumQuote struct {
	Premium int64 `json:"premium"`
}

// ContractTotals reports the lifetime counters
//
// swagger:model
type ContractTotals struct {
	TotalPolicies int64 `json:"total_policies"`
	TotalClaims   int64 `json:"total_claims"`
	PoolBalance   int64 `json:"pool_balance"`
}
