package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

var ValidClaimStatus = map[api.ClaimStatus]struct{}{
	api.ClaimStatusSubmitted:   {},
	api.ClaimStatusUnderReview: {},
	api.ClaimStatusApproved:    {},
	api.ClaimStatusRejected:    {},
	api.ClaimStatusPaid:        {},
}

var ValidAssetTypes = map[api.AssetType]struct{}{
	api.AssetTypeNFT:   {},
	api.AssetTypeToken: {},
}

// claimTransitions enumerates the allowed status changes. Rejected and Paid
// are terminal.
var claimTransitions = map[api.ClaimStatus][]api.ClaimStatus{
	api.ClaimStatusSubmitted:   {api.ClaimStatusUnderReview, api.ClaimStatusApproved, api.ClaimStatusRejected},
	api.ClaimStatusUnderReview: {api.ClaimStatusApproved, api.ClaimStatusRejected},
	api.ClaimStatusApproved:    {api.ClaimStatusPaid},
}

type Claims []Claim

// Claim is a request for payout against a policy. Claim IDs are serial
// integers assigned by the database, so they are monotonic across the
// lifetime of the contract.
type Claim struct {
	ID           int64           `db:"id"`
	UserID       uuid.UUID       `db:"user_id" validate:"required"`
	PolicyID     uuid.UUID       `db:"policy_id" validate:"required"`
	AssetType    api.AssetType   `db:"asset_type" validate:"assetType"`
	AssetAddress string          `db:"asset_address" validate:"required"`
	ClaimAmount  int64           `db:"claim_amount" validate:"min=1"`
	Description  string          `db:"description" validate:"required"`
	SubmittedAt  time.Time       `db:"submitted_at" validate:"required"`
	Status       api.ClaimStatus `db:"status" validate:"claimStatus"`
	ReviewNotes  string          `db:"review_notes"`
	PayoutAmount int64           `db:"payout_amount" validate:"min=0"`
	PayoutAt     nulls.Time      `db:"payout_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`

	User       User       `belongs_to:"users" validate:"-"`
	Policy     Policy     `belongs_to:"policies" validate:"-"`
	ClaimFiles ClaimFiles `has_many:"claim_files" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (c *Claim) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

func (c *Claim) FindByID(tx *pop.Connection, id int64) error {
	if err := tx.Find(c, id); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return nil
}

// IsActorAllowedTo authorizes actions on a loaded claim. The admin-only
// operations get a second check in the model methods against the stored
// contract admin.
func (c *Claim) IsActorAllowedTo(actor User, perm Permission, sub SubResource) bool {
	if actor.IsAdmin() {
		return true
	}
	switch perm {
	case PermissionView, PermissionList:
		return actor.ID == c.UserID
	case PermissionCreate, PermissionUpdate:
		return actor.ID == c.UserID && sub == SubResource(api.ResourceFiles)
	default:
		return false
	}
}

// canTransitionTo checks the claim status state machine
func (c *Claim) canTransitionTo(status api.ClaimStatus) bool {
	for _, s := range claimTransitions[c.Status] {
		if s == status {
			return true
		}
	}
	return false
}

// SubmitClaim files a claim for the actor against their in-force policy. The
// fraud checks run before anything is written, so a rejected submission
// leaves no trace beyond the rolled-back transaction.
func SubmitClaim(tx *pop.Connection, actor User, input api.ClaimCreateInput) (Claim, error) {
	config, err := GetConfig(tx)
	if err != nil {
		return Claim{}, err
	}
	if err := config.requireNotPaused(); err != nil {
		return Claim{}, err
	}

	now := domain.Clock.Now().UTC()

	var policy Policy
	found, err := policy.FindByUserID(tx, actor.ID)
	if err != nil {
		return Claim{}, err
	}
	if !found {
		err := fmt.Errorf("user %s has no policy", actor.ID)
		return Claim{}, api.NewAppError(err, api.ErrorPolicyNotFound, api.CategoryNotFound)
	}
	if policy.Status != api.PolicyStatusActive {
		err := fmt.Errorf("policy in status %s cannot be claimed against", policy.Status)
		return Claim{}, api.NewAppError(err, api.ErrorPolicyNotActive, api.CategoryUser)
	}
	if now.Before(policy.StartTime) || now.After(policy.EndTime) {
		err := errors.New("claim filed outside the policy coverage window")
		return Claim{}, api.NewAppError(err, api.ErrorClaimOutsideCoverage, api.CategoryUser)
	}

	if err := policy.coversAsset(input.AssetType); err != nil {
		return Claim{}, err
	}

	if input.ClaimAmount < 1 || input.ClaimAmount > policy.CoverageAmount {
		err := fmt.Errorf("claim amount %d exceeds coverage of %d", input.ClaimAmount, policy.CoverageAmount)
		return Claim{}, api.NewAppError(err, api.ErrorClaimAmount, api.CategoryUser)
	}

	if len(input.Description) > domain.MaxClaimDescription {
		err := fmt.Errorf("claim description exceeds %d characters", domain.MaxClaimDescription)
		return Claim{}, api.NewAppError(err, api.ErrorValidation, api.CategoryUser)
	}

	if err := fraudCheck(tx, config, actor, now); err != nil {
		return Claim{}, err
	}

	claim := Claim{
		UserID:       actor.ID,
		PolicyID:     policy.ID,
		AssetType:    input.AssetType,
		AssetAddress: input.AssetAddress,
		ClaimAmount:  input.ClaimAmount,
		Description:  input.Description,
		SubmittedAt:  now,
		Status:       api.ClaimStatusSubmitted,
	}
	if err := create(tx, &claim); err != nil {
		return Claim{}, err
	}

	if err := recordClaim(tx, actor, now); err != nil {
		return Claim{}, err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiClaimSubmitted,
		Message: "claim submitted",
		Payload: events.Payload{
			domain.EventPayloadID:     claim.ID,
			domain.EventPayloadUserID: actor.ID,
		},
	})

	return claim, nil
}

// coversAsset checks claim asset compatibility with the coverage type.
// Combined coverage accepts both asset types.
func (p *Policy) coversAsset(assetType api.AssetType) error {
	if _, ok := ValidAssetTypes[assetType]; !ok {
		err := fmt.Errorf("invalid asset type %q", assetType)
		return api.NewAppError(err, api.ErrorValidation, api.CategoryUser)
	}

	covered := p.CoverageType == api.CoverageTypeCombined ||
		(p.CoverageType == api.CoverageTypeNFT && assetType == api.AssetTypeNFT) ||
		(p.CoverageType == api.CoverageTypeToken && assetType == api.AssetTypeToken)

	if !covered {
		err := fmt.Errorf("%s coverage does not cover %s assets", p.CoverageType, assetType)
		return api.NewAppError(err, api.ErrorClaimAssetNotCovered, api.CategoryUser)
	}
	return nil
}

// StartReview moves a submitted claim into review. Admin only.
func (c *Claim) StartReview(tx *pop.Connection, actor User) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	if !c.canTransitionTo(api.ClaimStatusUnderReview) {
		err := fmt.Errorf("claim in status %s cannot enter review", c.Status)
		return api.NewAppError(err, api.ErrorClaimStatus, api.CategoryUser)
	}

	c.Status = api.ClaimStatusUnderReview
	return update(tx, c)
}

// Review decides a claim. An approval requires a payout amount no greater
// than the claimed amount. A rejection is terminal. Review is allowed while
// the contract is paused so pending claims are not stranded.
func (c *Claim) Review(tx *pop.Connection, actor User, input api.ClaimReviewInput) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	newStatus := api.ClaimStatusRejected
	eventKind := domain.EventApiClaimRejected
	if input.Approved {
		newStatus = api.ClaimStatusApproved
		eventKind = domain.EventApiClaimApproved
	}

	if !c.canTransitionTo(newStatus) {
		err := fmt.Errorf("claim in status %s cannot be reviewed", c.Status)
		return api.NewAppError(err, api.ErrorClaimStatus, api.CategoryUser)
	}

	if input.Approved {
		if input.PayoutAmount < 1 || input.PayoutAmount > c.ClaimAmount {
			err := fmt.Errorf("payout %d must be positive and no more than the claimed %d",
				input.PayoutAmount, c.ClaimAmount)
			return api.NewAppError(err, api.ErrorClaimInvalidPayout, api.CategoryUser)
		}
		c.PayoutAmount = input.PayoutAmount
	}

	c.Status = newStatus
	c.ReviewNotes = input.Notes

	if err := update(tx, c); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    eventKind,
		Message: "claim reviewed",
		Payload: events.Payload{
			domain.EventPayloadID:     c.ID,
			domain.EventPayloadUserID: c.UserID,
		},
	})

	return nil
}

// ProcessPayout pays an approved claim from the pool. Like review, payout is
// allowed while paused.
func (c *Claim) ProcessPayout(tx *pop.Connection, actor User) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	if !c.canTransitionTo(api.ClaimStatusPaid) {
		err := fmt.Errorf("claim in status %s cannot be paid", c.Status)
		return api.NewAppError(err, api.ErrorClaimStatus, api.CategoryUser)
	}

	pool, err := GetPremiumPool(tx)
	if err != nil {
		return err
	}

	if err := pool.debit(tx, c.PayoutAmount, EntryTypePayout, nil, c,
		fmt.Sprintf("payout on claim %d", c.ID)); err != nil {
		return err
	}

	c.Status = api.ClaimStatusPaid
	c.PayoutAt = nulls.NewTime(domain.Clock.Now().UTC())

	if err := update(tx, c); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiClaimPaid,
		Message: "claim paid",
		Payload: events.Payload{
			domain.EventPayloadID:     c.ID,
			domain.EventPayloadUserID: c.UserID,
		},
	})

	return nil
}

// LoadClaimFiles hydrates the claim's evidence files
func (c *Claim) LoadClaimFiles(tx *pop.Connection) error {
	if err := tx.Load(c, "ClaimFiles"); err != nil {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for i := range c.ClaimFiles {
		if err := c.ClaimFiles[i].LoadFile(tx); err != nil {
			return err
		}
	}
	return nil
}

// ConvertToAPI converts the claim to its API type. Evidence files are
// included only if they have been loaded.
func (c *Claim) ConvertToAPI() api.Claim {
	out := api.Claim{
		ID:           c.ID,
		UserID:       c.UserID,
		PolicyID:     c.PolicyID,
		AssetType:    c.AssetType,
		AssetAddress: c.AssetAddress,
		ClaimAmount:  c.ClaimAmount,
		Description:  c.Description,
		SubmittedAt:  c.SubmittedAt,
		Status:       c.Status,
		ReviewNotes:  c.ReviewNotes,
		PayoutAmount: c.PayoutAmount,
	}
	if c.PayoutAt.Valid {
		t := c.PayoutAt.Time
		out.PayoutAt = &t
	}
	if len(c.ClaimFiles) > 0 {
		out.Files = c.ClaimFiles.ConvertToAPI()
	}
	return out
}

func (cs *Claims) All(tx *pop.Connection) error {
	err := tx.Order("id asc").All(cs)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// AllByStatus loads the claims in the given status, oldest first
func (cs *Claims) AllByStatus(tx *pop.Connection, status api.ClaimStatus) error {
	err := tx.Where("status = ?", status).Order("id asc").All(cs)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// ConvertToAPI converts the claims to their API type
func (cs *Claims) ConvertToAPI() api.Claims {
	out := make(api.Claims, len(*cs))
	for i := range *cs {
		out[i] = (*cs)[i].ConvertToAPI()
	}
	return out
}

// CountClaims reports the lifetime number of claims submitted
func CountClaims(tx *pop.Connection) (int64, error) {
	count, err := tx.Count(Claim{})
	if err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return int64(count), nil
}
