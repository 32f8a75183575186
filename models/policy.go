package models

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
)

var ValidPolicyStatus = map[api.PolicyStatus]struct{}{
	api.PolicyStatusActive:    {},
	api.PolicyStatusExpired:   {},
	api.PolicyStatusCancelled: {},
}

type Policies []Policy

// Policy is one user's insurance coverage. A user holds at most one policy
// row, which is replaced on repurchase after cancellation.
type Policy struct {
	ID             uuid.UUID        `db:"id"`
	UserID         uuid.UUID        `db:"user_id" validate:"required"`
	CoverageType   api.CoverageType `db:"coverage_type" validate:"coverageType"`
	CoverageAmount int64            `db:"coverage_amount" validate:"min=1"`
	PremiumPaid    int64            `db:"premium_paid" validate:"min=1"`
	StartTime      time.Time        `db:"start_time" validate:"required"`
	EndTime        time.Time        `db:"end_time" validate:"required"`
	Status         api.PolicyStatus `db:"status" validate:"policyStatus"`
	AssetAddress   string           `db:"asset_address" validate:"required"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`

	User User `belongs_to:"users" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (p *Policy) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(p), nil
}

func (p *Policy) GetID() uuid.UUID {
	return p.ID
}

func (p *Policy) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, p, id)
}

// FindByUserID loads the user's policy row. The bool reports whether one was
// found, leaving the no-rows case as a non-error for callers that treat an
// absent policy as normal.
func (p *Policy) FindByUserID(tx *pop.Connection, userID uuid.UUID) (bool, error) {
	if err := tx.Where("user_id = ?", userID).First(p); err != nil {
		if domain.IsOtherThanNoRows(err) {
			return false, appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return false, nil
	}
	return true, nil
}

func (p *Policy) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	switch perm {
	case PermissionView, PermissionList:
		return actor.IsAdmin() || actor.ID == p.UserID
	case PermissionCreate, PermissionUpdate:
		return actor.ID == p.UserID
	default:
		return actor.IsAdmin()
	}
}

// IsInForce is true when the policy row says Active and the clock agrees.
// Expiry is lazy, so a row can still say Active after its end time has passed.
func (p *Policy) IsInForce(t time.Time) bool {
	return p.Status == api.PolicyStatusActive &&
		!t.Before(p.StartTime) && !t.After(p.EndTime)
}

// PurchasePolicy issues coverage for the actor, collecting the premium into
// the pool. A row with status Active blocks a repurchase even after its
// coverage window has passed, since expiry is lazy and never rewrites the
// status. Renewal is the path back from a lapse. A cancelled row is replaced
// in place.
func PurchasePolicy(tx *pop.Connection, actor User, input api.PolicyPurchaseInput) (Policy, error) {
	config, err := GetConfig(tx)
	if err != nil {
		return Policy{}, err
	}
	if err := config.requireNotPaused(); err != nil {
		return Policy{}, err
	}

	if err := config.validateCoverage(input.CoverageType, input.CoverageAmount, input.CoveragePeriod); err != nil {
		return Policy{}, err
	}

	now := domain.Clock.Now().UTC()

	var policy Policy
	found, err := policy.FindByUserID(tx, actor.ID)
	if err != nil {
		return Policy{}, err
	}
	if found && policy.Status == api.PolicyStatusActive {
		err := fmt.Errorf("user %s already has an active policy", actor.ID)
		return Policy{}, api.NewAppError(err, api.ErrorPolicyAlreadyActive, api.CategoryUser)
	}

	premium := config.CalculatePremium(input.CoverageType, input.CoverageAmount, input.CoveragePeriod)

	policy.UserID = actor.ID
	policy.CoverageType = input.CoverageType
	policy.CoverageAmount = input.CoverageAmount
	policy.PremiumPaid = premium
	policy.StartTime = now
	policy.EndTime = now.Add(time.Duration(input.CoveragePeriod) * time.Second)
	policy.Status = api.PolicyStatusActive
	policy.AssetAddress = input.AssetAddress

	if found {
		err = update(tx, &policy)
	} else {
		err = create(tx, &policy)
	}
	if err != nil {
		return Policy{}, err
	}

	pool, err := GetPremiumPool(tx)
	if err != nil {
		return Policy{}, err
	}
	if err := pool.credit(tx, premium, EntryTypePremium, &policy, nil,
		fmt.Sprintf("premium on policy purchase by %s", actor.Name())); err != nil {
		return Policy{}, err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiPolicyPurchased,
		Message: "policy purchased",
		Payload: events.Payload{
			domain.EventPayloadID:     policy.ID,
			domain.EventPayloadUserID: actor.ID,
		},
	})

	return policy, nil
}

// validateCoverage checks a requested coverage against the configured limits
func (ic *InsuranceConfig) validateCoverage(coverageType api.CoverageType, amount, period int64) error {
	if _, ok := ValidCoverageTypes[coverageType]; !ok {
		err := fmt.Errorf("invalid coverage type %q", coverageType)
		return api.NewAppError(err, api.ErrorValidation, api.CategoryUser)
	}
	if amount < 1 || amount > ic.MaxCoverageAmount {
		err := fmt.Errorf("coverage amount %d is outside the allowed range", amount)
		return api.NewAppError(err, api.ErrorPolicyCoverageAmount, api.CategoryUser)
	}
	if period < ic.MinCoveragePeriod || period > ic.MaxCoveragePeriod {
		err := fmt.Errorf("coverage period %d is outside the allowed range", period)
		return api.NewAppError(err, api.ErrorPolicyCoveragePeriod, api.CategoryUser)
	}
	return nil
}

// Renew extends the policy and reactivates it if it had lapsed. The extension
// starts from the current end time or from now, whichever is later, and the
// resulting total span from the original start time must stay within the
// configured maximum period. Only the added period is charged.
func (p *Policy) Renew(tx *pop.Connection, actor User, input api.PolicyRenewInput) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireNotPaused(); err != nil {
		return err
	}

	if p.Status == api.PolicyStatusCancelled {
		err := errors.New("a cancelled policy cannot be renewed")
		return api.NewAppError(err, api.ErrorPolicyNotRenewable, api.CategoryUser)
	}

	if input.AdditionalPeriod < 1 {
		err := fmt.Errorf("additional period %d must be positive", input.AdditionalPeriod)
		return api.NewAppError(err, api.ErrorPolicyCoveragePeriod, api.CategoryUser)
	}

	now := domain.Clock.Now().UTC()
	from := p.EndTime
	if from.Before(now) {
		from = now
	}
	newEnd := from.Add(time.Duration(input.AdditionalPeriod) * time.Second)

	if int64(newEnd.Sub(p.StartTime)/time.Second) > config.MaxCoveragePeriod {
		err := errors.New("renewal would exceed the maximum coverage period")
		return api.NewAppError(err, api.ErrorPolicyPeriodExceedsLimit, api.CategoryUser)
	}

	premium := config.CalculatePremium(p.CoverageType, p.CoverageAmount, input.AdditionalPeriod)

	p.EndTime = newEnd
	p.PremiumPaid += premium
	p.Status = api.PolicyStatusActive

	if err := update(tx, p); err != nil {
		return err
	}

	pool, err := GetPremiumPool(tx)
	if err != nil {
		return err
	}
	if err := pool.credit(tx, premium, EntryTypeRenewal, p, nil,
		fmt.Sprintf("premium on policy renewal by %s", actor.Name())); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiPolicyRenewed,
		Message: "policy renewed",
		Payload: events.Payload{
			domain.EventPayloadID:     p.ID,
			domain.EventPayloadUserID: actor.ID,
		},
	})

	return nil
}

// Cancel terminates the policy and refunds the unused share of the premium,
// prorated over the full span of the policy. Cancellation is permanent and
// stays available while the contract is paused.
func (p *Policy) Cancel(tx *pop.Connection, actor User) (int64, error) {
	if p.Status != api.PolicyStatusActive {
		err := fmt.Errorf("policy in status %s cannot be cancelled", p.Status)
		return 0, api.NewAppError(err, api.ErrorPolicyNotActive, api.CategoryUser)
	}

	now := domain.Clock.Now().UTC()
	refund := p.refundAmount(now)

	p.Status = api.PolicyStatusCancelled
	if err := update(tx, p); err != nil {
		return 0, err
	}

	if refund > 0 {
		pool, err := GetPremiumPool(tx)
		if err != nil {
			return 0, err
		}
		if err := pool.debit(tx, refund, EntryTypeRefund, p, nil,
			fmt.Sprintf("refund on policy cancellation by %s", actor.Name())); err != nil {
			return 0, err
		}
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiPolicyCancelled,
		Message: "policy cancelled",
		Payload: events.Payload{
			domain.EventPayloadID:     p.ID,
			domain.EventPayloadUserID: actor.ID,
		},
	})

	return refund, nil
}

// refundAmount prorates the paid premium over the remaining coverage time.
// The ratio uses whole seconds, rounding the refund down.
func (p *Policy) refundAmount(now time.Time) int64 {
	if !now.Before(p.EndTime) {
		return 0
	}

	totalSpan := int64(p.EndTime.Sub(p.StartTime) / time.Second)
	if totalSpan < 1 {
		return 0
	}

	remaining := int64(p.EndTime.Sub(now) / time.Second)
	if remaining > totalSpan {
		remaining = totalSpan
	}

	refund := new(big.Int).SetInt64(p.PremiumPaid)
	refund.Mul(refund, big.NewInt(remaining))
	refund.Div(refund, big.NewInt(totalSpan))
	return refund.Int64()
}

// LoadUser hydrates the User relation if it isn't already
func (p *Policy) LoadUser(tx *pop.Connection) error {
	if p.User.ID == uuid.Nil {
		if err := tx.Load(p, "User"); err != nil {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
	}
	return nil
}

// ConvertToAPI converts the policy to its API type
func (p *Policy) ConvertToAPI() api.Policy {
	return api.Policy{
		ID:             p.ID,
		UserID:         p.UserID,
		CoverageType:   p.CoverageType,
		CoverageAmount: p.CoverageAmount,
		PremiumPaid:    p.PremiumPaid,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		Status:         p.Status,
		AssetAddress:   p.AssetAddress,
		InForce:        p.IsInForce(domain.Clock.Now().UTC()),
	}
}

func (ps *Policies) All(tx *pop.Connection) error {
	err := tx.Order("created_at asc").All(ps)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// ConvertToAPI converts the policies to their API type
func (ps *Policies) ConvertToAPI() api.Policies {
	out := make(api.Policies, len(*ps))
	for i := range *ps {
		out[i] = (*ps)[i].ConvertToAPI()
	}
	return out
}

// CountPolicies reports the lifetime number of policies issued. Repurchase
// reuses a user's policy row, so the count comes from the premium ledger
// entries, which get one row per purchase.
func CountPolicies(tx *pop.Connection) (int64, error) {
	count, err := tx.Where("entry_type = ?", EntryTypePremium).Count(LedgerEntry{})
	if err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return int64(count), nil
}
