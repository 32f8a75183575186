package models

import (
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

// FraudMetric tracks one user's abuse-prevention state. The row is created
// lazily on first claim or first flag, so most users never get one. Recent
// claim activity is not denormalized here; it is counted from the claims
// table, which is equivalent because rejected submissions roll back.
type FraudMetric struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id" validate:"required"`
	TotalClaims int        `db:"total_claims" validate:"min=0"`
	LastClaimAt nulls.Time `db:"last_claim_at"`
	Flagged     bool       `db:"flagged"`
	FlagReason  string     `db:"flag_reason"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (fm *FraudMetric) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(fm), nil
}

// findByUserID loads the user's metric row. The bool reports whether one
// exists, since an absent row is the normal state for a new user.
func (fm *FraudMetric) findByUserID(tx *pop.Connection, userID uuid.UUID) (bool, error) {
	if err := tx.Where("user_id = ?", userID).First(fm); err != nil {
		if domain.IsOtherThanNoRows(err) {
			return false, appErrorFromDB(err, api.ErrorQueryFailure)
		}
		return false, nil
	}
	return true, nil
}

// fraudCheck gates claim submission. The checks run in order of severity:
// a flagged user is refused outright, then the per-claim cooldown, then the
// trailing-window claim count.
func fraudCheck(tx *pop.Connection, config InsuranceConfig, user User, now time.Time) error {
	var metric FraudMetric
	found, err := metric.findByUserID(tx, user.ID)
	if err != nil {
		return err
	}

	if found && metric.Flagged {
		err := fmt.Errorf("user %s is flagged: %s", user.ID, metric.FlagReason)
		return api.NewAppError(err, api.ErrorFraudUserFlagged, api.CategoryForbidden)
	}

	if found && metric.LastClaimAt.Valid {
		cooldownEnds := metric.LastClaimAt.Time.Add(time.Duration(config.ClaimCooldown) * time.Second)
		if now.Before(cooldownEnds) {
			err := fmt.Errorf("claim cooldown in effect until %s", cooldownEnds.Format(time.RFC3339))
			return api.NewAppError(err, api.ErrorFraudClaimCooldown, api.CategoryUser)
		}
	}

	recent, err := recentClaimCount(tx, user.ID, now)
	if err != nil {
		return err
	}
	if recent >= config.MaxClaimsPerPeriod {
		err := fmt.Errorf("user %s has %d claims in the trailing window", user.ID, recent)
		return api.NewAppError(err, api.ErrorFraudTooManyClaims, api.CategoryUser)
	}

	return nil
}

func recentClaimCount(tx *pop.Connection, userID uuid.UUID, now time.Time) (int, error) {
	cutoff := now.Add(-domain.FraudLookback)
	count, err := tx.Where("user_id = ? AND submitted_at >= ?", userID, cutoff).Count(Claim{})
	if err != nil {
		return 0, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	return count, nil
}

// recordClaim bumps the user's metrics after a successful submission
func recordClaim(tx *pop.Connection, user User, now time.Time) error {
	var metric FraudMetric
	found, err := metric.findByUserID(tx, user.ID)
	if err != nil {
		return err
	}

	metric.UserID = user.ID
	metric.TotalClaims++
	metric.LastClaimAt = nulls.NewTime(now)

	if found {
		return update(tx, &metric)
	}
	return create(tx, &metric)
}

// FlagUser blocks a user from submitting claims. Admin only. The metric row
// is created if the user has never claimed.
func FlagUser(tx *pop.Connection, actor, user User, reason string) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	var metric FraudMetric
	found, err := metric.findByUserID(tx, user.ID)
	if err != nil {
		return err
	}

	metric.UserID = user.ID
	metric.Flagged = true
	metric.FlagReason = reason

	if found {
		err = update(tx, &metric)
	} else {
		err = create(tx, &metric)
	}
	if err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiUserFlagged,
		Message: "user flagged",
		Payload: events.Payload{domain.EventPayloadUserID: user.ID},
	})

	return nil
}

// UnflagUser restores a flagged user's ability to submit claims. Admin only.
func UnflagUser(tx *pop.Connection, actor, user User) error {
	config, err := GetConfig(tx)
	if err != nil {
		return err
	}
	if err := config.requireAdmin(actor); err != nil {
		return err
	}

	var metric FraudMetric
	found, err := metric.findByUserID(tx, user.ID)
	if err != nil {
		return err
	}
	if !found {
		err := fmt.Errorf("user %s has no fraud metrics", user.ID)
		return api.NewAppError(err, api.ErrorFraudMetricsMissing, api.CategoryNotFound)
	}

	metric.Flagged = false
	metric.FlagReason = ""

	if err := update(tx, &metric); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiUserUnflagged,
		Message: "user unflagged",
		Payload: events.Payload{domain.EventPayloadUserID: user.ID},
	})

	return nil
}

// GetFraudMetrics reports a user's metrics, with the recent claim IDs pulled
// from the claims table. A user with no metric row reports zero values.
func GetFraudMetrics(tx *pop.Connection, userID uuid.UUID) (api.FraudMetrics, error) {
	out := api.FraudMetrics{UserID: userID, RecentClaims: []int64{}}

	var metric FraudMetric
	found, err := metric.findByUserID(tx, userID)
	if err != nil {
		return out, err
	}
	if found {
		out.TotalClaims = metric.TotalClaims
		out.Flagged = metric.Flagged
		out.FlagReason = metric.FlagReason
		if metric.LastClaimAt.Valid {
			t := metric.LastClaimAt.Time
			out.LastClaimAt = &t
		}
	}

	now := domain.Clock.Now().UTC()
	cutoff := now.Add(-domain.FraudLookback)

	var recent Claims
	err = tx.Where("user_id = ? AND submitted_at >= ?", userID, cutoff).Order("id asc").All(&recent)
	if err != nil {
		return out, appErrorFromDB(err, api.ErrorQueryFailure)
	}
	for _, c := range recent {
		out.RecentClaims = append(out.RecentClaims, c.ID)
	}

	return out, nil
}
