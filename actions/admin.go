package actions

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

// swagger:operation PUT /admin/rates Admin AdminUpdateRates
//
// AdminUpdateRates
//
// update the base premium rate and coverage type multipliers
//
// ---
//
//	parameters:
//	  - name: premium rates input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PremiumRatesInput"
//	responses:
//	  '200':
//	    description: the updated configuration
//	    schema:
//	      "$ref": "#/definitions/InsuranceConfig"
func adminUpdateRates(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.PremiumRatesInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	config, err := models.GetConfig(tx)
	if err != nil {
		return reportError(c, err)
	}

	if err := config.UpdatePremiumRates(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, config.ConvertToAPI())
}

// swagger:operation PUT /admin/limits Admin AdminUpdateLimits
//
// AdminUpdateLimits
//
// update the coverage amount and period limits
//
// ---
//
//	parameters:
//	  - name: coverage limits input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/CoverageLimitsInput"
//	responses:
//	  '200':
//	    description: the updated configuration
//	    schema:
//	      "$ref": "#/definitions/InsuranceConfig"
func adminUpdateLimits(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.CoverageLimitsInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	config, err := models.GetConfig(tx)
	if err != nil {
		return reportError(c, err)
	}

	if err := config.UpdateCoverageLimits(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, config.ConvertToAPI())
}

// swagger:operation PUT /admin/fraud-params Admin AdminUpdateFraudParams
//
// AdminUpdateFraudParams
//
// update the claim cooldown and trailing-window limit
//
// ---
//
//	parameters:
//	  - name: fraud params input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/FraudParamsInput"
//	responses:
//	  '200':
//	    description: the updated configuration
//	    schema:
//	      "$ref": "#/definitions/InsuranceConfig"
func adminUpdateFraudParams(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.FraudParamsInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	config, err := models.GetConfig(tx)
	if err != nil {
		return reportError(c, err)
	}

	if err := config.UpdateFraudParams(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, config.ConvertToAPI())
}

// swagger:operation PUT /admin/paused Admin AdminSetPaused
//
// AdminSetPaused
//
// pause or unpause the contract. A paused contract refuses purchases,
// renewals, and claim submissions, but cancellation, claim review, and
// payout still work.
//
// ---
//
//	parameters:
//	  - name: paused input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PausedInput"
//	responses:
//	  '200':
//	    description: the updated configuration
//	    schema:
//	      "$ref": "#/definitions/InsuranceConfig"
func adminSetPaused(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.PausedInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	config, err := models.GetConfig(tx)
	if err != nil {
		return reportError(c, err)
	}

	if err := config.SetPaused(tx, actor, input.Paused); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, config.ConvertToAPI())
}

// swagger:operation GET /admin/pool Admin AdminPoolView
//
// AdminPoolView
//
// get the premium pool balance
//
// ---
//
//	responses:
//	  '200':
//	    description: the premium pool
//	    schema:
//	      "$ref": "#/definitions/PremiumPool"
func adminPoolView(c buffalo.Context) error {
	tx := models.Tx(c)

	pool, err := models.GetPremiumPool(tx)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, pool.ConvertToAPI())
}

func adminPoolOp(c buffalo.Context, op func(*models.PremiumPool, models.User, int64) error) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.PoolAmountInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	pool, err := models.GetPremiumPool(tx)
	if err != nil {
		return reportError(c, err)
	}

	if err := op(&pool, actor, input.Amount); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, pool.ConvertToAPI())
}

// swagger:operation POST /admin/pool/deposit Admin AdminPoolDeposit
//
// AdminPoolDeposit
//
// deposit reserve funds into the pool
//
// ---
//
//	parameters:
//	  - name: pool amount input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PoolAmountInput"
//	responses:
//	  '200':
//	    description: the updated pool
//	    schema:
//	      "$ref": "#/definitions/PremiumPool"
func adminPoolDeposit(c buffalo.Context) error {
	tx := models.Tx(c)
	return adminPoolOp(c, func(pool *models.PremiumPool, actor models.User, amount int64) error {
		return pool.AddToPool(tx, actor, amount)
	})
}

// swagger:operation POST /admin/pool/withdraw Admin AdminPoolWithdraw
//
// AdminPoolWithdraw
//
// withdraw reserve funds from the pool
//
// ---
//
//	parameters:
//	  - name: pool amount input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PoolAmountInput"
//	responses:
//	  '200':
//	    description: the updated pool
//	    schema:
//	      "$ref": "#/definitions/PremiumPool"
func adminPoolWithdraw(c buffalo.Context) error {
	tx := models.Tx(c)
	return adminPoolOp(c, func(pool *models.PremiumPool, actor models.User, amount int64) error {
		return pool.WithdrawFromPool(tx, actor, amount)
	})
}

// swagger:operation POST /admin/pool/emergency-withdraw Admin AdminPoolEmergencyWithdraw
//
// AdminPoolEmergencyWithdraw
//
// drain the entire pool balance
//
// ---
//
//	responses:
//	  '200':
//	    description: the drained pool
//	    schema:
//	      "$ref": "#/definitions/PremiumPool"
func adminPoolEmergencyWithdraw(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	pool, err := models.GetPremiumPool(tx)
	if err != nil {
		return reportError(c, err)
	}

	if _, err := pool.EmergencyWithdraw(tx, actor); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, pool.ConvertToAPI())
}

// swagger:operation POST /admin/users/{id}/flag Admin AdminFlagUser
//
// AdminFlagUser
//
// flag a user, blocking them from submitting claims
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: user ID
//	  - name: flag user input
//	    in: body
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/FlagUserInput"
//	responses:
//	  '200':
//	    description: the user's updated fraud metrics
//	    schema:
//	      "$ref": "#/definitions/FraudMetrics"
func adminFlagUser(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	user, err := adminFindUser(c)
	if err != nil {
		return reportError(c, err)
	}

	var input api.FlagUserInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := models.FlagUser(tx, actor, user, input.Reason); err != nil {
		return reportError(c, err)
	}

	metrics, err := models.GetFraudMetrics(tx, user.ID)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, metrics)
}

// swagger:operation POST /admin/users/{id}/unflag Admin AdminUnflagUser
//
// AdminUnflagUser
//
// clear a user's fraud flag
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: user ID
//	responses:
//	  '200':
//	    description: the user's updated fraud metrics
//	    schema:
//	      "$ref": "#/definitions/FraudMetrics"
func adminUnflagUser(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	user, err := adminFindUser(c)
	if err != nil {
		return reportError(c, err)
	}

	if err := models.UnflagUser(tx, actor, user); err != nil {
		return reportError(c, err)
	}

	metrics, err := models.GetFraudMetrics(tx, user.ID)
	if err != nil {
		return reportError(c, err)
	}
	return renderOk(c, metrics)
}

func adminFindUser(c buffalo.Context) (models.User, error) {
	id := uuid.FromStringOrNil(c.Param("id"))
	if id == uuid.Nil {
		err := fmt.Errorf("invalid user ID %q", c.Param("id"))
		return models.User{}, api.NewAppError(err, api.ErrorMustBeAValidUUID, api.CategoryUser)
	}

	var user models.User
	if err := user.FindByID(models.Tx(c), id); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// swagger:operation GET /admin/ledger Admin AdminLedgerExport
//
// AdminLedgerExport
//
// export the pool's journal entries for a month as an accounting batch CSV
//
// ---
//
//	parameters:
//	  - name: month
//	    in: query
//	    required: false
//	    description: month to export in YYYY-MM form, defaulting to the current month
//	responses:
//	  '200':
//	    description: the accounting batch CSV
func adminLedgerExport(c buffalo.Context) error {
	tx := models.Tx(c)

	month, err := ledgerMonthParam(c)
	if err != nil {
		return reportError(c, err)
	}

	var entries models.LedgerEntries
	if err := entries.AllForMonth(tx, month); err != nil {
		return reportError(c, err)
	}

	csv, err := entries.ToCsv(month)
	if err != nil {
		return reportError(c, err)
	}

	fileName := fmt.Sprintf("ledger_%s.csv", month.Format("2006-01"))
	return c.Render(http.StatusOK, r.Download(c, fileName, bytes.NewReader(csv)))
}

// swagger:operation POST /admin/ledger/reconcile Admin AdminLedgerReconcile
//
// AdminLedgerReconcile
//
// mark a month's journal entries as entered into the accounting system
//
// ---
//
//	parameters:
//	  - name: month
//	    in: query
//	    required: false
//	    description: month to reconcile in YYYY-MM form, defaulting to the current month
//	responses:
//	  '200':
//	    description: the number of entries reconciled
func adminLedgerReconcile(c buffalo.Context) error {
	tx := models.Tx(c)

	month, err := ledgerMonthParam(c)
	if err != nil {
		return reportError(c, err)
	}

	var entries models.LedgerEntries
	if err := entries.AllForMonth(tx, month); err != nil {
		return reportError(c, err)
	}

	if err := entries.MarkEntered(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, map[string]int{"reconciled": len(entries)})
}

func ledgerMonthParam(c buffalo.Context) (time.Time, error) {
	param := c.Param("month")
	if param == "" {
		now := domain.Clock.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	month, err := time.Parse("2006-01", param)
	if err != nil {
		err = fmt.Errorf("invalid month %q, expected YYYY-MM", param)
		return time.Time{}, api.NewAppError(err, api.ErrorValidation, api.CategoryUser)
	}
	return month, nil
}
