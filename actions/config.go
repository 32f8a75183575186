package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/models"
)

// swagger:operation GET /config Config ConfigView
//
// ConfigView
//
// get the contract configuration
//
// ---
//
//	responses:
//	  '200':
//	    description: the contract configuration
//	    schema:
//	      "$ref": "#/definitions/InsuranceConfig"
func configView(c buffalo.Context) error {
	tx := models.Tx(c)

	config, err := models.GetConfig(tx)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, config.ConvertToAPI())
}

// swagger:operation POST /config Config ConfigInitialize
//
// ConfigInitialize
//
// one-time contract initialization, making the caller the contract admin
//
// ---
//
//	parameters:
//	  - name: config initialize input
//	    in: body
//	    description: initialization parameters
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/ConfigInitializeInput"
//	responses:
//	  '200':
//	    description: the new contract configuration
//	    schema:
//	      "$ref": "#/definitions/InsuranceConfig"
func configInitialize(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	if !actor.IsAdmin() {
		err := errors.New("only a steward may initialize the contract")
		return reportError(c, api.NewAppError(err, api.ErrorAdminOnly, api.CategoryForbidden))
	}

	var input api.ConfigInitializeInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	config, err := models.InitializeConfig(tx, actor, input)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, config.ConvertToAPI())
}

// swagger:operation POST /quote Config PremiumQuote
//
// PremiumQuote
//
// price a coverage request without purchasing
//
// ---
//
//	parameters:
//	  - name: premium quote input
//	    in: body
//	    description: coverage parameters to price
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PremiumQuoteInput"
//	responses:
//	  '200':
//	    description: the calculated premium
//	    schema:
//	      "$ref": "#/definitions/PremiumQuote"
func premiumQuote(c buffalo.Context) error {
	tx := models.Tx(c)

	var input api.PremiumQuoteInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	config, err := models.GetConfig(tx)
	if err != nil {
		return reportError(c, err)
	}

	if _, ok := models.ValidCoverageTypes[input.CoverageType]; !ok {
		err := errors.New("invalid coverage type")
		return reportError(c, api.NewAppError(err, api.ErrorValidation, api.CategoryUser))
	}
	if input.CoverageAmount < 1 || input.CoveragePeriod < 1 {
		err := errors.New("coverage amount and period must be positive")
		return reportError(c, api.NewAppError(err, api.ErrorValidation, api.CategoryUser))
	}

	premium := config.CalculatePremium(input.CoverageType, input.CoverageAmount, input.CoveragePeriod)

	return renderOk(c, api.PremiumQuote{Premium: premium})
}

// swagger:operation GET /totals Config ContractTotals
//
// ContractTotals
//
// report the lifetime policy and claim counters and the pool balance
//
// ---
//
//	responses:
//	  '200':
//	    description: the contract totals
//	    schema:
//	      "$ref": "#/definitions/ContractTotals"
func contractTotals(c buffalo.Context) error {
	tx := models.Tx(c)

	if _, err := models.GetConfig(tx); err != nil {
		return reportError(c, err)
	}

	totalPolicies, err := models.CountPolicies(tx)
	if err != nil {
		return reportError(c, err)
	}

	totalClaims, err := models.CountClaims(tx)
	if err != nil {
		return reportError(c, err)
	}

	pool, err := models.GetPremiumPool(tx)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.ContractTotals{
		TotalPolicies: totalPolicies,
		TotalClaims:   totalClaims,
		PoolBalance:   pool.Balance,
	})
}
