package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

// swagger:operation GET /claims Claims ClaimsList
//
// ClaimsList
//
// list claims. An admin sees all claims, optionally filtered by status, and
// a customer sees their own.
//
// ---
//
//	parameters:
//	  - name: status
//	    in: query
//	    required: false
//	    description: limit the list to one claim status (admin only)
//	responses:
//	  '200':
//	    description: all claims visible to the caller
//	    schema:
//	      "$ref": "#/definitions/Claims"
func claimsList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var claims models.Claims
	if actor.IsAdmin() {
		var err error
		if status := c.Param("status"); status != "" {
			err = claims.AllByStatus(tx, api.ClaimStatus(status))
		} else {
			err = claims.All(tx)
		}
		if err != nil {
			return reportError(c, err)
		}
	} else {
		claims = actor.MyClaims(tx)
	}

	return renderOk(c, claims.ConvertToAPI())
}

// swagger:operation POST /claims Claims ClaimsSubmit
//
// ClaimsSubmit
//
// submit a claim against the caller's in-force policy
//
// ---
//
//	parameters:
//	  - name: claim create input
//	    in: body
//	    description: the loss being claimed
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/ClaimCreateInput"
//	responses:
//	  '200':
//	    description: the new claim
//	    schema:
//	      "$ref": "#/definitions/Claim"
func claimsSubmit(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.ClaimCreateInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	claim, err := models.SubmitClaim(tx, actor, input)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, claim.ConvertToAPI())
}

// swagger:operation GET /claims/{id} Claims ClaimsView
//
// ClaimsView
//
// get one claim with its evidence files
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: claim ID
//	responses:
//	  '200':
//	    description: the requested claim
//	    schema:
//	      "$ref": "#/definitions/Claim"
func claimsView(c buffalo.Context) error {
	tx := models.Tx(c)
	claim := getReferencedClaimFromCtx(c)

	if err := claim.LoadClaimFiles(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, claim.ConvertToAPI())
}

// swagger:operation POST /claims/{id}/review Claims ClaimsReview
//
// ClaimsReview
//
// decide a claim, approving a payout amount or rejecting it. Admin only.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: claim ID
//	  - name: claim review input
//	    in: body
//	    description: the review decision
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/ClaimReviewInput"
//	responses:
//	  '200':
//	    description: the reviewed claim
//	    schema:
//	      "$ref": "#/definitions/Claim"
func claimsReview(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	claim := getReferencedClaimFromCtx(c)

	var input api.ClaimReviewInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := claim.Review(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, claim.ConvertToAPI())
}

// swagger:operation POST /claims/{id}/payout Claims ClaimsPayout
//
// ClaimsPayout
//
// pay an approved claim from the pool. Admin only.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: claim ID
//	responses:
//	  '200':
//	    description: the paid claim
//	    schema:
//	      "$ref": "#/definitions/Claim"
func claimsPayout(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	claim := getReferencedClaimFromCtx(c)

	if err := claim.ProcessPayout(tx, actor); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, claim.ConvertToAPI())
}

// getReferencedClaimFromCtx pulls the claim resource placed in the context
// by the AuthZ middleware
func getReferencedClaimFromCtx(c buffalo.Context) *models.Claim {
	claim, ok := c.Value(domain.TypeClaim).(models.Claim)
	if !ok {
		panic("claim not found in context")
	}
	return &claim
}
