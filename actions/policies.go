package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

// swagger:operation GET /policies Policies PoliciesList
//
// PoliciesList
//
// list policies. An admin sees all policies, a customer sees their own.
//
// ---
//
//	responses:
//	  '200':
//	    description: all policies visible to the caller
//	    schema:
//	      "$ref": "#/definitions/Policies"
func policiesList(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	if actor.IsAdmin() {
		var policies models.Policies
		if err := policies.All(tx); err != nil {
			return reportError(c, err)
		}
		return renderOk(c, policies.ConvertToAPI())
	}

	var policy models.Policy
	found, err := policy.FindByUserID(tx, actor.ID)
	if err != nil {
		return reportError(c, err)
	}
	if !found {
		return renderOk(c, api.Policies{})
	}
	return renderOk(c, api.Policies{policy.ConvertToAPI()})
}

// swagger:operation POST /policies Policies PoliciesPurchase
//
// PoliciesPurchase
//
// purchase coverage, paying the premium into the pool
//
// ---
//
//	parameters:
//	  - name: policy purchase input
//	    in: body
//	    description: coverage parameters
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PolicyPurchaseInput"
//	responses:
//	  '200':
//	    description: the new policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func policiesPurchase(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	var input api.PolicyPurchaseInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	policy, err := models.PurchasePolicy(tx, actor, input)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, policy.ConvertToAPI())
}

// swagger:operation GET /policies/{id} Policies PoliciesView
//
// PoliciesView
//
// get one policy
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: policy ID
//	responses:
//	  '200':
//	    description: the requested policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func policiesView(c buffalo.Context) error {
	policy := getReferencedPolicyFromCtx(c)
	return renderOk(c, policy.ConvertToAPI())
}

// swagger:operation POST /policies/{id}/renew Policies PoliciesRenew
//
// PoliciesRenew
//
// extend a policy, paying the premium for the added period only
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: policy ID
//	  - name: policy renew input
//	    in: body
//	    description: the additional coverage period
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PolicyRenewInput"
//	responses:
//	  '200':
//	    description: the renewed policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func policiesRenew(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	policy := getReferencedPolicyFromCtx(c)

	var input api.PolicyRenewInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	if err := policy.Renew(tx, actor, input); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, policy.ConvertToAPI())
}

// swagger:operation POST /policies/{id}/cancel Policies PoliciesCancel
//
// PoliciesCancel
//
// cancel a policy, refunding the prorated unused premium. Permanent.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: policy ID
//	responses:
//	  '200':
//	    description: the cancelled policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func policiesCancel(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)
	policy := getReferencedPolicyFromCtx(c)

	refund, err := policy.Cancel(tx, actor)
	if err != nil {
		return reportError(c, err)
	}
	newExtra(c, "refund", refund)

	return renderOk(c, policy.ConvertToAPI())
}

// getReferencedPolicyFromCtx pulls the policy resource placed in the context
// by the AuthZ middleware
func getReferencedPolicyFromCtx(c buffalo.Context) *models.Policy {
	policy, ok := c.Value(domain.TypePolicy).(*models.Policy)
	if !ok {
		panic("policy not found in context")
	}
	return policy
}
