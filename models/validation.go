package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/validate/v3"

	"github.com/silinternational/assetcover-api/api"
)

var mValidate *validator.Validate

var fieldValidators = map[string]func(validator.FieldLevel) bool{
	"coverageType": validateCoverageType,
	"policyStatus": validatePolicyStatus,
	"claimStatus":  validateClaimStatus,
	"assetType":    validateAssetType,
	"appRole":      validateAppRole,
}

func validateModel(m any) *validate.Errors {
	vErrs := validate.NewErrors()

	if err := mValidate.Struct(m); err != nil {
		for _, e := range err.(validator.ValidationErrors) {
			vErrs.Add(strings.ToLower(e.StructField()), fmt.Sprintf("%v", e))
		}
	}

	return vErrs
}

func flattenPopErrors(popErrs *validate.Errors) string {
	var msgs []string
	for key, errs := range popErrs.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, strings.Join(errs, ", ")))
	}

	return strings.Join(msgs, " |")
}

func validateCoverageType(field validator.FieldLevel) bool {
	if ct, ok := field.Field().Interface().(api.CoverageType); ok {
		_, valid := ValidCoverageTypes[ct]
		return valid
	}
	return false
}

func validatePolicyStatus(field validator.FieldLevel) bool {
	if s, ok := field.Field().Interface().(api.PolicyStatus); ok {
		_, valid := ValidPolicyStatus[s]
		return valid
	}
	return false
}

func validateClaimStatus(field validator.FieldLevel) bool {
	if s, ok := field.Field().Interface().(api.ClaimStatus); ok {
		_, valid := ValidClaimStatus[s]
		return valid
	}
	return false
}

func validateAssetType(field validator.FieldLevel) bool {
	if at, ok := field.Field().Interface().(api.AssetType); ok {
		_, valid := ValidAssetTypes[at]
		return valid
	}
	return false
}

func validateAppRole(field validator.FieldLevel) bool {
	if r, ok := field.Field().Interface().(UserAppRole); ok {
		_, valid := validUserAppRoles[r]
		return valid
	}
	return false
}

func claimStructLevelValidation(sl validator.StructLevel) {
	claim, ok := sl.Current().Interface().(Claim)
	if !ok {
		panic("claimStructLevelValidation registered to the wrong struct type")
	}

	if claim.Status == api.ClaimStatusPaid && !claim.PayoutAt.Valid {
		sl.ReportError(claim.PayoutAt, "payout_at", "PayoutAt", "paidClaimNeedsPayoutTime", "")
	}

	if claim.PayoutAmount > claim.ClaimAmount {
		sl.ReportError(claim.PayoutAmount, "payout_amount", "PayoutAmount", "payoutExceedsClaimAmount", "")
	}
}

func policyStructLevelValidation(sl validator.StructLevel) {
	policy, ok := sl.Current().Interface().(Policy)
	if !ok {
		panic("policyStructLevelValidation registered to the wrong struct type")
	}

	if !policy.EndTime.After(policy.StartTime) {
		sl.ReportError(policy.EndTime, "end_time", "EndTime", "policyEndsBeforeItStarts", "")
	}
}
