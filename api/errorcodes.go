package api

const (
	CategoryDatabase     = ErrorCategory("Database")
	CategoryUser         = ErrorCategory("User") // used for errors related to user input, validation, etc.
	CategoryForbidden    = ErrorCategory("Forbidden")
	CategoryUnauthorized = ErrorCategory("Unauthorized")
	CategoryNotFound     = ErrorCategory("NotFound")
	CategoryInternal     = ErrorCategory("Internal") // used for internal server errors, not related to bad user input
)

const (
	// General

	ErrorCreateFailure         = ErrorKey("ErrorCreateFailure")
	ErrorDestroyFailure        = ErrorKey("ErrorDestroyFailure")
	ErrorGenericInternalServer = ErrorKey("ErrorGenericInternalServer")
	ErrorForeignKeyViolation   = ErrorKey("ErrorForeignKeyViolation")
	ErrorInvalidRequestBody    = ErrorKey("ErrorInvalidRequestBody")
	ErrorMustBeAValidUUID      = ErrorKey("ErrorMustBeAValidUUID")
	ErrorNoRows                = ErrorKey("ErrorNoRows")
	ErrorNotAuthorized         = ErrorKey("ErrorNotAuthorized")
	ErrorQueryFailure          = ErrorKey("ErrorQueryFailure")
	ErrorRouteNotFound         = ErrorKey("ErrorRouteNotFound")
	ErrorSaveFailure           = ErrorKey("ErrorSaveFailure")
	ErrorTransactionNotFound   = ErrorKey("ErrorTransactionNotFound")
	ErrorUniqueKeyViolation    = ErrorKey("ErrorUniqueKeyViolation")
	ErrorUnknown               = ErrorKey("ErrorUnknown")
	ErrorUpdateFailure         = ErrorKey("ErrorUpdateFailure")
	ErrorValidation            = ErrorKey("ErrorValidation")

	// Authorization
	ErrorInvalidResourceID = ErrorKey("ErrorInvalidResourceID")
	ErrorResourceNotFound  = ErrorKey("ErrorResourceNotFound")
	ErrorAdminOnly         = ErrorKey("ErrorAdminOnly")

	// Initialization
	ErrorAlreadyInitialized = ErrorKey("ErrorAlreadyInitialized")
	ErrorNotInitialized     = ErrorKey("ErrorNotInitialized")

	// Operational
	ErrorContractPaused = ErrorKey("ErrorContractPaused")

	// Policy
	ErrorPolicyFromContext        = ErrorKey("ErrorPolicyFromContext")
	ErrorPolicyNotFound           = ErrorKey("ErrorPolicyNotFound")
	ErrorPolicyAlreadyActive      = ErrorKey("ErrorPolicyAlreadyActive")
	ErrorPolicyNotActive          = ErrorKey("ErrorPolicyNotActive")
	ErrorPolicyNotRenewable       = ErrorKey("ErrorPolicyNotRenewable")
	ErrorPolicyCoverageAmount     = ErrorKey("ErrorPolicyCoverageAmount")
	ErrorPolicyCoveragePeriod     = ErrorKey("ErrorPolicyCoveragePeriod")
	ErrorPolicyPeriodExceedsLimit = ErrorKey("ErrorPolicyPeriodExceedsLimit")

	// Claim
	ErrorClaimFromContext        = ErrorKey("ErrorClaimFromContext")
	ErrorClaimNotFound           = ErrorKey("ErrorClaimNotFound")
	ErrorClaimStatus             = ErrorKey("ErrorClaimStatus")
	ErrorClaimAmount             = ErrorKey("ErrorClaimAmount")
	ErrorClaimOutsideCoverage    = ErrorKey("ErrorClaimOutsideCoverage")
	ErrorClaimAssetNotCovered    = ErrorKey("ErrorClaimAssetNotCovered")
	ErrorClaimInvalidPayout      = ErrorKey("ErrorClaimInvalidPayout")
	ErrorClaimFileAttachDisabled = ErrorKey("ErrorClaimFileAttachDisabled")

	// Premium pool
	ErrorPoolInsufficient = ErrorKey("ErrorPoolInsufficient")
	ErrorPoolAmount       = ErrorKey("ErrorPoolAmount")

	// Fraud
	ErrorFraudUserFlagged    = ErrorKey("ErrorFraudUserFlagged")
	ErrorFraudClaimCooldown  = ErrorKey("ErrorFraudClaimCooldown")
	ErrorFraudTooManyClaims  = ErrorKey("ErrorFraudTooManyClaims")
	ErrorFraudMetricsMissing = ErrorKey("ErrorFraudMetricsMissing")

	// File
	ErrorFileAlreadyLinked       = ErrorKey("ErrorFileAlreadyLinked")
	ErrorReceivingFile           = ErrorKey("ErrorReceivingFile")
	ErrorStoreFileBadContentType = ErrorKey("ErrorStoreFileBadContentType")
	ErrorStoreFileTooLarge       = ErrorKey("ErrorStoreFileTooLarge")
	ErrorUnableToReadFile        = ErrorKey("ErrorUnableToReadFile")
	ErrorUnableToStoreFile       = ErrorKey("ErrorUnableToStoreFile")

	// Ledger
	ErrorLedgerNoEntries = ErrorKey("ErrorLedgerNoEntries")
)
