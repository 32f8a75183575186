package api

import (
	"net/http"
)

const (
	ResourceSubmit = "submit"
	ResourceReview = "review"
	ResourcePayout = "payout"
	ResourceRenew  = "renew"
	ResourceCancel = "cancel"
	ResourceFiles  = "files"
)

type ErrorKey string

func (e ErrorKey) String() string {
	return string(e)
}

type ErrorCategory string

func (e ErrorCategory) String() string {
	return string(e)
}

// AppError holds information that is helpful in logging and reporting api errors
type AppError struct {
	Err error `json:"-"`

	// Don't change the value of these Key entries without making a corresponding change on the UI,
	// since these will be converted to human-friendly texts for presentation to the user
	Key ErrorKey `json:"key"`

	HttpStatus int `json:"status"`

	// detailed error message for debugging
	DebugMsg string `json:"debug_msg,omitempty"`

	Category ErrorCategory `json:"-"`

	Message string `json:"message"`

	// Extra data providing detail about the error condition, only provided in development mode
	Extras map[string]interface{} `json:"extras,omitempty"`
}

func (a *AppError) Error() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

func (a *AppError) Unwrap() error {
	return a.Err
}

// NewAppError returns a new AppError with its Err, Key and Category set
func NewAppError(err error, key ErrorKey, category ErrorCategory) *AppError {
	return &AppError{
		Err:      err,
		Key:      key,
		Category: category,
	}
}

// SetHttpStatusFromCategory assigns the appropriate HTTP status based on the error category, if not
// already set.
func (a *AppError) SetHttpStatusFromCategory() {
	if a.HttpStatus != 0 {
		return
	}

	switch a.Category {
	case CategoryInternal, CategoryDatabase:
		a.HttpStatus = http.StatusInternalServerError
	case CategoryForbidden, CategoryNotFound:
		a.HttpStatus = http.StatusNotFound
	case CategoryUnauthorized:
		a.HttpStatus = http.StatusUnauthorized
	default:
		a.HttpStatus = http.StatusBadRequest
	}
}

// LoadMessage assigns a reader-friendly message derived from the error key.
func (a *AppError) LoadMessage() {
	if a.HttpStatus == http.StatusInternalServerError {
		a.Message = "An internal system error has occurred"
		return
	}
	a.Message = keyToReadableString(a.Key.String())
}

// keyToReadableString takes a key like ErrorSomethingSomethingOther and returns "Error something something other"
func keyToReadableString(key string) string {
	var words []string
	start := 0
	for i := 1; i <= len(key); i++ {
		if i == len(key) || (key[i] >= 'A' && key[i] <= 'Z') {
			words = append(words, key[start:i])
			start = i
		}
	}

	if len(words) == 0 {
		return key
	}

	for i := 1; i < len(words); i++ {
		words[i] = lower(words[i])
	}

	out := words[0]
	for _, w := range words[1:] {
		out += " " + w
	}
	return out
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}

// MergeExtras returns a single map with all the key-value pairs of the input maps.
// Key-value pairs in later maps will overwrite matching ones from earlier maps.
func MergeExtras(extras []map[string]interface{}) map[string]interface{} {
	allExtras := map[string]interface{}{}

	if len(extras) == 1 {
		return extras[0]
	}

	for _, e := range extras {
		for k, v := range e {
			allExtras[k] = v
		}
	}

	return allExtras
}
