package domain

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/gobuffalo/envy"
	"github.com/gofrs/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/kelseyhightower/envconfig"
)

// Clock supplies the current ledger time for every operation. Tests swap in
// a clockwork fake to exercise cooldowns, proration, and expiry.
var Clock clockwork.Clock = clockwork.NewRealClock()

// Context keys
const (
	ContextKeyCurrentUser = "current_user"
	ContextKeyExtras      = "extras"
	ContextKeyTx          = "tx"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Context keys the AuthZ middleware uses to hand a loaded resource to its handler.
const (
	TypeClaim  = "claims"
	TypePolicy = "policies"
	TypeUser   = "users"
	TypeFile   = "files"
)

const (
	SecondsPerDay = 86400
	BasisPoints   = 10000

	DurationDay = time.Duration(time.Hour * 24)

	// FraudLookback is the trailing window used to count a user's recent claims.
	FraudLookback = 30 * DurationDay

	MaxClaimDescription = 200

	MaxFileSize = 1024 * 1024 * 10 // 10 Megabytes
)

// Event Kinds
const (
	EventApiPolicyPurchased = "api:policy:purchased"
	EventApiPolicyRenewed   = "api:policy:renewed"
	EventApiPolicyCancelled = "api:policy:cancelled"

	EventApiClaimSubmitted = "api:claim:submitted"
	EventApiClaimApproved  = "api:claim:approved"
	EventApiClaimRejected  = "api:claim:rejected"
	EventApiClaimPaid      = "api:claim:paid"

	EventApiUserFlagged   = "api:user:flagged"
	EventApiUserUnflagged = "api:user:unflagged"

	EventPayloadID     = "id"
	EventPayloadUserID = "user_id"
)

var AllowedFileUploadTypes = []string{
	"image/gif",
	"image/jpeg",
	"image/png",
	"image/webp",
	"application/pdf",
}

// Env Holds the values of environment variables
var Env struct {
	GoEnv      string `ignored:"true"`
	ApiBaseURL string `required:"true" split_words:"true"`
	AppName    string `default:"AssetCover" split_words:"true"`
	ServerPort int    `default:"3000" split_words:"true"`

	SessionSecret string `required:"true" split_words:"true"`
	UIURL         string `default:"http://missing.ui.url"`

	AwsRegion           string `split_words:"true"`
	AwsS3Endpoint       string `split_words:"true"`
	AwsS3DisableSSL     bool   `split_words:"true"`
	AwsS3Bucket         string `split_words:"true"`
	AwsS3ACL            string `default:"private" split_words:"true"`
	AwsS3URLLifeMinutes int    `default:"10" split_words:"true"`
	AwsAccessKeyID      string `split_words:"true"`
	AwsSecretAccessKey  string `split_words:"true"`

	AccessTokenLifetimeSeconds int `default:"1166400" split_words:"true"` // 13.5 days

	ClaimsAccount    string `default:"63550" split_words:"true"`
	PremiumsAccount  string `default:"40200" split_words:"true"`
	PoolAccount      string `default:"19349" split_words:"true"`
	FiscalStartMonth int    `default:"1" split_words:"true"`
}

func init() {
	readEnv()
}

// readEnv loads environment data into `Env`
func readEnv() {
	err := envconfig.Process("", &Env)
	if err != nil {
		log.Fatal(errors.New("error loading env vars: " + err.Error()))
	}

	// Doing this separately to avoid needing two environment variables for the same thing
	Env.GoEnv = envy.Get("GO_ENV", EnvDevelopment)
}

// GetUUID creates a new, unique version 4 (random) UUID and returns it.
// Errors are ignored.
func GetUUID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		log.Printf("error creating new uuid ... %v", err)
	}
	return id
}

// GetBearerTokenFromRequest obtains the token from an Authorization header beginning
// with "Bearer". If not found, an empty string is returned.
func GetBearerTokenFromRequest(r *http.Request) string {
	authorizationHeader := r.Header.Get("Authorization")
	if authorizationHeader == "" {
		return ""
	}

	re := regexp.MustCompile(`^(?i)Bearer (.*)$`)
	matches := re.FindSubmatch([]byte(authorizationHeader))
	if len(matches) < 2 {
		return ""
	}

	return string(matches[1])
}

// IsOtherThanNoRows returns false if the error is nil or is just reporting that there
// were no rows in the result set for a sql query.
func IsOtherThanNoRows(err error) bool {
	if err == nil {
		return false
	}

	if strings.Contains(err.Error(), sql.ErrNoRows.Error()) {
		return false
	}

	return true
}

// GetFunctionName provides the filename, line number, and function name of the caller, skipping the top `skip`
// functions on the stack.
func GetFunctionName(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "?"
	}

	fn := runtime.FuncForPC(pc)
	return fmt.Sprintf("%s:%d %s", file, line, fn.Name())
}

// RandomString returns a random string of the given length using only the characters in the given string
func RandomString(n int, chars string) string {
	if chars == "" {
		chars = "abcdefghijklmnopqrstuvwxyz"
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Intn(len(chars))]
	}
	return string(b)
}

func IsStringInSlice(needle string, haystack []string) bool {
	for _, hs := range haystack {
		if needle == hs {
			return true
		}
	}

	return false
}

// EndOfMonth returns the last day of the given time's month
func EndOfMonth(date time.Time) time.Time {
	firstOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 1, -1)
}
