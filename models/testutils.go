package models

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/storage"
)

type FixturesConfig struct {
	NumberOfPolicies int
	ClaimsPerPolicy  int
}

// Fixtures hold slices of model objects created for test fixtures
type Fixtures struct {
	Claims
	Files
	InsuranceConfigs []InsuranceConfig
	Policies
	UserAccessTokens
	Users
}

type UserAccessTokens []UserAccessToken

// TestBuffaloContext is a buffalo context used in tests
type TestBuffaloContext struct {
	buffalo.DefaultContext
	params map[interface{}]interface{}
}

// Value returns the value associated with the given key in the test context
func (b *TestBuffaloContext) Value(key interface{}) interface{} {
	return b.params[key]
}

// Set sets the value to be associated with the given key in the test context
func (b *TestBuffaloContext) Set(key string, val interface{}) {
	b.params[key] = val
}

// CreateTestContext sets the domain.ContextKeyCurrentUser to the user param in the TestBuffaloContext
func CreateTestContext(user User) buffalo.Context {
	ctx := &TestBuffaloContext{
		params: map[interface{}]interface{}{},
	}
	ctx.Set(domain.ContextKeyCurrentUser, user)
	return ctx
}

// CreateUserFixtures generates any number of user records and access tokens
// for testing. The access token for each user is hashed from the user's email.
func CreateUserFixtures(tx *pop.Connection, n int) Fixtures {
	unique := domain.GetUUID().String()

	users := make(Users, n)
	accessTokenFixtures := make(UserAccessTokens, n)
	for i := range users {
		users[i].Email = fmt.Sprintf("user%d_%s@example.com", i, unique)
		iStr := strconv.Itoa(i)
		users[i].FirstName = "first" + iStr
		users[i].LastName = "last" + iStr
		users[i].AppRole = AppRoleCustomer
		users[i].WalletAddress = randStr(56)
		MustCreate(tx, &users[i])

		accessTokenFixtures[i].UserID = users[i].ID
		accessTokenFixtures[i].TokenHash = HashClientIdAccessToken(users[i].Email)
		accessTokenFixtures[i].ExpiresAt = time.Now().UTC().Add(time.Minute * 60)
		MustCreate(tx, &accessTokenFixtures[i])
	}

	return Fixtures{
		Users:            users,
		UserAccessTokens: accessTokenFixtures,
	}
}

// CreateAdminFixture generates a steward user and initializes the contract
// with the given base premium rate, creating the config and pool rows.
func CreateAdminFixture(tx *pop.Connection, basePremiumRate int) (User, InsuranceConfig) {
	f := CreateUserFixtures(tx, 1)
	admin := f.Users[0]
	admin.AppRole = AppRoleSteward
	if err := admin.Update(tx); err != nil {
		panic("error promoting admin fixture, " + err.Error())
	}

	config, err := InitializeConfig(tx, admin, api.ConfigInitializeInput{
		PaymentAsset:    "USDC:" + randStr(56),
		BasePremiumRate: basePremiumRate,
	})
	if err != nil {
		panic("error initializing config fixture, " + err.Error())
	}

	return admin, config
}

// CreatePolicyFixtures generates policy records and their owning users.
// Uses FixturesConfig fields: NumberOfPolicies, ClaimsPerPolicy
func CreatePolicyFixtures(tx *pop.Connection, config FixturesConfig) Fixtures {
	f := CreateUserFixtures(tx, config.NumberOfPolicies)

	now := domain.Clock.Now().UTC()
	policies := make(Policies, config.NumberOfPolicies)
	var claims Claims
	for i := range policies {
		policies[i].UserID = f.Users[i].ID
		policies[i].CoverageType = api.CoverageTypeCombined
		policies[i].CoverageAmount = 1_000_000_000
		policies[i].PremiumPaid = 10_000_000
		policies[i].StartTime = now
		policies[i].EndTime = now.Add(365 * domain.DurationDay)
		policies[i].Status = api.PolicyStatusActive
		policies[i].AssetAddress = randStr(56)
		MustCreate(tx, &policies[i])

		for j := 0; j < config.ClaimsPerPolicy; j++ {
			claims = append(claims, createClaimFixture(tx, policies[i]))
		}
	}

	f.Policies = policies
	f.Claims = claims
	return f
}

func createClaimFixture(tx *pop.Connection, policy Policy) Claim {
	claim := Claim{
		UserID:       policy.UserID,
		PolicyID:     policy.ID,
		AssetType:    api.AssetTypeToken,
		AssetAddress: policy.AssetAddress,
		ClaimAmount:  1_000_000,
		Description:  randStr(25),
		SubmittedAt:  domain.Clock.Now().UTC(),
		Status:       api.ClaimStatusSubmitted,
	}
	MustCreate(tx, &claim)
	return claim
}

// CreateFileFixtures generates any number of file records for testing,
// all owned by the same user.
func CreateFileFixtures(tx *pop.Connection, n int, createdByID uuid.UUID) Fixtures {
	_ = storage.CreateS3Bucket()
	files := make(Files, n)
	for i := range files {
		f := File{
			Content:     []byte("GIF87a"),
			Name:        fmt.Sprintf("file_%d.gif", i),
			CreatedByID: createdByID,
		}
		if err := f.Store(tx); err != nil {
			panic(fmt.Sprintf("failed to create file fixture, %s", err))
		}
		files[i] = f
	}

	return Fixtures{
		Files: files,
	}
}

func MustCreate(tx *pop.Connection, f interface{}) {
	// Use `create` instead of `tx.Create` to check validation rules
	err := create(tx, f)
	if err != nil {
		panic(fmt.Sprintf("error creating %T fixture, %s", f, err))
	}
}

func randStr(n int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Int63()%int64(len(chars))]
	}
	return string(b)
}

func DestroyAll() {
	// deletion order matters for the foreign keys
	var claimFiles ClaimFiles
	destroyTable(&claimFiles)

	var entries LedgerEntries
	destroyTable(&entries)

	var claims Claims
	destroyTable(&claims)

	var files Files
	destroyTable(&files)

	var policies Policies
	destroyTable(&policies)

	var metrics []FraudMetric
	destroyTable(&metrics)

	var pools []PremiumPool
	destroyTable(&pools)

	var configs []InsuranceConfig
	destroyTable(&configs)

	// delete all Users and UserAccessTokens
	var users Users
	destroyTable(&users)
}

func destroyTable(i interface{}) {
	if err := DB.All(i); err != nil {
		panic(err.Error())
	}
	if err := DB.Destroy(i); err != nil {
		panic(err.Error())
	}
}
