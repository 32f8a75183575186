package grifts

import (
	"fmt"

	"github.com/gobuffalo/grift/grift"
	"github.com/gobuffalo/pop/v6"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

var _ = grift.Namespace("db", func() {
	grift.Desc("seed", "Seeds a database")
	_ = grift.Add("seed", func(c *grift.Context) error {
		countUsers := models.Users{}
		count, err := models.DB.Count(countUsers)
		if err != nil {
			return err
		}

		if count > 0 {
			fmt.Printf("\nINFO: It appears that the grifts have already been run, "+
				"since there are already %v users.\n", count)
			return nil
		}

		return models.DB.Transaction(func(tx *pop.Connection) error {
			steward, err := createSeedUser(tx, "steward@example.com", "Sam", "Steward", models.AppRoleSteward)
			if err != nil {
				return err
			}

			config, err := models.InitializeConfig(tx, steward, api.ConfigInitializeInput{
				PaymentAsset:    "USDC:GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVZ",
				BasePremiumRate: 100,
			})
			if err != nil {
				return err
			}
			fmt.Printf("initialized contract config, admin %s\n", config.AdminID)

			customer, err := createSeedUser(tx, "customer@example.com", "Carol", "Customer", models.AppRoleCustomer)
			if err != nil {
				return err
			}

			policy, err := models.PurchasePolicy(tx, customer, api.PolicyPurchaseInput{
				CoverageType:   api.CoverageTypeCombined,
				CoverageAmount: 1_000_000_000,
				CoveragePeriod: 365 * domain.SecondsPerDay,
				AssetAddress:   "CCEXAMPLEASSETCONTRACT",
			})
			if err != nil {
				return err
			}
			fmt.Printf("created policy %s for %s, premium %d\n",
				policy.ID, customer.Email, policy.PremiumPaid)

			return nil
		})
	})
})

// createSeedUser makes a user and an access token, printing the plaintext
// token since it cannot be recovered later
func createSeedUser(tx *pop.Connection, email, first, last string, role models.UserAppRole) (models.User, error) {
	user := models.User{
		Email:     email,
		FirstName: first,
		LastName:  last,
		AppRole:   role,
	}
	if err := user.Create(tx); err != nil {
		return user, err
	}

	_, token, err := models.NewUserAccessToken(tx, user)
	if err != nil {
		return user, err
	}

	fmt.Printf("created %s user %s with bearer token %q\n", role, email, token)
	return user, nil
}
