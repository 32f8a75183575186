// AssetCover API
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//	Schemes: https
//	Host: localhost
//	BasePath: /
//	Version: 0.0.1
//	License: MIT http://opensource.org/licenses/MIT
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- bearerAuth:
//
//	SecurityDefinitions:
//	bearerAuth:
//	    type: apiKey
//	    name: Authorization
//	    in: header
//
// swagger:meta
package actions

import (
	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/buffalo-pop/v3/pop/popmw"
	contenttype "github.com/gobuffalo/mw-contenttype"
	paramlogger "github.com/gobuffalo/mw-paramlogger"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/log"
	"github.com/silinternational/assetcover-api/models"
)

var app *buffalo.App

// App is where all routes and middleware for buffalo should be defined.
//
// Routing, middleware, groups, etc... are declared TOP -> DOWN.
// This means if you add a middleware to `app` *after* declaring a
// group, that group will NOT have that new middleware.
func App() *buffalo.App {
	if app == nil {
		app = buffalo.New(buffalo.Options{
			Env: domain.Env.GoEnv,
			PreWares: []buffalo.PreWare{
				cors.New(cors.Options{
					AllowCredentials: true,
					AllowedOrigins:   []string{domain.Env.UIURL},
					AllowedMethods:   []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"},
					AllowedHeaders:   []string{"*"},
				}).Handler,
			},
			SessionName:  "_assetcover_api_session",
			SessionStore: sessions.NewCookieStore([]byte(domain.Env.SessionSecret)),
		})

		registerCustomErrorHandler(app)

		// Initialize and attach "sentry" to context
		app.Use(log.SentryMiddleware)

		// Log request parameters (filters apply)
		app.Use(paramlogger.ParameterLogger)

		// Set the request content type to JSON
		app.Use(contenttype.Set("application/json"))

		// Wraps each request in a transaction. Aborted requests roll back
		// everything, including any pool movement and its journal entries.
		app.Use(popmw.Transaction(models.DB))

		app.GET("/", statusHandler)

		app.Use(AuthN)

		app.POST("/upload", uploadHandler)

		app.GET("/config", configView)
		app.POST("/config", configInitialize)

		app.POST("/quote", premiumQuote)
		app.GET("/totals", contractTotals)

		policiesGroup := app.Group("/" + domain.TypePolicy)
		policiesGroup.Use(AuthZ)
		policiesGroup.GET("/", policiesList)
		policiesGroup.POST("/", policiesPurchase)
		policiesGroup.GET("/{id}", policiesView)
		policiesGroup.POST("/{id}/"+api.ResourceRenew, policiesRenew)
		policiesGroup.POST("/{id}/"+api.ResourceCancel, policiesCancel)

		claimsGroup := app.Group("/" + domain.TypeClaim)
		claimsGroup.Use(AuthZ)
		claimsGroup.GET("/", claimsList)
		claimsGroup.POST("/", claimsSubmit)
		claimsGroup.GET("/{id}", claimsView)
		claimsGroup.POST("/{id}/"+api.ResourceReview, claimsReview)
		claimsGroup.POST("/{id}/"+api.ResourcePayout, claimsPayout)
		claimsGroup.POST("/{id}/"+api.ResourceFiles, claimFilesAttach)

		usersGroup := app.Group("/" + domain.TypeUser)
		usersGroup.Use(AuthZ)
		usersGroup.GET("/", usersList)
		usersGroup.GET("/me", usersMe)
		usersGroup.GET("/{id}", usersView)
		usersGroup.GET("/{id}/fraud-metrics", usersFraudMetrics)

		adminGroup := app.Group("/admin")
		adminGroup.Use(requireAdmin)
		adminGroup.PUT("/rates", adminUpdateRates)
		adminGroup.PUT("/limits", adminUpdateLimits)
		adminGroup.PUT("/fraud-params", adminUpdateFraudParams)
		adminGroup.PUT("/paused", adminSetPaused)
		adminGroup.GET("/pool", adminPoolView)
		adminGroup.POST("/pool/deposit", adminPoolDeposit)
		adminGroup.POST("/pool/withdraw", adminPoolWithdraw)
		adminGroup.POST("/pool/emergency-withdraw", adminPoolEmergencyWithdraw)
		adminGroup.POST("/users/{id}/flag", adminFlagUser)
		adminGroup.POST("/users/{id}/unflag", adminUnflagUser)
		adminGroup.GET("/ledger", adminLedgerExport)
		adminGroup.POST("/ledger/reconcile", adminLedgerReconcile)
	}

	return app
}
