package actions

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/models"
)

// AuthZ loads the resource named in the request path, authorizes the actor
// against it, and puts it into the context for the handler. Requests with no
// resource ID (list and create) pass through; their handlers scope the work
// to the actor themselves.
func AuthZ(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		actor, ok := c.Value(domain.ContextKeyCurrentUser).(models.User)
		if !ok {
			err := fmt.Errorf("actor must be authenticated to proceed")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		rName, rawID, rSub, partsCount := getResourceIDSubresource(c.Request().URL.Path)
		if partsCount < 2 {
			return next(c)
		}

		tx := models.Tx(c)
		perm := permissionForMethod(c.Request().Method, true)

		// claims use serial integer IDs, everything else uses UUIDs
		if rName == domain.TypeClaim {
			claimID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil {
				err = fmt.Errorf("invalid claim ID %q", rawID)
				return reportError(c, api.NewAppError(err, api.ErrorInvalidResourceID, api.CategoryUser))
			}

			var claim models.Claim
			if err := claim.FindByID(tx, claimID); err != nil {
				appErr := api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
				if domain.IsOtherThanNoRows(err) {
					appErr.Category = api.CategoryInternal
				}
				return reportError(c, appErr)
			}

			if !claim.IsActorAllowedTo(actor, perm, models.SubResource(rSub)) {
				err := fmt.Errorf("actor not allowed to perform that action on this claim")
				return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
			}

			c.Set(rName, claim)
			return next(c)
		}

		authableResources := map[string]models.Authable{
			domain.TypePolicy: &models.Policy{},
			domain.TypeUser:   &models.User{},
			domain.TypeFile:   &models.File{},
		}

		resource, isAuthable := authableResources[rName]
		if !isAuthable {
			return reportError(c, fmt.Errorf("resource expected to be authable but isn't"))
		}

		rID := uuid.FromStringOrNil(rawID)
		if rID == uuid.Nil {
			err := fmt.Errorf("invalid resource ID, not a UUID")
			return reportError(c, api.NewAppError(err, api.ErrorInvalidResourceID, api.CategoryUser))
		}

		if err := resource.FindByID(tx, rID); err != nil {
			err = fmt.Errorf("failed to load resource: %s", err)
			appErr := api.NewAppError(err, api.ErrorResourceNotFound, api.CategoryNotFound)
			if domain.IsOtherThanNoRows(err) {
				appErr.Category = api.CategoryInternal
			}
			return reportError(c, appErr)
		}

		if !resource.IsActorAllowedTo(tx, actor, perm, models.SubResource(rSub), limitedRequest(c.Request())) {
			err := fmt.Errorf("actor not allowed to perform that action on this resource")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryForbidden))
		}

		c.Set(rName, resource)
		return next(c)
	}
}

func permissionForMethod(method string, hasID bool) models.Permission {
	switch method {
	case http.MethodGet:
		if hasID {
			return models.PermissionView
		}
		return models.PermissionList
	case http.MethodPost:
		return models.PermissionCreate
	case http.MethodPut, http.MethodPatch:
		return models.PermissionUpdate
	case http.MethodDelete:
		return models.PermissionDelete
	}
	return models.PermissionDenied
}

// limitedRequest returns a new *http.Request with most information about the request, excluding
// Body and Forms that read from Body to ensure the Body content is still available for later processing
func limitedRequest(req *http.Request) *http.Request {
	return &http.Request{
		Method:           req.Method,
		URL:              req.URL,
		Proto:            req.Proto,
		ProtoMajor:       req.ProtoMajor,
		ProtoMinor:       req.ProtoMinor,
		Header:           req.Header,
		ContentLength:    req.ContentLength,
		TransferEncoding: req.TransferEncoding,
		Host:             req.Host,
		RemoteAddr:       req.RemoteAddr,
		RequestURI:       req.RequestURI,
	}
}

func getResourceIDSubresource(path string) (string, string, string, int) {
	resource, id, sub, partsCount := "", "", "", 0

	cleanPath := strings.TrimPrefix(path, "/")
	cleanPath = strings.TrimSuffix(cleanPath, "/")
	if cleanPath == "" {
		return resource, id, sub, partsCount
	}

	pathParts := strings.Split(cleanPath, "/")
	partsCount = len(pathParts)

	resource = pathParts[0]

	// "me" is an alias handled by its own route, not a resource ID
	if partsCount > 1 && pathParts[1] != "me" {
		id = pathParts[1]
	} else if partsCount > 1 {
		return resource, "", "", 1
	}

	if partsCount > 2 && id != "" {
		sub = pathParts[2]
	}

	return resource, id, sub, partsCount
}
