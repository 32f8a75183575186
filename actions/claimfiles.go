package actions

import (
	"io"

	"github.com/gobuffalo/buffalo"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/models"
)

// swagger:operation POST /upload Files Upload
//
// Upload
//
// upload a file to be attached to a claim as evidence
//
// ---
//
//	consumes:
//	  - multipart/form-data
//	parameters:
//	  - name: file
//	    in: formData
//	    type: file
//	    required: true
//	    description: the file to upload
//	responses:
//	  '200':
//	    description: the stored file
//	    schema:
//	      "$ref": "#/definitions/File"
func uploadHandler(c buffalo.Context) error {
	tx := models.Tx(c)
	actor := models.CurrentUser(c)

	f, err := c.File("file")
	if err != nil {
		appErr := api.NewAppError(err, api.ErrorReceivingFile, api.CategoryInternal)
		if err.Error() == "http: no such file" {
			appErr.Category = api.CategoryUser
		}
		return reportError(c, appErr)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return reportError(c, api.NewAppError(err, api.ErrorUnableToReadFile, api.CategoryInternal))
	}

	file := models.File{
		Name:        f.Filename,
		Content:     content,
		CreatedByID: actor.ID,
	}
	if err := file.Store(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, file.ConvertToAPI())
}

// swagger:operation POST /claims/{id}/files Claims ClaimFilesAttach
//
// ClaimFilesAttach
//
// attach a previously uploaded file to a claim as evidence
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: claim ID
//	  - name: claim file attach input
//	    in: body
//	    description: the file to attach
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/ClaimFileAttachInput"
//	responses:
//	  '200':
//	    description: the new claim file link
//	    schema:
//	      "$ref": "#/definitions/ClaimFile"
func claimFilesAttach(c buffalo.Context) error {
	tx := models.Tx(c)
	claim := getReferencedClaimFromCtx(c)

	var input api.ClaimFileAttachInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	claimFile, err := claim.AttachFile(tx, input)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, claimFile.ConvertToAPI())
}
