package models

import (
	"fmt"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
)

type ClaimFiles []ClaimFile

// ClaimFile links an uploaded file to a claim as evidence
type ClaimFile struct {
	ID        uuid.UUID `db:"id"`
	ClaimID   int64     `db:"claim_id" validate:"required"`
	FileID    uuid.UUID `db:"file_id" validate:"required"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	File File `belongs_to:"files" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (cf *ClaimFile) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(cf), nil
}

// AttachFile links a stored file to the claim as evidence. Evidence can only
// be added while the claim is still open for review.
func (c *Claim) AttachFile(tx *pop.Connection, input api.ClaimFileAttachInput) (ClaimFile, error) {
	if c.Status != api.ClaimStatusSubmitted && c.Status != api.ClaimStatusUnderReview {
		err := fmt.Errorf("claim in status %s no longer accepts evidence", c.Status)
		return ClaimFile{}, api.NewAppError(err, api.ErrorClaimFileAttachDisabled, api.CategoryUser)
	}

	var file File
	if err := file.FindByID(tx, input.FileID); err != nil {
		return ClaimFile{}, err
	}
	if err := file.SetLinked(tx); err != nil {
		return ClaimFile{}, err
	}

	claimFile := ClaimFile{
		ClaimID: c.ID,
		FileID:  file.ID,
		File:    file,
	}
	if err := create(tx, &claimFile); err != nil {
		return ClaimFile{}, err
	}

	return claimFile, nil
}

// LoadFile hydrates the File relation and refreshes its presigned URL
func (cf *ClaimFile) LoadFile(tx *pop.Connection) error {
	if cf.File.ID == uuid.Nil {
		if err := tx.Load(cf, "File"); err != nil {
			return appErrorFromDB(err, api.ErrorQueryFailure)
		}
	}
	return cf.File.RefreshURL(tx)
}

// ConvertToAPI converts the claim file to its API type
func (cf *ClaimFile) ConvertToAPI() api.ClaimFile {
	return api.ClaimFile{
		ID:      cf.ID,
		ClaimID: cf.ClaimID,
		File:    cf.File.ConvertToAPI(),
	}
}

// ConvertToAPI converts the claim files to their API type
func (cfs *ClaimFiles) ConvertToAPI() api.ClaimFiles {
	out := make(api.ClaimFiles, len(*cfs))
	for i := range *cfs {
		out[i] = (*cfs)[i].ConvertToAPI()
	}
	return out
}
