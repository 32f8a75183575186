package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/silinternational/assetcover-api/api"
	"github.com/silinternational/assetcover-api/domain"
	"github.com/silinternational/assetcover-api/storage"
)

type Files []File

// File is an uploaded object held in S3, used as claim evidence. Unlinked
// files are eligible for cleanup.
type File struct {
	ID            uuid.UUID `db:"id"`
	URL           string    `db:"url" validate:"required"`
	URLExpiration time.Time `db:"url_expiration"`
	Name          string    `db:"name" validate:"required"`
	Size          int       `db:"size" validate:"min=1"`
	ContentType   string    `db:"content_type" validate:"required"`
	Linked        bool      `db:"linked"`
	CreatedByID   uuid.UUID `db:"created_by_id" validate:"required"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`

	Content []byte `db:"-" validate:"-"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (f *File) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(f), nil
}

func (f *File) GetID() uuid.UUID {
	return f.ID
}

func (f *File) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, f, id)
}

func (f *File) IsActorAllowedTo(tx *pop.Connection, actor User, perm Permission, sub SubResource, r *http.Request) bool {
	return actor.IsAdmin() || actor.ID == f.CreatedByID
}

// Store sniffs and checks the content, puts the object in S3, and saves the
// metadata row with a presigned URL.
func (f *File) Store(tx *pop.Connection) error {
	if len(f.Content) > domain.MaxFileSize {
		err := fmt.Errorf("file size %d exceeds the limit of %d", len(f.Content), domain.MaxFileSize)
		return api.NewAppError(err, api.ErrorStoreFileTooLarge, api.CategoryUser)
	}

	contentType := http.DetectContentType(f.Content)
	if !domain.IsStringInSlice(contentType, domain.AllowedFileUploadTypes) {
		err := fmt.Errorf("file content type %s is not allowed", contentType)
		return api.NewAppError(err, api.ErrorStoreFileBadContentType, api.CategoryUser)
	}

	f.ID = domain.GetUUID()
	f.ContentType = contentType
	f.Size = len(f.Content)

	url, err := storage.StoreFile(f.ID.String(), contentType, f.Content)
	if err != nil {
		appErr := api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
		return appErr
	}

	f.URL = url.Url
	f.URLExpiration = url.Expiration

	return create(tx, f)
}

// SetLinked marks the file as attached to a claim, so it survives cleanup
func (f *File) SetLinked(tx *pop.Connection) error {
	if f.Linked {
		return api.NewAppError(
			errors.New("file is already linked"), api.ErrorFileAlreadyLinked, api.CategoryUser)
	}
	f.Linked = true
	return update(tx, f)
}

// RefreshURL replaces the presigned URL if it is near expiry
func (f *File) RefreshURL(tx *pop.Connection) error {
	if f.URLExpiration.After(domain.Clock.Now().UTC().Add(time.Minute * 5)) {
		return nil
	}

	url, err := storage.GetFileURL(f.ID.String())
	if err != nil {
		return api.NewAppError(err, api.ErrorUnableToStoreFile, api.CategoryInternal)
	}

	f.URL = url.Url
	f.URLExpiration = url.Expiration
	return update(tx, f)
}

// ConvertToAPI converts the file to its API type
func (f *File) ConvertToAPI() api.File {
	return api.File{
		ID:          f.ID,
		URL:         f.URL,
		URLExpires:  f.URLExpiration,
		Name:        f.Name,
		Size:        f.Size,
		ContentType: f.ContentType,
	}
}
