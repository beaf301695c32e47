package types

import "time"

// Certificate represents one uploaded certificate belonging to a user.
type Certificate struct {
	// ID is the unique identifier of the certificate.
	ID string `json:"id" db:"id"`

	// OwnerID references the user who created the certificate.
	// It is immutable after creation.
	OwnerID string `json:"userId" db:"owner_id"`

	// Name is the certificate title, e.g. "AWS Solutions Architect".
	Name string `json:"name" db:"name"`

	// Issuer is the organization that issued the certificate.
	Issuer string `json:"issuer" db:"issuer"`

	// DateIssued is the optional issue date as entered by the user.
	DateIssued string `json:"dateIssued" db:"date_issued"`

	// FileUrl references the uploaded primary file.
	FileUrl string `json:"fileUrl" db:"file_url"`

	// ThumbnailUrl optionally references a rendered preview image.
	ThumbnailUrl string `json:"thumbnailUrl" db:"thumbnail_url"`

	// Tags are free-text labels used for client-side filtering.
	Tags []string `json:"tags" db:"tags"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
