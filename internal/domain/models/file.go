package models

import "time"

// File is a stored file's metadata row. The bytes live in the external
// blob store under ExternalKey; deleting the row obligates the caller to
// purge that key after the delete commits.
type File struct {
	ID          int64     `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	ParentID    int64     `json:"parent_id" db:"parent_id"`
	Name        string    `json:"name" db:"name"`
	Size        int64     `json:"size" db:"size"`
	URL         string    `json:"url" db:"url"`
	MimeType    string    `json:"mime_type" db:"mime_type"`
	ExternalKey string    `json:"external_key" db:"external_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
