package models

import "time"

// Folder is a node in an owner's drive tree. ParentID nil marks the root;
// each owner has exactly one root, enforced by a partial unique index.
type Folder struct {
	ID        int64     `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *int64    `json:"parent_id" db:"parent_id"` // nil = root
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the folder is its owner's root.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
