package models

import (
	"io"
	"time"
)

// AvatarState tags the lifecycle stage of a stored avatar blob.
type AvatarState string

const (
	AvatarActive  AvatarState = "ACTIVE"
	AvatarDeleted AvatarState = "DELETED"
)

// Avatar is the metadata row that tracks one avatar blob. Rows in the
// DELETED state are removed, together with their blobs, by the avatar sweep.
type Avatar struct {
	AvatarID  int64       `json:"id"`
	UserID    *int64      `json:"user_id,omitempty"`
	Key       string      `json:"key"`
	URL       string      `json:"url"`
	State     AvatarState `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the Avatar model.
func (a Avatar) TableName() string {
	return "avatars"
}

// AvatarCleanupResult summarizes one run of the avatar sweep.
type AvatarCleanupResult struct {
	Total   int `json:"total"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Upload is an incoming file, e.g. a custom avatar.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// BlobObject identifies a stored blob.
type BlobObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
