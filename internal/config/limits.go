package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxFileNameLength is the maximum length for file names.
	// Same as folder names for consistency.
	MaxFileNameLength = 255

	// MaxAncestryDepth bounds the parent-pointer walk. Creation never
	// produces trees this deep, so exceeding the bound means the parent
	// graph is corrupted (a cycle).
	MaxAncestryDepth = 64

	// DefaultMaxUploadSize is the per-file upload cap (32MB).
	DefaultMaxUploadSize = 32 << 20

	// DefaultDownloadURLExpiry is the default lifetime, in seconds, of a
	// presigned download URL.
	DefaultDownloadURLExpiry = 86400
)
