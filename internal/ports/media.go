package ports

import "context"

// MediaStore owns the image files referenced by IMAGE-typed property values.
// Import copies src (a local path or an http(s) URL) into termbase-owned
// storage and returns the stored path. Remove is best-effort.
type MediaStore interface {
	Import(ctx context.Context, termbaseID int64, src string) (string, error)
	Remove(path string) error
}
