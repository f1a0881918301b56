// Package media defines the blob-store collaborator that hosts product
// images and videos. The catalog only ever sees durable URLs; the hosting
// provider behind the upload endpoint is opaque.
package media

import (
	"context"
	"errors"
	"fmt"
)

// Kind distinguishes the two media types the catalog accepts.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Size caps enforced before any bytes leave the process.
const (
	MaxImageSizeBytes = 10 * 1024 * 1024
	MaxVideoSizeBytes = 20 * 1024 * 1024
)

// ErrTooLarge is returned when an upload exceeds the per-kind size cap.
var ErrTooLarge = errors.New("media file exceeds maximum size")

// Store accepts media bytes and returns a durable URL.
type Store interface {
	Upload(ctx context.Context, data []byte, kind Kind) (url string, err error)
}

// CheckSize validates data length against the per-kind cap.
func CheckSize(data []byte, kind Kind) error {
	max := MaxImageSizeBytes
	if kind == KindVideo {
		max = MaxVideoSizeBytes
	}
	if len(data) > max {
		return fmt.Errorf("%w: %d bytes (%s max %d)", ErrTooLarge, len(data), kind, max)
	}
	return nil
}
