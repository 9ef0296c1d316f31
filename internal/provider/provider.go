package provider

import (
	"context"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

// SceneProvider defines the contract for anime scene recognition backends.
type SceneProvider interface {
	// Search uploads an image and returns the ranked candidate scenes.
	// cutBorders asks the backend to crop letterbox borders first.
	Search(ctx context.Context, image []byte, cutBorders bool) (*domain.SearchResult, error)

	// Quota returns the usage limits of the configured account.
	Quota(ctx context.Context) (*domain.QuotaInfo, error)

	// FetchImage downloads an image referenced by a chat message, rejecting
	// anything larger than domain.MaxImageSize.
	FetchImage(ctx context.Context, url string) ([]byte, error)

	// Close releases the network session. It is safe to call more than once.
	Close() error
}
