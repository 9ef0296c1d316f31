package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/render"
)

type SceneService struct {
	provider provider.SceneProvider
	options  render.Options
	logger   *slog.Logger
}

func NewSceneService(sceneProvider provider.SceneProvider, options render.Options, logger *slog.Logger) *SceneService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SceneService{
		provider: sceneProvider,
		options:  options,
		logger:   logger,
	}
}

// Search resolves the first image of msg and renders the matching scenes.
func (s *SceneService) Search(ctx context.Context, msg domain.Message, cutBorders bool) ([]domain.Segment, error) {
	image, err := s.loadImage(ctx, msg)
	if err != nil {
		return nil, err
	}

	return s.SearchImage(ctx, image, cutBorders)
}

// SearchImage renders the matching scenes for raw image bytes.
func (s *SceneService) SearchImage(ctx context.Context, image []byte, cutBorders bool) ([]domain.Segment, error) {
	if int64(len(image)) > domain.MaxImageSize {
		return nil, domain.ErrPayloadTooLarge
	}

	result, err := s.provider.Search(ctx, image, cutBorders)
	if err != nil {
		return nil, fmt.Errorf("search scene: %w", err)
	}

	s.logger.Info("scene search completed",
		slog.Int("matches", len(result.Matches)),
		slog.Int64("frames", result.FrameCount),
		slog.Bool("cut_borders", cutBorders),
	)

	return render.Search(result, s.options, s.logger), nil
}

// Quota renders the usage limits of the configured account.
func (s *SceneService) Quota(ctx context.Context) ([]domain.Segment, error) {
	info, err := s.provider.Quota(ctx)
	if err != nil {
		return nil, fmt.Errorf("query quota: %w", err)
	}

	return render.Quota(info), nil
}

// FetchImage downloads an image through the provider session.
func (s *SceneService) FetchImage(ctx context.Context, url string) ([]byte, error) {
	image, err := s.provider.FetchImage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	return image, nil
}

func (s *SceneService) loadImage(ctx context.Context, msg domain.Message) ([]byte, error) {
	component, err := msg.FirstImage()
	if err != nil {
		return nil, err
	}

	// Inline bytes win over the URL.
	if len(component.Data) > 0 {
		return component.Data, nil
	}

	return s.FetchImage(ctx, component.URL)
}
