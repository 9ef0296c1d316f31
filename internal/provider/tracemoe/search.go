package tracemoe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

const (
	operationSearch = "search"

	imageField    = "image"
	imageFilename = "image.jpg"
	imageMIME     = "image/jpeg"
)

// Search calls POST /search with the image as a multipart upload. Title
// metadata is always requested; border cropping only when cutBorders is set.
func (c *Client) Search(ctx context.Context, image []byte, cutBorders bool) (*domain.SearchResult, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidInput.WithError(errors.New("empty image"))
	}

	body, contentType, err := buildSearchForm(image)
	if err != nil {
		return nil, fmt.Errorf("build search form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/search", searchQuery(cutBorders)), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.doRequest(ctx, operationSearch, req, true, 0)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusOK {
		return nil, domain.ClassifyStatus(resp.status, operationSearch)
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, domain.ErrAPI.WithMessage("API 返回了无法解析的结果").WithError(err)
	}

	if payload.Error.Value != "" {
		c.logger.Info("tracemoe reported error", slog.String("error", payload.Error.Value))
		return nil, domain.NewAPIError(payload.Error.Value)
	}

	result := payload.toDomain()
	c.logger.Debug("tracemoe search done",
		slog.Int("matches", len(result.Matches)),
		slog.Int64("frame_count", result.FrameCount),
		slog.Bool("cut_borders", cutBorders),
	)

	return result, nil
}

// searchQuery encodes the /search query string. Both flags are sent with an
// empty value.
func searchQuery(cutBorders bool) string {
	q := url.Values{}
	q.Set("anilistInfo", "")
	if cutBorders {
		q.Set("cutBorders", "")
	}
	return q.Encode()
}

func buildSearchForm(image []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imageField, imageFilename))
	h.Set("Content-Type", imageMIME)

	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
