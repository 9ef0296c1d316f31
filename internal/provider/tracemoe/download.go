package tracemoe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

const operationDownload = "download"

// FetchImage downloads an image attached to a chat message. The request goes
// through the shared session but never carries the API key.
func (c *Client) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, domain.ErrNoImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, domain.ErrNoImage.WithError(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.doRequest(ctx, operationDownload, req, false, c.config.MaxImageSize)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return nil, domain.ErrPayloadTooLarge
		}
		if errors.Is(err, domain.ErrRequestTimeout) {
			return nil, domain.ErrRequestTimeout.WithMessage("下载图片超时，请稍后再试").WithError(err)
		}
		return nil, err
	}

	switch {
	case resp.status == http.StatusOK:
	case resp.status == http.StatusNotFound:
		return nil, domain.ErrResourceNotFound.WithMessage("图片链接不存在或已失效")
	case resp.status == http.StatusForbidden:
		return nil, domain.ErrAuthRejected.WithMessage("无权限访问图片链接")
	default:
		return nil, domain.ErrGenericFailure.WithMessage(fmt.Sprintf("无法下载图片，HTTP状态码: %d", resp.status))
	}

	if len(resp.body) == 0 {
		return nil, domain.ErrInvalidInput.WithMessage("图片数据为空")
	}

	return resp.body, nil
}
