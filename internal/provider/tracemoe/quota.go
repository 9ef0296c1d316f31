package tracemoe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

const operationQuota = "quota"

// Quota calls GET /me. Numeric fields that are missing or malformed fall
// back to priority=0, concurrency=1, quota=0, quotaUsed=0.
func (c *Client) Quota(ctx context.Context) (*domain.QuotaInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/me", ""), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.doRequest(ctx, operationQuota, req, true, 0)
	if err != nil {
		return nil, err
	}

	if !isSuccess(resp.status) {
		return nil, domain.ClassifyStatus(resp.status, operationQuota)
	}

	var payload meResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, domain.ErrAPI.WithMessage("API 返回了无法解析的结果").WithError(err)
	}

	return payload.toDomain(), nil
}
