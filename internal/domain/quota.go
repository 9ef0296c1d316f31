package domain

// QuotaInfo describes the usage limits of the calling account. In guest mode
// AccountID is the caller's IP address.
type QuotaInfo struct {
	AccountID   string `json:"id"`
	Priority    int64  `json:"priority"`
	Concurrency int64  `json:"concurrency"`
	Quota       int64  `json:"quota"`
	QuotaUsed   int64  `json:"quota_used"`
}

// Remaining returns the unused part of the monthly quota.
func (q QuotaInfo) Remaining() int64 {
	return q.Quota - q.QuotaUsed
}

// UsageRate returns the used share of the quota as a percentage, or 0 when
// the account has no quota.
func (q QuotaInfo) UsageRate() float64 {
	if q.Quota <= 0 {
		return 0
	}
	return float64(q.QuotaUsed) / float64(q.Quota) * 100
}
