package render

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

// Quota renders the account usage as a single text block.
func Quota(info *domain.QuotaInfo) []domain.Segment {
	account := info.AccountID
	if account == "" {
		account = "未知"
	}

	var b strings.Builder
	b.WriteString("📊 TraceMoe 账户配额\n\n")
	fmt.Fprintf(&b, "🆔 账户: %s\n", account)
	fmt.Fprintf(&b, "⭐ 优先级: %d\n", info.Priority)
	fmt.Fprintf(&b, "🔀 并发限制: %d\n", info.Concurrency)
	fmt.Fprintf(&b, "📦 每月配额: %s\n", humanize.Comma(info.Quota))
	fmt.Fprintf(&b, "📈 已使用: %s (%.1f%%)\n", humanize.Comma(info.QuotaUsed), info.UsageRate())
	fmt.Fprintf(&b, "💎 剩余: %s", humanize.Comma(info.Remaining()))

	return []domain.Segment{domain.TextSegment(b.String())}
}
