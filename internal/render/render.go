// Package render turns search and quota results into chat reply segments.
package render

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

const (
	// previewSize is the size qualifier appended to preview media URLs.
	previewSize = "size=l"

	unknownTitle    = "未知动漫"
	unknownFilename = "未知"

	// NoMatchText is the whole reply for an empty result set.
	NoMatchText = "未找到匹配的动漫场景"
)

// Options controls how a search result is rendered.
type Options struct {
	MaxResults    int
	EnablePreview bool
	PreviewKind   domain.PreviewKind
}

// Search renders result as an optional preview segment followed by one text
// block. Matches keep the service's order and are cut at opts.MaxResults.
func Search(result *domain.SearchResult, opts Options, logger *slog.Logger) []domain.Segment {
	if logger == nil {
		logger = slog.Default()
	}

	if result.Error != "" {
		return []domain.Segment{domain.TextSegment("搜索出错: " + result.Error)}
	}

	if len(result.Matches) == 0 {
		return []domain.Segment{domain.TextSegment(NoMatchText)}
	}

	var segments []domain.Segment
	if opts.EnablePreview {
		if preview, ok := previewSegment(result.Matches[0], opts.PreviewKind, logger); ok {
			segments = append(segments, preview)
		}
	}

	limit := min(max(opts.MaxResults, 1), len(result.Matches))

	lines := make([]string, 0, limit+2)
	lines = append(lines, "🔍 动漫场景识别结果：\n")
	for i, match := range result.Matches[:limit] {
		lines = append(lines, matchBlock(i+1, match))
	}
	lines = append(lines, fmt.Sprintf("\n💡 搜索了 %s 帧画面\n⚠️ 相似度低于90%%的结果可能不准确", humanize.Comma(result.FrameCount)))

	return append(segments, domain.TextSegment(strings.Join(lines, "\n")))
}

func matchBlock(rank int, m domain.Match) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d 【%s】\n", rank, ResolveTitle(m.Title))
	fmt.Fprintf(&b, "📊 相似度: %.1f%%\n", m.Similarity*100)
	fmt.Fprintf(&b, "⏰ 时间: %s", FormatTime(m.At))
	if m.From != m.To {
		fmt.Fprintf(&b, " (%s-%s)", FormatTime(m.From), FormatTime(m.To))
	}

	filename := m.Filename
	if filename == "" {
		filename = unknownFilename
	}
	fmt.Fprintf(&b, "\n📁 文件: %s", filename)

	if m.Episode != nil {
		fmt.Fprintf(&b, "\n📺 集数: 第%d集", *m.Episode)
	}
	if m.MalID != nil {
		fmt.Fprintf(&b, "\n📺 MyAnimeList: https://myanimelist.net/anime/%d", *m.MalID)
	}
	b.WriteString("\n")

	return b.String()
}

// ResolveTitle picks native, then romaji, then english. A bare AniList id is
// shown as "AniList ID: {id}".
func ResolveTitle(t domain.TitleInfo) string {
	switch t.Kind {
	case domain.TitleBareID:
		return fmt.Sprintf("AniList ID: %d", t.ID)
	case domain.TitleStructured:
		for _, name := range []string{t.Native, t.Romaji, t.English} {
			if name != "" {
				return name
			}
		}
	}
	return unknownTitle
}

// FormatTime renders seconds as MM:SS, or HH:MM:SS from one hour on.
// Fractions are truncated.
func FormatTime(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}

	h := total / 3600
	m := total % 3600 / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func previewSegment(m domain.Match, kind domain.PreviewKind, logger *slog.Logger) (domain.Segment, bool) {
	raw := m.PreviewImageURL
	if kind == domain.PreviewVideo {
		raw = m.PreviewVideoURL
	}

	ref, err := previewURL(raw)
	if err != nil {
		logger.Warn("skip preview", slog.String("kind", string(kind)), slog.Any("error", err))
		return domain.Segment{}, false
	}

	return domain.MediaSegment(kind, ref), true
}

func previewURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("match has no preview url")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse preview url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("preview url %q is not absolute http(s)", raw)
	}

	if u.RawQuery == "" {
		return raw + "?" + previewSize, nil
	}
	return raw + "&" + previewSize, nil
}
