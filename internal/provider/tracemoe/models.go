package tracemoe

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

// searchResponse from POST /search
type searchResponse struct {
	FrameCount flexInt       `json:"frameCount"`
	Error      flexString    `json:"error"`
	Result     []searchMatch `json:"result"`
}

type searchMatch struct {
	Anilist    anilistField `json:"anilist"`
	Filename   flexString   `json:"filename"`
	Episode    flexInt      `json:"episode"`
	From       flexFloat    `json:"from"`
	To         flexFloat    `json:"to"`
	At         flexFloat    `json:"at"`
	Similarity flexFloat    `json:"similarity"`
	Video      flexString   `json:"video"`
	Image      flexString   `json:"image"`
}

// meResponse from GET /me
type meResponse struct {
	ID          flexString `json:"id"`
	Priority    flexInt    `json:"priority"`
	Concurrency flexInt    `json:"concurrency"`
	Quota       flexInt    `json:"quota"`
	QuotaUsed   flexInt    `json:"quotaUsed"`
}

// anilistTitle is the title record returned with anilistInfo.
type anilistTitle struct {
	Native  *string `json:"native"`
	Romaji  *string `json:"romaji"`
	English *string `json:"english"`
}

type anilistRecord struct {
	ID    flexInt      `json:"id"`
	IDMal flexInt      `json:"idMal"`
	Title anilistTitle `json:"title"`
}

// anilistField holds either the full anilist record or a bare AniList id.
type anilistField struct {
	info  domain.TitleInfo
	malID *int64
}

func (a *anilistField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = anilistField{}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '{':
		var rec anilistRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil
		}
		a.info = domain.StructuredTitle(
			deref(rec.Title.Native),
			deref(rec.Title.Romaji),
			deref(rec.Title.English),
		)
		a.info.ID = rec.ID.Value
		if rec.IDMal.Valid && rec.IDMal.Value != 0 {
			id := rec.IDMal.Value
			a.malID = &id
		}
	default:
		var id flexInt
		_ = id.UnmarshalJSON(data)
		if id.Valid {
			a.info = domain.BareTitleID(id.Value)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// flexInt accepts a JSON number or a numeric string. Anything else leaves
// Valid false instead of failing the whole document.
type flexInt struct {
	Value int64
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{}
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		f.Value, f.Valid = v, true
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) && v == math.Trunc(v) {
		f.Value, f.Valid = int64(v), true
	}
	return nil
}

// Or returns the parsed value, or def when the field was missing or malformed.
func (f flexInt) Or(def int64) int64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	*f = flexFloat{}
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		f.Value, f.Valid = v, true
	}
	return nil
}

// flexString accepts a JSON string; numbers are kept in their literal form
// and any other shape is treated as absent.
type flexString struct {
	Value string
	Valid bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	*f = flexString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			f.Value, f.Valid = s, true
		}
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err == nil {
		f.Value, f.Valid = string(data), true
	}
	return nil
}

func (r searchResponse) toDomain() *domain.SearchResult {
	result := &domain.SearchResult{
		Matches:    make([]domain.Match, 0, len(r.Result)),
		FrameCount: r.FrameCount.Or(0),
		Error:      r.Error.Value,
	}

	for _, m := range r.Result {
		match := domain.Match{
			Similarity:      clamp01(m.Similarity.Value),
			At:              nonNegative(m.At.Value),
			From:            nonNegative(m.From.Value),
			To:              nonNegative(m.To.Value),
			Filename:        m.Filename.Value,
			Title:           m.Anilist.info,
			MalID:           m.Anilist.malID,
			PreviewImageURL: m.Image.Value,
			PreviewVideoURL: m.Video.Value,
		}
		if m.Episode.Valid {
			ep := int(m.Episode.Value)
			match.Episode = &ep
		}
		result.Matches = append(result.Matches, match)
	}

	return result
}

func (r meResponse) toDomain() *domain.QuotaInfo {
	return &domain.QuotaInfo{
		AccountID:   r.ID.Value,
		Priority:    r.Priority.Or(0),
		Concurrency: r.Concurrency.Or(1),
		Quota:       r.Quota.Or(0),
		QuotaUsed:   r.QuotaUsed.Or(0),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func nonNegative(v float64) float64 {
	return math.Max(0, v)
}
