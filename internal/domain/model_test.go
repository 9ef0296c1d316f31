package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaInfo_UsageRate(t *testing.T) {
	tests := []struct {
		name  string
		quota QuotaInfo
		want  float64
	}{
		{"zero quota never divides", QuotaInfo{Quota: 0, QuotaUsed: 10}, 0},
		{"quarter used", QuotaInfo{Quota: 100, QuotaUsed: 25}, 25.0},
		{"fully used", QuotaInfo{Quota: 1000, QuotaUsed: 1000}, 100.0},
		{"negative quota", QuotaInfo{Quota: -5, QuotaUsed: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.quota.UsageRate(), 1e-9)
		})
	}
}

func TestQuotaInfo_Remaining(t *testing.T) {
	q := QuotaInfo{Quota: 1000, QuotaUsed: 250}
	assert.Equal(t, int64(750), q.Remaining())
}

func TestMessage_FirstImage(t *testing.T) {
	msg := Message{
		Text: "/tracemoe",
		Components: []Component{
			{Kind: ComponentText, Text: "/tracemoe"},
			{Kind: ComponentMention, Text: "bot"},
			{Kind: ComponentImage, URL: "https://example.com/a.jpg"},
			{Kind: ComponentImage, URL: "https://example.com/b.jpg"},
		},
	}

	images := msg.Images()
	require.Len(t, images, 2)

	first, err := msg.FirstImage()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.jpg", first.URL)
	assert.True(t, first.HasPayload())
}

func TestMessage_FirstImage_SkipsEmptyImages(t *testing.T) {
	msg := Message{
		Components: []Component{
			{Kind: ComponentImage},
			{Kind: ComponentImage, URL: "   "},
			{Kind: ComponentImage, URL: "https://example.com/c.jpg"},
		},
	}

	first, err := msg.FirstImage()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/c.jpg", first.URL)
}

func TestMessage_FirstImage_None(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
	}{
		{"no components", nil},
		{"text only", []Component{{Kind: ComponentText, Text: "hello"}}},
		{"images without payload", []Component{{Kind: ComponentImage}, {Kind: ComponentImage, URL: " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Message{Components: tt.components}.FirstImage()
			assert.True(t, errors.Is(err, ErrNoImage))
		})
	}
}

func TestMediaSegment(t *testing.T) {
	assert.Equal(t, SegmentImage, MediaSegment(PreviewImage, "u").Kind)
	assert.Equal(t, SegmentVideo, MediaSegment(PreviewVideo, "u").Kind)
	assert.Equal(t, SegmentText, TextSegment("x").Kind)
}

func TestPreviewKind_Valid(t *testing.T) {
	assert.True(t, PreviewImage.Valid())
	assert.True(t, PreviewVideo.Valid())
	assert.False(t, PreviewKind("gif").Valid())
}
