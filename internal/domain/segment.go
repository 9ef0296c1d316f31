package domain

// SegmentKind tags a part of a rendered reply.
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentImage SegmentKind = "image"
	SegmentVideo SegmentKind = "video"
)

// Segment is one renderable part of a reply. Media segments carry a URL,
// text segments carry Text.
type Segment struct {
	Kind SegmentKind `json:"type"`
	Text string      `json:"text,omitempty"`
	URL  string      `json:"url,omitempty"`
}

func TextSegment(text string) Segment {
	return Segment{Kind: SegmentText, Text: text}
}

func MediaSegment(kind PreviewKind, url string) Segment {
	if kind == PreviewVideo {
		return Segment{Kind: SegmentVideo, URL: url}
	}
	return Segment{Kind: SegmentImage, URL: url}
}
