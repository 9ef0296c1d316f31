package domain

import "strings"

// ComponentKind tags a part of an inbound chat message.
type ComponentKind string

const (
	ComponentText    ComponentKind = "text"
	ComponentImage   ComponentKind = "image"
	ComponentMention ComponentKind = "at"
	ComponentReply   ComponentKind = "reply"
)

// Component is one part of an inbound chat message. Only image components
// use URL or Data.
type Component struct {
	Kind ComponentKind `json:"type"`
	Text string        `json:"text,omitempty"`
	URL  string        `json:"url,omitempty"`
	Data []byte        `json:"data,omitempty"`
}

// HasPayload reports whether an image component carries inline bytes or a
// URL to fetch them from.
func (c Component) HasPayload() bool {
	return len(c.Data) > 0 || strings.TrimSpace(c.URL) != ""
}

// Message is an inbound chat message as handed over by the chat platform.
type Message struct {
	ID         string      `json:"message_id"`
	SenderID   string      `json:"sender_id"`
	Text       string      `json:"text"`
	Components []Component `json:"components"`
}

// Images returns the image components in message order.
func (m Message) Images() []Component {
	var images []Component
	for _, c := range m.Components {
		if c.Kind == ComponentImage {
			images = append(images, c)
		}
	}
	return images
}

// FirstImage returns the first image component that carries a payload, or
// ErrNoImage.
func (m Message) FirstImage() (Component, error) {
	for _, image := range m.Images() {
		if image.HasPayload() {
			return image, nil
		}
	}
	return Component{}, ErrNoImage
}
