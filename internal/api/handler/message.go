package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

// Dispatcher runs the chat command carried by a message.
type Dispatcher interface {
	Handle(ctx context.Context, msg domain.Message) []domain.Segment
}

// MessageHandler receives chat messages pushed by the chat platform
type MessageHandler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewMessageHandler(dispatcher Dispatcher, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// MessageRequest is the inbound chat message. Image data is base64 in JSON.
type MessageRequest struct {
	MessageID  string             `json:"message_id"`
	SenderID   string             `json:"sender_id"`
	Text       string             `json:"text"`
	Components []domain.Component `json:"components"`
}

// MessageResponse lists the replies in the order they should be sent
type MessageResponse struct {
	Replies []domain.Segment `json:"replies"`
}

var knownComponentKinds = map[domain.ComponentKind]bool{
	domain.ComponentText:    true,
	domain.ComponentImage:   true,
	domain.ComponentMention: true,
	domain.ComponentReply:   true,
}

// Handle handles POST /v1/messages
func (h *MessageHandler) Handle(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrInvalidRequest.WithError(err)
	}

	if strings.TrimSpace(req.SenderID) == "" {
		return domain.ErrInvalidRequest.WithMessage("sender_id is required")
	}
	for _, component := range req.Components {
		if !knownComponentKinds[component.Kind] {
			h.logger.Debug("skip component", slog.String("type", string(component.Kind)))
		}
	}

	replies := h.dispatcher.Handle(c.Context(), domain.Message{
		ID:         req.MessageID,
		SenderID:   req.SenderID,
		Text:       req.Text,
		Components: req.Components,
	})
	if replies == nil {
		replies = []domain.Segment{}
	}

	return c.JSON(MessageResponse{Replies: replies})
}
