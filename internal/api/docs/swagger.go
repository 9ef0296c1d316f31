package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// ComponentData is one part of an inbound chat message
type ComponentData struct {
	Type string `json:"type" example:"image"`
	Text string `json:"text,omitempty" example:"/tracemoe cut"`
	URL  string `json:"url,omitempty" example:"https://example.com/screenshot.png"`
	Data string `json:"data,omitempty" example:"iVBORw0KGgo="`
}

// MessageRequest represents a chat message pushed by the chat platform
type MessageRequest struct {
	MessageID  string          `json:"message_id" example:"msg-001"`
	SenderID   string          `json:"sender_id" example:"10001"`
	Text       string          `json:"text" example:"/tracemoe"`
	Components []ComponentData `json:"components"`
}

// ReplyData is one reply to send back to the chat
type ReplyData struct {
	Type string `json:"type" example:"text"`
	Text string `json:"text,omitempty" example:"🔍 动漫场景识别结果："`
	URL  string `json:"url,omitempty" example:"https://media.trace.moe/image/1/a.jpg?size=l"`
}

// MessageResponse represents the replies produced for a message
type MessageResponse struct {
	Replies []ReplyData `json:"replies"`
}

// HealthResponse represents the health and readiness responses
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"1.0.0"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"INVALID_REQUEST"`
	Message string `json:"message" example:"Invalid message payload"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "SceneFinder API",
		Version:     "v1.0.0",
		Description: "Anime scene search for chat bots, backed by trace.moe",
		Host:        "localhost:3000",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/messages - Chat webhook
		endpoint.New(
			endpoint.POST,
			"/v1/messages",
			endpoint.WithTags("Messages"),
			endpoint.WithSummary("Handle a chat message"),
			endpoint.WithDescription("Routes the message text to a tracemoe command (search, cut, help, me) and returns the replies in send order. Messages that trigger no command get an empty reply list."),
			endpoint.WithBody(MessageRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Replies produced"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_REQUEST", Message: "Invalid message payload"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing webhook token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"WebhookToken": {}}}),
		),

		// GET /health - Liveness
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Process is alive"),
			}),
		),

		// GET /ready - Readiness
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Provider is available"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "not_ready"}, "503", "Provider is closed"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
