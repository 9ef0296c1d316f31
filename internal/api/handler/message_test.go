package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Handle(ctx context.Context, msg domain.Message) []domain.Segment {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Segment)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestApp(dispatcher Dispatcher) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(testLogger())})
	app.Post("/v1/messages", NewMessageHandler(dispatcher, testLogger()).Handle)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest("POST", "/v1/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func TestMessageHandler_Handle(t *testing.T) {
	image := []byte("png-bytes")
	payload := `{
		"message_id": "m1",
		"sender_id": "u1",
		"text": "/tracemoe cut",
		"components": [
			{"type": "text", "text": "/tracemoe cut"},
			{"type": "image", "data": "` + base64.StdEncoding.EncodeToString(image) + `"}
		]
	}`

	dispatcher := &MockDispatcher{}
	dispatcher.On("Handle", mock.Anything, mock.MatchedBy(func(msg domain.Message) bool {
		img, err := msg.FirstImage()
		return err == nil && bytes.Equal(img.Data, image) && msg.SenderID == "u1" && msg.Text == "/tracemoe cut"
	})).Return([]domain.Segment{
		domain.MediaSegment(domain.PreviewImage, "https://media.trace.moe/image/1?size=l"),
		domain.TextSegment("result"),
	})

	status, body := postJSON(t, createTestApp(dispatcher), payload)

	assert.Equal(t, 200, status)
	var resp MessageResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.Len(t, resp.Replies, 2)
	assert.Equal(t, domain.SegmentImage, resp.Replies[0].Kind)
	assert.Equal(t, "https://media.trace.moe/image/1?size=l", resp.Replies[0].URL)
	assert.Equal(t, "result", resp.Replies[1].Text)
	assert.NotContains(t, string(body), `"url":""`)
	dispatcher.AssertExpectations(t)
}

func TestMessageHandler_NoReplies(t *testing.T) {
	dispatcher := &MockDispatcher{}
	dispatcher.On("Handle", mock.Anything, mock.Anything).Return(nil)

	status, body := postJSON(t, createTestApp(dispatcher), `{"sender_id":"u1","text":"hello"}`)

	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"replies":[]}`, string(body))
}

func TestMessageHandler_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"sender_id":`},
		{"missing sender", `{"text":"/tracemoe"}`},
		{"bad base64", `{"sender_id":"u1","components":[{"type":"image","data":"***"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &MockDispatcher{}

			status, body := postJSON(t, createTestApp(dispatcher), tt.body)

			assert.Equal(t, 400, status)
			assert.Contains(t, string(body), domain.CodeInvalidRequest)
			dispatcher.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestMessageHandler_UnknownComponentsIgnored(t *testing.T) {
	payload := `{
		"sender_id": "u1",
		"text": "/tracemoe",
		"components": [
			{"type": "face"},
			{"type": "image", "url": "https://x/y.png"},
			{"type": "file", "url": "https://x/doc.pdf"}
		]
	}`

	dispatcher := &MockDispatcher{}
	dispatcher.On("Handle", mock.Anything, mock.MatchedBy(func(msg domain.Message) bool {
		img, err := msg.FirstImage()
		return err == nil && img.URL == "https://x/y.png" && len(msg.Images()) == 1
	})).Return([]domain.Segment{domain.TextSegment("result")})

	status, body := postJSON(t, createTestApp(dispatcher), payload)

	assert.Equal(t, 200, status)
	assert.Contains(t, string(body), "result")
	dispatcher.AssertExpectations(t)
}
