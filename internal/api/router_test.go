package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/command"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider/tracemoe"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/render"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/service"
)

const searchBody = `{
	"frameCount": 745506,
	"error": "",
	"result": [{
		"anilist": {"id": 1, "idMal": 5, "title": {"native": "カウボーイビバップ", "romaji": "Cowboy Bebop", "english": null}},
		"filename": "Cowboy Bebop - 01.mp4",
		"episode": 1,
		"from": 60,
		"to": 70,
		"at": 65,
		"similarity": 0.9623,
		"video": "https://media.trace.moe/video/1/a.mp4",
		"image": "https://media.trace.moe/image/1/a.jpg"
	}]
}`

type admins map[string]bool

func (a admins) IsAdmin(id string) bool { return a[id] }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, token string) *Router {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, searchBody)
		case "/me":
			_, _ = io.WriteString(w, `{"id":"1.2.3.4","priority":0,"concurrency":1,"quota":1000,"quotaUsed":250}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	client := tracemoe.NewClient(tracemoe.Config{BaseURL: upstream.URL}, testLogger())
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewSceneService(client, render.Options{MaxResults: 3, EnablePreview: true, PreviewKind: domain.PreviewImage}, testLogger())
	dispatcher := command.NewDispatcher(svc, admins{"boss": true}, "/", testLogger())

	router := NewRouter(testLogger(), &Dependencies{
		Dispatcher:   dispatcher,
		WebhookToken: token,
	})
	router.Setup()
	return router
}

func postMessage(t *testing.T, router *Router, token string, body any) (*http.Response, handler.MessageResponse) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/v1/messages", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := router.App().Test(req, -1)
	require.NoError(t, err)

	var parsed handler.MessageResponse
	if resp.StatusCode == 200 {
		data, _ := io.ReadAll(resp.Body)
		require.NoError(t, json.Unmarshal(data, &parsed))
	}
	return resp, parsed
}

func TestRouter_SearchFlow(t *testing.T) {
	router := newTestRouter(t, "tok")

	resp, parsed := postMessage(t, router, "tok", map[string]any{
		"message_id": "m1",
		"sender_id":  "u1",
		"text":       "/tracemoe",
		"components": []map[string]any{
			{"type": "image", "data": base64.StdEncoding.EncodeToString([]byte("fake-jpeg"))},
		},
	})

	require.Equal(t, 200, resp.StatusCode)
	require.Len(t, parsed.Replies, 3)
	assert.Equal(t, render.SearchingText, parsed.Replies[0].Text)
	assert.Equal(t, domain.SegmentImage, parsed.Replies[1].Kind)
	assert.Equal(t, "https://media.trace.moe/image/1/a.jpg?size=l", parsed.Replies[1].URL)

	text := parsed.Replies[2].Text
	assert.Contains(t, text, "#1 【カウボーイビバップ】")
	assert.Contains(t, text, "96.2%")
	assert.Contains(t, text, "01:05 (01:00-01:10)")
	assert.Contains(t, text, "第1集")
	assert.Contains(t, text, "https://myanimelist.net/anime/5")
	assert.Contains(t, text, "745,506")
}

func TestRouter_QuotaFlow(t *testing.T) {
	router := newTestRouter(t, "")

	_, parsed := postMessage(t, router, "", map[string]any{"sender_id": "boss", "text": "/tracemoe me"})
	require.Len(t, parsed.Replies, 1)
	assert.Contains(t, parsed.Replies[0].Text, "25.0%")

	_, parsed = postMessage(t, router, "", map[string]any{"sender_id": "u1", "text": "/tracemoe me"})
	require.Len(t, parsed.Replies, 1)
	assert.Equal(t, "❌ 该命令仅限管理员使用", parsed.Replies[0].Text)
}

func TestRouter_RejectsMissingToken(t *testing.T) {
	router := newTestRouter(t, "tok")

	resp, _ := postMessage(t, router, "", map[string]any{"sender_id": "u1", "text": "/tracemoe help"})

	assert.Equal(t, 401, resp.StatusCode)
}

func TestRouter_PublicEndpoints(t *testing.T) {
	router := newTestRouter(t, "tok")

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			resp, err := router.App().Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

func TestRouter_ReadyDrainsOnShutdown(t *testing.T) {
	var ready atomic.Bool
	ready.Store(true)

	router := NewRouter(testLogger(), &Dependencies{Ready: ready.Load})
	router.Setup()

	resp, err := router.App().Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	ready.Store(false)

	resp, err = router.App().Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	resp, err = router.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRouter_MetricsExposeCommands(t *testing.T) {
	router := newTestRouter(t, "")
	_, _ = postMessage(t, router, "", map[string]any{"sender_id": "u1", "text": "/tracemoe help"})

	resp, err := router.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "scenefinder_commands_total"))
}
