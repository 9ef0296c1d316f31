package tracemoe

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

func TestClient_FetchImage(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       []byte
		wantErrIs  error
		wantErrMsg string
	}{
		{name: "ok", status: http.StatusOK, body: []byte("jpeg-bytes")},
		{name: "not found", status: http.StatusNotFound, wantErrIs: domain.ErrResourceNotFound, wantErrMsg: "图片链接不存在或已失效"},
		{name: "forbidden", status: http.StatusForbidden, wantErrIs: domain.ErrAuthRejected, wantErrMsg: "无权限访问图片链接"},
		{name: "other status", status: http.StatusBadGateway, wantErrIs: domain.ErrGenericFailure, wantErrMsg: "502"},
		{name: "empty body", status: http.StatusOK, wantErrIs: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("x-trace-key"), "api key must not leak to image hosts")
				w.WriteHeader(tt.status)
				_, _ = w.Write(tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, "https://api.invalid", "secret")
			data, err := client.FetchImage(context.Background(), server.URL+"/img.jpg")

			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErrIs)
				var appErr *domain.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Contains(t, appErr.Message, tt.wantErrMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.body, data)
		})
	}
}

func TestClient_FetchImage_TooLarge(t *testing.T) {
	const limit = 1024

	tests := []struct {
		name          string
		contentLength bool
	}{
		{name: "declared content length", contentLength: true},
		{name: "chunked body", contentLength: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := bytes.Repeat([]byte{0xff}, limit+1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentLength {
					w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
				} else {
					w.(http.Flusher).Flush()
				}
				_, _ = w.Write(payload)
			}))
			defer server.Close()

			config := DefaultConfig()
			config.MaxImageSize = limit
			client := NewClient(config, testLogger())
			defer func() { _ = client.Close() }()

			_, err := client.FetchImage(context.Background(), server.URL)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
		})
	}
}

func TestClient_FetchImage_ExactLimit(t *testing.T) {
	payload := bytes.Repeat([]byte{0x01}, 512)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	config := DefaultConfig()
	config.MaxImageSize = 512
	client := NewClient(config, testLogger())
	defer func() { _ = client.Close() }()

	data, err := client.FetchImage(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, data, 512)
}

func TestClient_FetchImage_EmptyURL(t *testing.T) {
	client := NewClient(DefaultConfig(), testLogger())

	_, err := client.FetchImage(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrNoImage)
}
