package mock

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
)

func TestProvider_Search(t *testing.T) {
	p := New()
	ctx := context.Background()

	tests := []struct {
		name        string
		image       []byte
		wantMatches int
		wantErr     bool
	}{
		{
			name:        "valid image",
			image:       bytes.Repeat([]byte{1, 2, 3}, 100),
			wantMatches: 2,
			wantErr:     false,
		},
		{
			name:        "image too small",
			image:       make([]byte, 4),
			wantMatches: 0,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Search(ctx, tt.image, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("Search() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("Search() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if len(res.Matches) != tt.wantMatches {
				t.Errorf("Search() got %d matches, want %d", len(res.Matches), tt.wantMatches)
			}
		})
	}
}

func TestProvider_SearchDeterministic(t *testing.T) {
	p := New()
	ctx := context.Background()
	image := bytes.Repeat([]byte("frame"), 20)

	first, err := p.Search(ctx, image, false)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	second, err := p.Search(ctx, image, false)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if first.Matches[0].Similarity != second.Matches[0].Similarity {
		t.Errorf("Search() should be deterministic for the same image")
	}
	for _, m := range first.Matches {
		if m.Similarity < 0 || m.Similarity > 1 {
			t.Errorf("similarity %v out of range", m.Similarity)
		}
	}
}

func TestProvider_Quota(t *testing.T) {
	info, err := New().Quota(context.Background())
	if err != nil {
		t.Fatalf("Quota() error = %v", err)
	}
	if info.Remaining() != info.Quota-info.QuotaUsed {
		t.Errorf("Remaining() = %d, want %d", info.Remaining(), info.Quota-info.QuotaUsed)
	}
}

func TestProvider_FetchImage(t *testing.T) {
	p := New()

	data, err := p.FetchImage(context.Background(), "https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if len(data) == 0 {
		t.Errorf("FetchImage() returned no data")
	}

	if _, err := p.FetchImage(context.Background(), ""); !errors.Is(err, domain.ErrNoImage) {
		t.Errorf("FetchImage(\"\") error = %v, want ErrNoImage", err)
	}

	if err := p.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
