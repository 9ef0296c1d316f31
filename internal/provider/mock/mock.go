package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider"
)

const (
	// minImageSize abaixo disso a imagem é considerada inválida
	minImageSize   = 16
	mockFrameCount = 1_234_567
	mockQuota      = 1000
)

// Provider implementa provider.SceneProvider para testes e desenvolvimento
type Provider struct{}

// New cria uma nova instância do MockProvider
func New() *Provider {
	return &Provider{}
}

// Search gera resultados determinísticos baseados no hash da imagem
func (p *Provider) Search(ctx context.Context, image []byte, cutBorders bool) (*domain.SearchResult, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrInvalidInput
	}

	hash := sha256.Sum256(image)
	seed := binary.BigEndian.Uint64(hash[:8])

	at := float64(seed % 5400)
	episode := int(seed%24) + 1
	malID := int64(seed%50000) + 1
	similarity := 0.80 + float64(hash[8]%20)/100
	if cutBorders {
		similarity += 0.01
	}

	top := domain.Match{
		Similarity:      similarity,
		At:              at,
		From:            at - 2,
		To:              at + 3,
		Filename:        fmt.Sprintf("[Mock] Episode %02d.mkv", episode),
		Episode:         &episode,
		Title:           domain.StructuredTitle("モック", "Mock", "Mock"),
		MalID:           &malID,
		PreviewImageURL: fmt.Sprintf("https://media.example.invalid/image/%x.jpg?t=%d", hash[:4], int(at)),
		PreviewVideoURL: fmt.Sprintf("https://media.example.invalid/video/%x.mp4?t=%d", hash[:4], int(at)),
	}
	if top.From < 0 {
		top.From = 0
	}

	second := domain.Match{
		Similarity: similarity - 0.2,
		At:         at / 2,
		From:       at / 2,
		To:         at / 2,
		Filename:   "[Mock] Special.mkv",
		Title:      domain.BareTitleID(int64(seed % 100000)),
	}

	return &domain.SearchResult{
		Matches:    []domain.Match{top, second},
		FrameCount: mockFrameCount,
	}, nil
}

// Quota retorna uma cota fixa de convidado
func (p *Provider) Quota(ctx context.Context) (*domain.QuotaInfo, error) {
	return &domain.QuotaInfo{
		AccountID:   "127.0.0.1",
		Priority:    0,
		Concurrency: 1,
		Quota:       mockQuota,
		QuotaUsed:   42,
	}, nil
}

// FetchImage devolve bytes derivados da URL (sem acesso à rede)
func (p *Provider) FetchImage(ctx context.Context, url string) ([]byte, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, domain.ErrNoImage
	}
	hash := sha256.Sum256([]byte(url))
	return hash[:], nil
}

// Close é no-op para o mock
func (p *Provider) Close() error {
	return nil
}

var _ provider.SceneProvider = (*Provider)(nil)
