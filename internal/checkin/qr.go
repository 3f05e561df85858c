package checkin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	remoteTimeout = 30 * time.Second
	qrSize        = 300
)

// QRProvider renders check-in tokens as QR PNGs. A configured remote render
// service is preferred; local generation is the fallback so a render outage
// never blocks check-in.
type QRProvider struct {
	serviceURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewQRProvider builds a provider. serviceURL may be empty to always render
// locally.
func NewQRProvider(serviceURL string, logger *zap.Logger) *QRProvider {
	return &QRProvider{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: remoteTimeout},
		logger:     logger,
	}
}

// PNG renders the payload as a QR code image.
func (p *QRProvider) PNG(ctx context.Context, payload string) ([]byte, error) {
	if p.serviceURL != "" {
		png, err := p.fetchRemote(ctx, payload)
		if err == nil {
			return png, nil
		}
		p.logger.Warn("remote QR render failed, falling back to local", zap.Error(err))
	}
	return qrcode.Encode(payload, qrcode.Medium, qrSize)
}

func (p *QRProvider) fetchRemote(ctx context.Context, payload string) ([]byte, error) {
	u, err := url.Parse(p.serviceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid QR service URL: %w", err)
	}
	q := u.Query()
	q.Set("data", payload)
	q.Set("size", fmt.Sprintf("%dx%d", qrSize, qrSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("QR service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("QR service returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
