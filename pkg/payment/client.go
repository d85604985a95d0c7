package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/foodorders/pkg/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Quote is what the payment service answers with: the QR code to display and
// the payment status it opened the charge in. It is returned to the caller
// verbatim and never persisted.
type Quote struct {
	ExternalID string          `json:"external_id"`
	Status     string          `json:"status"`
	Value      decimal.Decimal `json:"value"`
	QRCode     string          `json:"qrcode"`
}

type qrRequest struct {
	ExternalID string          `json:"external_id"`
	Value      decimal.Decimal `json:"value"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.PaymentConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GenerateQR asks the payment service to open a charge for the cart and
// returns its QR quote. Any transport failure or non-2xx answer is an error;
// there is no retry here.
func (c *Client) GenerateQR(ctx context.Context, externalID string, value decimal.Decimal) (*Quote, error) {
	body, err := json.Marshal(qrRequest{ExternalID: externalID, Value: value})
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/qrcode", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build qr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("Payment service rejected qr request",
			zap.String("external_id", externalID),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode qr response: %w", err)
	}
	return &quote, nil
}
