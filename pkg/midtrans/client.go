package midtrans

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/prepkit/payment-service/pkg/httpclient"
)

const (
	snapTransactionsEndpoint = "/snap/v1/transactions"
	statusEndpointFormat     = "/v2/%s/status"
)

type Gateway interface {
	// CreateTransaction opens a Snap payment session. Callers must not retry
	// an ambiguous failure with the same order id: the provider may already
	// hold a session for it.
	CreateTransaction(ctx context.Context, request SnapRequest) (SnapResponse, error)
	// QueryStatus polls the Core API for the current transaction status.
	QueryStatus(ctx context.Context, orderID string) (StatusResponse, error)
	// VerifyNotification authenticates an inbound webhook payload. The
	// returned status always comes from the provider's status endpoint, never
	// from the payload itself.
	VerifyNotification(ctx context.Context, payload []byte) (StatusResponse, error)
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	return &gateway{config: cfg, client: client}
}

func (g *gateway) CreateTransaction(ctx context.Context, request SnapRequest) (SnapResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return SnapResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	resp, err := g.client.Post(ctx, g.config.SnapURL+snapTransactionsEndpoint, &buf, g.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return SnapResponse{}, ErrTimeout
		}

		return SnapResponse{}, ErrUnavailable
	}

	defer resp.Body.Close()

	if resp.StatusCode == 200 || resp.StatusCode == 201 {
		var response SnapResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return SnapResponse{}, fmt.Errorf("decoding error: %w", err)
		}

		return response, nil
	}

	return SnapResponse{}, MapStatusToError(resp.StatusCode)
}

func (g *gateway) QueryStatus(ctx context.Context, orderID string) (StatusResponse, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	url := g.config.CoreURL + fmt.Sprintf(statusEndpointFormat, orderID)

	resp, err := g.client.Get(ctx, url, g.headers())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return StatusResponse{}, ErrTimeout
		}

		return StatusResponse{}, ErrUnavailable
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != 200 {
		return StatusResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response StatusResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return StatusResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	response.Raw = body

	return response, nil
}

func (g *gateway) VerifyNotification(ctx context.Context, payload []byte) (StatusResponse, error) {
	var notification StatusResponse
	if err := json.Unmarshal(payload, &notification); err != nil {
		return StatusResponse{}, ErrInvalidSignature
	}

	if notification.OrderID == "" {
		return StatusResponse{}, ErrInvalidSignature
	}

	if notification.SignatureKey != "" && !g.validSignature(notification) {
		return StatusResponse{}, ErrInvalidSignature
	}

	status, err := g.QueryStatus(ctx, notification.OrderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return StatusResponse{}, ErrInvalidSignature
		}

		return StatusResponse{}, err
	}

	return status, nil
}

// validSignature checks sha512(order_id + status_code + gross_amount + server key).
func (g *gateway) validSignature(n StatusResponse) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + g.config.ServerKey))
	return hex.EncodeToString(sum[:]) == n.SignatureKey
}

func (g *gateway) headers() map[string]string {
	auth := base64.StdEncoding.EncodeToString([]byte(g.config.ServerKey + ":"))
	return map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Authorization": "Basic " + auth,
	}
}
