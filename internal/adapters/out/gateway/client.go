// Package gateway is the HTTP client of the external payment provider. It only creates
// gateway orders; settlement is confirmed by signature, never by calling the provider back.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

const (
	DefaultTimeout  = 10 * time.Second
	DefaultCurrency = "INR"

	service = "payment gateway"
)

type Config struct {
	BaseURL  string
	KeyID    string
	Secret   string
	Currency string
	Timeout  time.Duration
	HTTP     *http.Client
}

// Client implements ports.PaymentGateway over the provider's REST API.
type Client struct {
	baseURL  string
	keyID    string
	secret   string
	currency string
	http     *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errs.NewValueIsRequiredError("gateway base url")
	}
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.Secret) == "" {
		return nil, errs.NewValueIsRequiredError("gateway credentials")
	}

	hc := cfg.HTTP
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		keyID:    cfg.KeyID,
		secret:   cfg.Secret,
		currency: currency,
		http:     hc,
	}, nil
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers amount with the provider. The amount goes over the wire in minor
// currency units (paise). Transport failures, timeouts and 5xx answers are reported as
// errs.ErrUpstreamUnavailable; a 4xx means the request itself was rejected.
func (c *Client) CreateOrder(ctx context.Context, receipt string, amount kernel.Money) (string, error) {
	if err := amount.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(createOrderRequest{
		Amount:   amount.Decimal().Shift(2).Round(0).IntPart(),
		Currency: c.currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errs.NewUpstreamUnavailableError(service, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewUpstreamUnavailableError(service, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", errs.NewUpstreamUnavailableError(service, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		var apiErr errorResponse
		_ = json.Unmarshal(payload, &apiErr)
		return "", errs.NewValueIsInvalidErrorWithCause("gateway order",
			fmt.Errorf("status %d: %s %s", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Description))
	}

	var out createOrderResponse
	if err = json.Unmarshal(payload, &out); err != nil {
		return "", errs.NewUpstreamUnavailableError(service, err)
	}
	if out.ID == "" {
		return "", errs.NewUpstreamUnavailableError(service, errors.New("response carries no order id"))
	}
	return out.ID, nil
}
