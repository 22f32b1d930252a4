// Package gateway wraps the Flutterwave v3 REST API. Only the three calls
// the checkout flow needs are implemented: hosted-payment initialization,
// verification by reference and refunds.
package gateway

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/munyanyaguo/Hisi-Studio/config"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
)

// Flutterwave transaction statuses as reported by the gateway.
const (
	GatewayStatusSuccessful = "successful"
	GatewayStatusFailed     = "failed"
	GatewayStatusPending    = "pending"
)

type FlutterwaveClient struct {
	baseURL    string
	secretKey  string
	secretHash string
	logoURL    string
	httpClient *http.Client
}

func NewFlutterwaveClient(cfg config.FlutterwaveConfig) *FlutterwaveClient {
	return &FlutterwaveClient{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		secretHash: cfg.SecretHash,
		logoURL:    cfg.SiteLogoURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Customer identifies the paying customer to the gateway.
type Customer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber,omitempty"`
	Name        string `json:"name,omitempty"`
}

// InitializeRequest is the hosted-payment-page initialization payload.
type InitializeRequest struct {
	TxRef          string            `json:"tx_ref"`
	Amount         string            `json:"amount"`
	Currency       string            `json:"currency"`
	RedirectURL    string            `json:"redirect_url"`
	Customer       Customer          `json:"customer"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
}

// InitializeResponse carries the hosted payment link back to the caller.
type InitializeResponse struct {
	PaymentLink string
}

// Transaction is the verified gateway-side view of a payment.
type Transaction struct {
	ID            int64   `json:"id"`
	TxRef         string  `json:"tx_ref"`
	FlwRef        string  `json:"flw_ref"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	ChargedAmount float64 `json:"charged_amount"`
	Status        string  `json:"status"`
	PaymentType   string  `json:"payment_type"`
	CustomerEmail string  `json:"-"`
}

type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializePayment creates a hosted payment session and returns its link.
func (c *FlutterwaveClient) InitializePayment(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	if req.Customizations == nil {
		req.Customizations = map[string]string{
			"title": "Hisi Studio",
			"logo":  c.logoURL,
		}
	}

	var data struct {
		Link string `json:"link"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments", req, &data); err != nil {
		return nil, err
	}
	if data.Link == "" {
		return nil, e.External("payment gateway returned no payment link", nil)
	}
	return &InitializeResponse{PaymentLink: data.Link}, nil
}

// VerifyByReference fetches the authoritative transaction state for a
// tx_ref. Verification always re-asks the gateway; redirect query params
// are never trusted.
func (c *FlutterwaveClient) VerifyByReference(ctx context.Context, txRef string) (*Transaction, error) {
	path := "/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(txRef)

	var data struct {
		Transaction
		Customer Customer `json:"customer"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}

	tx := data.Transaction
	tx.CustomerEmail = data.Customer.Email
	return &tx, nil
}

// Refund issues a refund against the gateway transaction id. A zero
// amount refunds in full.
func (c *FlutterwaveClient) Refund(ctx context.Context, gatewayTxID int64, amount float64) error {
	body := map[string]interface{}{}
	if amount > 0 {
		body["amount"] = amount
	}
	path := fmt.Sprintf("/transactions/%d/refund", gatewayTxID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// VerifyWebhookSignature compares the verif-hash header against the
// configured secret hash in constant time.
func (c *FlutterwaveClient) VerifyWebhookSignature(signature string) bool {
	if c.secretHash == "" || signature == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signature), []byte(c.secretHash)) == 1
}

// do executes one API call and decodes the envelope's data field into out.
func (c *FlutterwaveClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return e.Internal(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return e.Internal(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return e.External("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return e.External("failed to read payment gateway response", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return e.External(fmt.Sprintf("unexpected payment gateway response (http %d)", resp.StatusCode), err)
	}

	if resp.StatusCode >= 400 || envelope.Status != "success" {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("payment gateway error (http %d)", resp.StatusCode)
		}
		return e.External(msg, nil)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return e.External("malformed payment gateway data", err)
		}
	}
	return nil
}
