package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// signatureTolerance rejects replayed webhook payloads older than this.
const signatureTolerance = 5 * time.Minute

// Client is the Stripe adapter implementing Provider. The API takes
// form-encoded requests and amounts in minor units (cents).
type Client struct {
	apiKey        string
	webhookSecret string
	baseURL       string
	http          *http.Client

	// now is replaceable in tests for the signature tolerance check.
	now func() time.Time
}

func NewClient(apiKey, webhookSecret, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		http:          &http.Client{Timeout: timeout},
		now:           time.Now,
	}
}

// wire types

type apiIntent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	ClientSecret string `json:"client_secret"`
}

type apiRefund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type apiEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object apiIntent `json:"object"`
	} `json:"data"`
}

func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromMinorUnits(amount int64) float64 {
	return float64(amount) / 100
}

func mapIntentStatus(s string) IntentStatus {
	switch s {
	case "succeeded":
		return IntentStatusSucceeded
	case "canceled", "requires_payment_method":
		// requires_payment_method after a confirm attempt means the
		// charge was declined
		return IntentStatusFailed
	default:
		return IntentStatusPending
	}
}

func (c *Client) CreateIntent(ctx context.Context, amount float64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(toMinorUnits(amount), 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var out apiIntent
	if err := c.do(ctx, http.MethodPost, "/payment_intents", form, &out); err != nil {
		return nil, err
	}

	return &Intent{
		ID:           out.ID,
		Status:       mapIntentStatus(out.Status),
		Amount:       fromMinorUnits(out.Amount),
		Currency:     strings.ToUpper(out.Currency),
		ClientSecret: out.ClientSecret,
	}, nil
}

func (c *Client) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	var out apiIntent
	if err := c.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(intentID), nil, &out); err != nil {
		return nil, err
	}

	return &Intent{
		ID:           out.ID,
		Status:       mapIntentStatus(out.Status),
		Amount:       fromMinorUnits(out.Amount),
		Currency:     strings.ToUpper(out.Currency),
		ClientSecret: out.ClientSecret,
	}, nil
}

func (c *Client) CreateRefund(ctx context.Context, intentID string, amount *float64) (*Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	if amount != nil {
		form.Set("amount", strconv.FormatInt(toMinorUnits(*amount), 10))
	}

	var out apiRefund
	if err := c.do(ctx, http.MethodPost, "/refunds", form, &out); err != nil {
		return nil, err
	}

	return &Refund{
		ID:     out.ID,
		Amount: fromMinorUnits(out.Amount),
		Status: out.Status,
	}, nil
}

// VerifyWebhookSignature authenticates a raw webhook payload against the
// Stripe-Signature header scheme: "t=<unix>,v1=<hex hmac-sha256>" over
// "<t>.<payload>" with the endpoint secret.
func (c *Client) VerifyWebhookSignature(payload []byte, signatureHeader string) (*Event, error) {
	var ts string
	var sigs []string
	for _, part := range strings.Split(signatureHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return nil, fmt.Errorf("malformed signature header: %w", ErrSignature)
	}

	tsUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed signature timestamp: %w", ErrSignature)
	}
	age := c.now().Sub(time.Unix(tsUnix, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return nil, fmt.Errorf("signature timestamp outside tolerance: %w", ErrSignature)
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, sig := range sigs {
		if subtle.ConstantTimeCompare([]byte(expected), []byte(sig)) == 1 {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrSignature
	}

	var ev apiEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", ErrSignature)
	}

	return &Event{
		ID:       ev.ID,
		Type:     ev.Type,
		IntentID: ev.Data.Object.ID,
		Amount:   fromMinorUnits(ev.Data.Object.Amount),
		Currency: strings.ToUpper(ev.Data.Object.Currency),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", ErrUnavailable)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%s %s returned %d: %w", method, path, resp.StatusCode, ErrUnavailable)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, truncate(raw, 200))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
