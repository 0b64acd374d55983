package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func rawSig(secret string, ts time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signPayload(secret string, ts time.Time, payload []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), rawSig(secret, ts, payload))
}

func testClient() (*Client, time.Time) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c := NewClient("sk_test", testSecret, "", time.Second)
	c.now = func() time.Time { return now }
	return c, now
}

func successEventPayload() []byte {
	return []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_1", "status": "succeeded", "amount": 34500, "currency": "usd"}}
	}`)
}

func TestVerifyWebhookSignature(t *testing.T) {
	c, now := testClient()
	payload := successEventPayload()

	event, err := c.VerifyWebhookSignature(payload, signPayload(testSecret, now, payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventIntentSucceeded, event.Type)
	assert.Equal(t, "pi_1", event.IntentID)
	assert.Equal(t, 345.00, event.Amount)
	assert.Equal(t, "USD", event.Currency)
}

func TestVerifyWebhookSignatureWrongSecret(t *testing.T) {
	c, now := testClient()
	payload := successEventPayload()

	_, err := c.VerifyWebhookSignature(payload, signPayload("whsec_other", now, payload))
	assert.ErrorIs(t, err, ErrSignature)
}

func TestVerifyWebhookSignatureTamperedPayload(t *testing.T) {
	c, now := testClient()
	payload := successEventPayload()
	header := signPayload(testSecret, now, payload)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '

	_, err := c.VerifyWebhookSignature(tampered, header)
	assert.ErrorIs(t, err, ErrSignature)
}

func TestVerifyWebhookSignatureReplayedTimestamp(t *testing.T) {
	c, now := testClient()
	payload := successEventPayload()

	stale := signPayload(testSecret, now.Add(-10*time.Minute), payload)
	_, err := c.VerifyWebhookSignature(payload, stale)
	assert.ErrorIs(t, err, ErrSignature)
}

func TestVerifyWebhookSignatureMalformedHeader(t *testing.T) {
	c, _ := testClient()
	payload := successEventPayload()

	for _, header := range []string{"", "t=123", "v1=abc", "garbage"} {
		_, err := c.VerifyWebhookSignature(payload, header)
		assert.ErrorIs(t, err, ErrSignature, "header %q", header)
	}
}

func TestVerifyWebhookSignatureMultipleV1(t *testing.T) {
	c, now := testClient()
	payload := successEventPayload()

	// A rotated endpoint sends two v1 entries; one valid one is enough.
	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), rawSig(testSecret, now, payload))

	_, err := c.VerifyWebhookSignature(payload, header)
	assert.NoError(t, err)
}

func TestCreateIntentMinorUnits(t *testing.T) {
	var gotAmount, gotCurrency string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAmount = r.PostForm.Get("amount")
		gotCurrency = r.PostForm.Get("currency")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "pi_1", "status": "requires_confirmation", "amount": 34500, "currency": "usd", "client_secret": "cs_1",
		})
	}))
	defer srv.Close()

	c := NewClient("sk_test", testSecret, srv.URL, time.Second)
	intent, err := c.CreateIntent(t.Context(), 345.00, "USD", map[string]string{"booking_id": "b1"})
	require.NoError(t, err)

	assert.Equal(t, "34500", gotAmount)
	assert.Equal(t, "usd", gotCurrency)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, IntentStatusPending, intent.Status)
	assert.Equal(t, 345.00, intent.Amount)
}

func TestGetIntentStatusMapping(t *testing.T) {
	tests := []struct {
		apiStatus string
		want      IntentStatus
	}{
		{"succeeded", IntentStatusSucceeded},
		{"canceled", IntentStatusFailed},
		{"requires_payment_method", IntentStatusFailed},
		{"processing", IntentStatusPending},
		{"requires_action", IntentStatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.apiStatus, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"id": "pi_1", "status": tc.apiStatus, "amount": 100, "currency": "usd"})
			}))
			defer srv.Close()

			c := NewClient("sk_test", testSecret, srv.URL, time.Second)
			intent, err := c.GetIntent(t.Context(), "pi_1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, intent.Status)
		})
	}
}

func TestServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("sk_test", testSecret, srv.URL, time.Second)
	_, err := c.GetIntent(t.Context(), "pi_1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClientErrorIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "card declined"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test", testSecret, srv.URL, time.Second)
	_, err := c.GetIntent(t.Context(), "pi_1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}
