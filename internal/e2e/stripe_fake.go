//go:build e2e

package e2e

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// FakeStripe answers payment intent creation the way the Stripe API does and
// signs webhook payloads with the configured secret.
type FakeStripe struct {
	server *httptest.Server
	secret string

	mu      sync.Mutex
	seq     int
	intents map[string]url.Values
}

func newFakeStripe(t *testing.T, secret string) *FakeStripe {
	f := &FakeStripe{secret: secret, intents: make(map[string]url.Values)}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeStripe) URL() string {
	return f.server.URL
}

func (f *FakeStripe) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	body, _ := io.ReadAll(r.Body)
	form, err := url.ParseQuery(string(body))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.seq++
	id := "pi_e2e_" + strconv.Itoa(f.seq)
	f.intents[id] = form
	f.mu.Unlock()

	amount, _ := strconv.ParseInt(form.Get("amount"), 10, 64)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":            id,
		"object":        "payment_intent",
		"amount":        amount,
		"currency":      form.Get("currency"),
		"client_secret": id + "_secret",
	})
}

// Intent returns the form the gateway sent for id.
func (f *FakeStripe) Intent(t *testing.T, id string) url.Values {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	form, ok := f.intents[id]
	require.True(t, ok, "unknown payment intent %s", id)
	return form
}

// SucceededEvent builds a signed payment_intent.succeeded webhook for an
// intent previously created through the gateway.
func (f *FakeStripe) SucceededEvent(t *testing.T, id string) (payload []byte, signature string) {
	t.Helper()
	form := f.Intent(t, id)

	event := map[string]any{
		"id":     "evt_" + id,
		"object": "event",
		"type":   "payment_intent.succeeded",
		"data": map[string]any{
			"object": map[string]any{
				"id":     id,
				"object": "payment_intent",
				"metadata": map[string]string{
					"bookingId":    form.Get("metadata[bookingId]"),
					"targetStatus": form.Get("metadata[targetStatus]"),
				},
			},
		},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload, f.Sign(payload)
}

func (f *FakeStripe) Sign(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(f.secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
