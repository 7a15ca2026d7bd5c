package tracking

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// HTTPSink POSTs each event as JSON to an endpoint. With a secret set, the
// body is signed: X-Calypso-Signature = sha256=hex(HMAC(secret, ts "." body)).
type HTTPSink struct {
	URL    string
	Secret string
	Client *http.Client
}

// NewHTTPSink returns a sink posting to url
func NewHTTPSink(url, secret string) *HTTPSink {
	return &HTTPSink{URL: url, Secret: secret, Client: &http.Client{Timeout: 10 * time.Second}}
}

// Record delivers e and succeeds on any 2xx response
func (s *HTTPSink) Record(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "calypso-tracks/1")

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Calypso-Timestamp", ts)
	if s.Secret != "" {
		req.Header.Set("X-Calypso-Signature", "sha256="+Sign(s.Secret, ts, body))
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: status %d", s.URL, resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of "ts.body" under secret
func Sign(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
