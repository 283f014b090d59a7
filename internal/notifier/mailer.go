package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"buku-saku-server/config"
)

const defaultAPIURL = "https://api.resend.com/emails"

// HTTPMailer mengirim email lewat HTTP API bergaya Resend.
// Tanpa API key mailer berjalan dalam mode log-only supaya lingkungan
// pengembangan tetap bisa melihat isi email di log.
type HTTPMailer struct {
	apiURL     string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewHTTPMailer(cfg *config.MailConfig) *HTTPMailer {
	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	from := cfg.From
	if from == "" {
		from = "no-reply@buku-saku.local"
	}
	timeout := 10 * time.Second
	if cfg.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.Timeout); err == nil && parsed > 0 {
			timeout = parsed
		}
	}
	return &HTTPMailer{
		apiURL:     apiURL,
		apiKey:     cfg.APIKey,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (m *HTTPMailer) Send(ctx context.Context, to, subject, text string) error {
	if m.apiKey == "" {
		log.Printf("[Mailer] (log-only) to=%s subject=%q: %s", to, subject, text)
		return nil
	}

	payload := sendRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Text:    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gagal serialisasi payload email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("gagal membuat request email: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gagal mengirim email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp sendErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return fmt.Errorf("api email error: %s", errResp.Error.Message)
		}
		return fmt.Errorf("api email error: %s", resp.Status)
	}
	return nil
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type sendErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
