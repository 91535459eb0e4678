// Package sarvam provides a client for the Sarvam AI text-to-speech API.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/wapas/voicerelay/internal/errors"
	"github.com/wapas/voicerelay/internal/language"
)

// Config holds the Sarvam client configuration.
type Config struct {
	APIURL     string
	APIKey     string
	Speaker    string
	AudioCodec string
	Timeout    time.Duration
}

// Client calls the Sarvam text-to-speech endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Sarvam TTS client. The HTTP client timeout bounds every
// synthesis call.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// synthesizeRequest is the provider wire format. Inputs carries exactly one
// text per call.
type synthesizeRequest struct {
	Inputs             []string `json:"inputs"`
	TargetLanguageCode string   `json:"target_language_code"`
	Speaker            string   `json:"speaker"`
	OutputAudioCodec   string   `json:"output_audio_codec"`
}

type synthesizeResponse struct {
	Audios []string `json:"audios"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Synthesize converts text to audio bytes in the configured codec. The
// provider returns a list of base64-encoded audio strings; the first element
// is decoded and returned. Missing credentials short-circuit before any
// network call.
func (c *Client) Synthesize(ctx context.Context, text string, code language.Code) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, "sarvam api key not configured")
	}

	payload, err := json.Marshal(synthesizeRequest{
		Inputs:             []string{text},
		TargetLanguageCode: string(code),
		Speaker:            c.cfg.Speaker,
		OutputAudioCodec:   c.cfg.AudioCodec,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal synthesis request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create synthesis request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("sarvam tts request failed", slog.Any("error", err))
		return nil, apperrors.Wrap(err, "sarvam request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read sarvam response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractErrorMessage(body, resp.StatusCode)
		c.logger.Error("sarvam tts failed",
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, msg)
	}

	var out synthesizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode sarvam response")
	}

	if len(out.Audios) == 0 {
		c.logger.Error("sarvam tts returned no audio")
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, "sarvam returned empty audio list")
	}

	audio, err := base64.StdEncoding.DecodeString(out.Audios[0])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode audio payload")
	}

	c.logger.Debug("sarvam tts succeeded",
		slog.String("language", string(code)),
		slog.Int("audio_bytes", len(audio)),
	)

	return audio, nil
}

// extractErrorMessage prefers the provider's structured error message and
// falls back to the HTTP status.
func extractErrorMessage(body []byte, statusCode int) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return fmt.Sprintf("sarvam responded with status %d", statusCode)
}
