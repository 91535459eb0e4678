// Package whatsapp provides a client for the WhatsApp Business (Graph) API.
//
// Sending a voice note is a two-step protocol: the audio bytes are first
// uploaded to the media endpoint, then a message referencing the returned
// media id is posted to the messages endpoint. The upload step gets a longer
// timeout since it carries the payload.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	apperrors "github.com/wapas/voicerelay/internal/errors"
)

// Config holds the WhatsApp client configuration.
type Config struct {
	BaseURL       string
	APIVersion    string
	PhoneID       string
	Token         string
	UploadTimeout time.Duration
	SendTimeout   time.Duration
}

// Client talks to the WhatsApp Business API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a WhatsApp client. Per-step deadlines are applied through
// request contexts, so the underlying HTTP client carries no timeout itself.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type uploadResponse struct {
	ID string `json:"id"`
}

type sendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Audio            *mediaRef    `json:"audio,omitempty"`
	Text             *textPayload `json:"text,omitempty"`
}

type mediaRef struct {
	ID string `json:"id"`
}

type textPayload struct {
	Body string `json:"body"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SendAudio uploads audio bytes and sends them as a voice message to the
// recipient. The message id of the delivered message is returned. If the
// upload fails the send step is never attempted.
func (c *Client) SendAudio(ctx context.Context, to string, audio []byte) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	mediaID, err := c.uploadMedia(ctx, audio)
	if err != nil {
		return "", err
	}

	c.logger.Info("media uploaded", slog.String("media_id", mediaID))

	return c.sendMessage(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "audio",
		Audio:            &mediaRef{ID: mediaID},
	}, c.cfg.SendTimeout)
}

// SendText sends a plain text message to the recipient and returns the
// message id.
func (c *Client) SendText(ctx context.Context, to, text string) (string, error) {
	if err := c.checkCredentials(); err != nil {
		return "", err
	}

	return c.sendMessage(ctx, sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             &textPayload{Body: text},
	}, c.cfg.SendTimeout)
}

// checkCredentials short-circuits before any network call when the phone id
// or token is unset.
func (c *Client) checkCredentials() error {
	if c.cfg.PhoneID == "" || c.cfg.Token == "" {
		return apperrors.Wrap(apperrors.ErrUnavailable, "whatsapp credentials not configured")
	}
	return nil
}

// uploadMedia performs the multipart upload of audio bytes to the media
// endpoint and returns the media id.
func (c *Client) uploadMedia(ctx context.Context, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "voice.mp3")
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create multipart file")
	}
	if _, err := part.Write(audio); err != nil {
		return "", apperrors.Wrap(err, "failed to write audio to multipart body")
	}
	if err := writer.WriteField("type", "audio/mpeg"); err != nil {
		return "", apperrors.Wrap(err, "failed to write multipart field")
	}
	if err := writer.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", apperrors.Wrap(err, "failed to write multipart field")
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Wrap(err, "failed to finalize multipart body")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.UploadTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/%s/media", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create upload request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do(req, "media upload")
	if err != nil {
		return "", err
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", apperrors.Wrap(err, "failed to decode upload response")
	}
	if out.ID == "" {
		return "", apperrors.Wrap(apperrors.ErrUnavailable, "media upload returned no id")
	}

	return out.ID, nil
}

// sendMessage posts a message to the messages endpoint and returns the
// message id.
func (c *Client) sendMessage(ctx context.Context, msg sendRequest, timeout time.Duration) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal message")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/%s/messages", c.cfg.BaseURL, c.cfg.APIVersion, c.cfg.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to create send request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "message send")
	if err != nil {
		return "", err
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", apperrors.Wrap(err, "failed to decode send response")
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return "", apperrors.Wrap(apperrors.ErrUnavailable, "message send returned no message id")
	}

	c.logger.Info("whatsapp message sent",
		slog.String("type", msg.Type),
		slog.String("message_id", out.Messages[0].ID),
	)

	return out.Messages[0].ID, nil
}

// do executes the request and returns the response body, mapping transport
// errors and non-2xx statuses to ErrUnavailable with the provider's error
// message when present.
func (c *Client) do(req *http.Request, step string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("whatsapp request failed",
			slog.String("step", step),
			slog.Any("error", err),
		)
		return nil, apperrors.Wrap(err, "whatsapp "+step+" failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read whatsapp response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := extractErrorMessage(body, resp.StatusCode)
		c.logger.Error("whatsapp call failed",
			slog.String("step", step),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, msg)
	}

	return body, nil
}

// extractErrorMessage prefers the Graph API's structured error message and
// falls back to the HTTP status.
func extractErrorMessage(body []byte, statusCode int) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return fmt.Sprintf("whatsapp responded with status %d", statusCode)
}
