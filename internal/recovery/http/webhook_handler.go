// Package http provides the Shopify webhook endpoint for abandoned-checkout
// events. Bodies are plain text because Shopify only inspects status codes;
// the text is there for operators reading delivery logs.
package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wapas/voicerelay/internal/recovery/http/dto"
	recoveryUseCase "github.com/wapas/voicerelay/internal/recovery/usecase"
	"github.com/wapas/voicerelay/internal/shopify"
)

// Response bodies returned to the webhook sender. Non-retryable pipeline
// failures still answer 200 so Shopify does not redeliver the event.
const (
	bodyUnauthorized    = "Unauthorized"
	bodyNoPhone         = "No phone number"
	bodyDuplicate       = "Duplicate suppressed"
	bodySynthesisFailed = "Audio generation failed"
	bodyProcessed       = "Processed"
	bodyInternalError   = "Internal error"
)

// WebhookHandler handles Shopify abandoned-checkout webhook deliveries.
// It verifies the HMAC signature before any payload parsing.
type WebhookHandler struct {
	useCase       recoveryUseCase.UseCase
	webhookSecret string
	logger        *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with required dependencies.
func NewWebhookHandler(
	useCase recoveryUseCase.UseCase,
	webhookSecret string,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		useCase:       useCase,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CheckoutHandler processes one abandoned-checkout delivery.
// POST /webhooks/shopify/checkout
// Returns 401 on signature failure, 200 for every terminal pipeline outcome,
// and 500 only for unexpected internal failures.
func (h *WebhookHandler) CheckoutHandler(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", slog.Any("error", err))
		c.String(http.StatusInternalServerError, bodyInternalError)
		return
	}

	signature := c.GetHeader(shopify.SignatureHeader)
	if !shopify.VerifyWebhookSignature(rawBody, signature, h.webhookSecret) {
		h.logger.Warn("webhook signature verification failed",
			slog.String("remote_addr", c.ClientIP()),
		)
		c.String(http.StatusUnauthorized, bodyUnauthorized)
		return
	}

	var req dto.CheckoutRequest
	if err := json.Unmarshal(rawBody, &req); err != nil {
		h.logger.Error("failed to parse webhook payload", slog.Any("error", err))
		c.String(http.StatusInternalServerError, bodyInternalError)
		return
	}

	outcome, err := h.useCase.ProcessCheckout(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.logger.Error("checkout processing failed", slog.Any("error", err))
		c.String(http.StatusInternalServerError, bodyInternalError)
		return
	}

	c.String(http.StatusOK, responseBody(outcome))
}

// responseBody maps a pipeline outcome to its webhook response body.
// Delivery failures still answer "Processed": the contract with the sender is
// "received", independent of downstream delivery.
func responseBody(outcome recoveryUseCase.Outcome) string {
	switch outcome {
	case recoveryUseCase.OutcomeNoPhone:
		return bodyNoPhone
	case recoveryUseCase.OutcomeDuplicate:
		return bodyDuplicate
	case recoveryUseCase.OutcomeSynthesisFailed:
		return bodySynthesisFailed
	default:
		return bodyProcessed
	}
}
