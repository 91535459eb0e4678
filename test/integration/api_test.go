// Package integration provides end-to-end tests for the webhook relay.
// Tests exercise the full pipeline against a live PostgreSQL database with
// the Sarvam and WhatsApp providers replaced by local test servers.
//
// The database DSN is read from VOICERELAY_TEST_POSTGRES_DSN; tests are
// skipped when it is unset.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapas/voicerelay/internal/app"
	"github.com/wapas/voicerelay/internal/config"
	"github.com/wapas/voicerelay/internal/shopify"
)

const (
	testWebhookSecret  = "shpss_integration_secret"
	testWhatsAppPhone  = "123456789012345"
	testWhatsAppAPIVer = "v17.0"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// postgresTestDSN returns the test database DSN or skips the test.
func postgresTestDSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("VOICERELAY_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("VOICERELAY_TEST_POSTGRES_DSN not set, skipping integration test")
	}
	return dsn
}

// fakeProviders bundles the local stand-ins for the external APIs.
type fakeProviders struct {
	sarvamServer   *httptest.Server
	whatsappServer *httptest.Server

	synthCalls  atomic.Int64
	uploadCalls atomic.Int64
	sendCalls   atomic.Int64
}

func newFakeProviders(t *testing.T) *fakeProviders {
	t.Helper()

	p := &fakeProviders{}

	p.sarvamServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.synthCalls.Add(1)

		if r.Header.Get("api-subscription-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		audio := base64.StdEncoding.EncodeToString([]byte("fake mp3 bytes"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"audios":[%q]}`, audio)
	}))
	t.Cleanup(p.sarvamServer.Close)

	mux := http.NewServeMux()
	mux.HandleFunc(
		fmt.Sprintf("/%s/%s/media", testWhatsAppAPIVer, testWhatsAppPhone),
		func(w http.ResponseWriter, r *http.Request) {
			p.uploadCalls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"media-id-1"}`)
		},
	)
	mux.HandleFunc(
		fmt.Sprintf("/%s/%s/messages", testWhatsAppAPIVer, testWhatsAppPhone),
		func(w http.ResponseWriter, r *http.Request) {
			p.sendCalls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"messages":[{"id":"wamid.test1"}]}`)
		},
	)
	p.whatsappServer = httptest.NewServer(mux)
	t.Cleanup(p.whatsappServer.Close)

	return p
}

// testContext holds the assembled application and its backing resources.
type testContext struct {
	container *app.Container
	db        *sql.DB
	server    *httptest.Server
	providers *fakeProviders
}

func setupTestContext(t *testing.T) *testContext {
	t.Helper()

	dsn := postgresTestDSN(t)
	providers := newFakeProviders(t)

	m, err := migrate.New("file://../../migrations/postgresql", dsn)
	require.NoError(t, err, "failed to create migrate instance")
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to run migrations: %v", err)
	}
	_, _ = m.Close()

	cfg := &config.Config{
		ServerHost:            "localhost",
		ServerPort:            0,
		DBDriver:              "postgres",
		DBConnectionString:    dsn,
		DBMaxOpenConnections:  5,
		DBMaxIdleConnections:  2,
		DBConnMaxLifetime:     time.Minute,
		LogLevel:              "error",
		ShopifyWebhookSecret:  testWebhookSecret,
		SarvamAPIURL:          providers.sarvamServer.URL,
		SarvamAPIKey:          "test-api-key",
		SarvamSpeaker:         "manisha",
		SarvamAudioCodec:      "mp3",
		SarvamTimeout:         5 * time.Second,
		WhatsAppBaseURL:       providers.whatsappServer.URL,
		WhatsAppAPIVersion:    testWhatsAppAPIVer,
		WhatsAppPhoneID:       testWhatsAppPhone,
		WhatsAppToken:         "test-token",
		WhatsAppUploadTimeout: 5 * time.Second,
		WhatsAppSendTimeout:   5 * time.Second,
		DefaultLanguage:       "hi-IN",
		AudioStoreURL:         "mem://",
		MetricsNamespace:      "voicerelay",
	}

	ctx := context.Background()
	container := app.NewContainer(cfg)

	db, err := container.DB()
	require.NoError(t, err, "failed to connect to test database")

	_, err = db.ExecContext(ctx, "TRUNCATE TABLE recoveries")
	require.NoError(t, err, "failed to truncate recoveries table")

	httpServer, err := container.HTTPServer(ctx)
	require.NoError(t, err, "failed to build http server")

	server := httptest.NewServer(httpServer.GetHandler())
	t.Cleanup(server.Close)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = container.Shutdown(shutdownCtx)
	})

	return &testContext{
		container: container,
		db:        db,
		server:    server,
		providers: providers,
	}
}

// checkoutPayload builds an abandoned checkout body in the Shopify shape.
func checkoutPayload(checkoutID, phone string) map[string]interface{} {
	payload := map[string]interface{}{
		"id":                     json.Number(checkoutID),
		"total_price":            "2499.00",
		"currency":               "INR",
		"abandoned_checkout_url": "https://shop.example.com/checkouts/" + checkoutID + "/recover",
		"customer": map[string]interface{}{
			"first_name": "Meena",
			"phone":      phone,
		},
		"shipping_address": map[string]interface{}{
			"province": "Tamil Nadu",
			"phone":    phone,
		},
	}
	return payload
}

// postWebhook signs and posts a checkout payload to the webhook endpoint.
func (tc *testContext) postWebhook(t *testing.T, payload map[string]interface{}, sign bool) (*http.Response, string) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err, "failed to marshal payload")

	req, err := http.NewRequest(http.MethodPost, tc.server.URL+"/webhooks/shopify/checkout", bytes.NewReader(body))
	require.NoError(t, err, "failed to create request")
	req.Header.Set("Content-Type", "application/json")
	if sign {
		req.Header.Set("X-Shopify-Hmac-Sha256", shopify.ComputeSignature(body, testWebhookSecret))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	_ = resp.Body.Close()

	return resp, string(respBody)
}

func TestWebhookPipeline_EndToEnd(t *testing.T) {
	tc := setupTestContext(t)

	t.Run("delivers audio and records sent attempt", func(t *testing.T) {
		resp, body := tc.postWebhook(t, checkoutPayload("35561110863907", "+91 98765 43210"), true)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Processed", body)
		assert.Equal(t, int64(1), tc.providers.synthCalls.Load())
		assert.Equal(t, int64(1), tc.providers.uploadCalls.Load())
		assert.Equal(t, int64(1), tc.providers.sendCalls.Load())

		var status, phone string
		var audioURL sql.NullString
		err := tc.db.QueryRow(
			"SELECT status, customer_phone, audio_url FROM recoveries WHERE shopify_checkout_id = $1",
			"35561110863907",
		).Scan(&status, &phone, &audioURL)
		require.NoError(t, err, "expected a recovery attempt row")
		assert.Equal(t, "sent", status)
		assert.Equal(t, "919876543210", phone)
		assert.True(t, audioURL.Valid, "expected an archived audio reference")
	})

	t.Run("suppresses duplicate checkout", func(t *testing.T) {
		resp, body := tc.postWebhook(t, checkoutPayload("35561110863907", "+91 98765 43210"), true)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Duplicate suppressed", body)
		assert.Equal(t, int64(1), tc.providers.synthCalls.Load(), "duplicate must not re-synthesize")

		var count int
		err := tc.db.QueryRow(
			"SELECT COUNT(*) FROM recoveries WHERE shopify_checkout_id = $1",
			"35561110863907",
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("acknowledges checkout without phone", func(t *testing.T) {
		payload := checkoutPayload("35561110900001", "")
		payload["customer"] = map[string]interface{}{"first_name": "Meena"}
		payload["shipping_address"] = map[string]interface{}{"province": "Kerala"}

		resp, body := tc.postWebhook(t, payload, true)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "No phone number", body)
	})

	t.Run("rejects unsigned request", func(t *testing.T) {
		resp, body := tc.postWebhook(t, checkoutPayload("35561110900002", "+91 91234 56789"), false)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized", body)

		var count int
		err := tc.db.QueryRow(
			"SELECT COUNT(*) FROM recoveries WHERE shopify_checkout_id = $1",
			"35561110900002",
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count, "unsigned requests must not reach the pipeline")
	})

	t.Run("health and readiness respond", func(t *testing.T) {
		resp, err := http.Get(tc.server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp2, err := http.Get(tc.server.URL + "/ready")
		require.NoError(t, err)
		defer resp2.Body.Close()
		assert.Equal(t, http.StatusOK, resp2.StatusCode)
	})
}
