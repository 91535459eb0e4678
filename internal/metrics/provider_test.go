package metrics

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("voicerelay")

	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.NotNil(t, provider.meterProvider)
	assert.NotNil(t, provider.exporter)
	assert.NotNil(t, provider.registry)
	assert.NotNil(t, provider.MeterProvider())
}

func TestProviderHandlerServesExposition(t *testing.T) {
	provider, err := NewProvider("voicerelay")
	require.NoError(t, err)

	meter := provider.MeterProvider().Meter("voicerelay")
	counter, err := meter.Int64Counter("voicerelay_test_events_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	provider.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "voicerelay_test_events_total")
}

func TestProviderShutdown(t *testing.T) {
	t.Run("flushes and stops", func(t *testing.T) {
		provider, err := NewProvider("voicerelay")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("zero provider is safe", func(t *testing.T) {
		var provider Provider
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
