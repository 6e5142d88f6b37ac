package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvDefaults_Overrides(t *testing.T) {
	t.Setenv("GOLDMART_PORT", "8081")
	t.Setenv("GOLDMART_STORE", "memory")
	t.Setenv("GOLDMART_POLL_INTERVAL", "2s")
	t.Setenv("GOLDMART_LOG_JSON", "false")
	t.Setenv("GOLDMART_PAYMENT_DELAY", "not-a-duration")

	c := EnvDefaults()

	assert.Equal(t, 8081, c.Port)
	assert.Equal(t, "memory", c.StoreDriver)
	assert.Equal(t, 2*time.Second, c.PollInterval)
	assert.False(t, c.LogJSON)
	assert.Equal(t, Default().PaymentDelay, c.PaymentDelay)
}

func TestEnvDefaults_BadPortKeepsDefault(t *testing.T) {
	t.Setenv("GOLDMART_PORT", "abc")
	assert.Equal(t, Default().Port, EnvDefaults().Port)
}
