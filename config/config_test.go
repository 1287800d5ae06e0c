package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("FRONTEND_URLS", " http://a.test , ,http://b.test")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, getEnvAsList("FRONTEND_URLS", nil))

	t.Setenv("FRONTEND_URLS", "")
	assert.Equal(t, []string{"x"}, getEnvAsList("FRONTEND_URLS", []string{"x"}))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("OUTBOX_INTERVAL", "5s")
	assert.Equal(t, 5*time.Second, getEnvAsDuration("OUTBOX_INTERVAL", time.Minute))

	t.Setenv("OUTBOX_INTERVAL", "bogus")
	assert.Equal(t, time.Minute, getEnvAsDuration("OUTBOX_INTERVAL", time.Minute))
}

func TestIsProduction(t *testing.T) {
	assert.True(t, Config{Environment: "production"}.IsProduction())
	assert.False(t, Config{Environment: "development"}.IsProduction())
}
