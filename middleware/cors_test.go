package middleware

import (
	"testing"

	"localserve/config"

	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/stretchr/testify/assert"
)

func TestCORSConfig_WildcardOriginDropsCredentials(t *testing.T) {
	cfg := &config.Config{FrontendURL: "*"}

	corsCfg := CORSConfig(cfg)
	assert.False(t, corsCfg.AllowCredentials)

	// Fiber panics on wildcard + credentials; the default env must boot.
	assert.NotPanics(t, func() { cors.New(corsCfg) })
}

func TestCORSConfig_ConcreteOriginKeepsCredentials(t *testing.T) {
	cfg := &config.Config{FrontendURL: "https://app.example.com"}

	corsCfg := CORSConfig(cfg)
	assert.True(t, corsCfg.AllowCredentials)
	assert.Equal(t, "https://app.example.com", corsCfg.AllowOrigins)
	assert.NotPanics(t, func() { cors.New(corsCfg) })
}
