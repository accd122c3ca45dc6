package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOT_GENERATOR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "static", cfg.Server.StaticDir)
	assert.Equal(t, 5, cfg.Bot.MaxContextLen)
	assert.Equal(t, 100, cfg.Bot.StorageSize)
	assert.Equal(t, GeneratorAuto, cfg.Bot.Generator)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadServerAddr(t *testing.T) {
	t.Run("bare port", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		cfg, err := loadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
	})

	t.Run("host and port", func(t *testing.T) {
		t.Setenv("PORT", "127.0.0.1:9000")
		cfg, err := loadServerConfig()
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	})

	t.Run("space rejected", func(t *testing.T) {
		t.Setenv("PORT", "90 00")
		_, err := loadServerConfig()
		assert.Error(t, err)
	})
}

func TestLoadBotConfigValidation(t *testing.T) {
	t.Run("context length", func(t *testing.T) {
		t.Setenv("BOT_MAX_CONTEXT_LEN", "0")
		_, err := loadBotConfig()
		assert.ErrorContains(t, err, "BOT_MAX_CONTEXT_LEN")
	})

	t.Run("generator normalized", func(t *testing.T) {
		t.Setenv("BOT_GENERATOR", " Gemini ")
		cfg, err := loadBotConfig()
		require.NoError(t, err)
		assert.Equal(t, GeneratorGemini, cfg.Generator)
	})

	t.Run("unknown generator", func(t *testing.T) {
		t.Setenv("BOT_GENERATOR", "godel")
		_, err := loadBotConfig()
		assert.ErrorContains(t, err, "BOT_GENERATOR")
	})
}

func TestAIConfigEnabled(t *testing.T) {
	assert.False(t, AIConfig{}.Enabled())
	assert.False(t, AIConfig{Model: "m"}.Enabled())
	assert.True(t, AIConfig{Model: "m", APIKey: "k"}.Enabled())
	assert.True(t, AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}.Enabled())
}

func TestLoadClient(t *testing.T) {
	t.Setenv("CHAT_SERVER_URL", "http://chat.local:1234")
	t.Setenv("CHAT_TIMEOUT", "30s")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://chat.local:1234", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	t.Setenv("CHAT_TIMEOUT", "-1s")
	_, err = LoadClient()
	assert.Error(t, err)
}
