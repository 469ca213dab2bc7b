package services

import (
	"testing"
	"time"

	"github.com/deepgram/mockllm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices(t *testing.T) {
	t.Run("builds services from config", func(t *testing.T) {
		svcs, err := InitializeServices(config.Config{
			JWTSecret:        []byte("secret"),
			TokenLifetime:    time.Hour,
			StreamTokenDelay: 0,
			AuthEnabled:      true,
		})
		require.NoError(t, err)

		assert.NotNil(t, svcs.GetAuthService())
		assert.NotNil(t, svcs.GetCompletionService())
		assert.True(t, svcs.AuthEnabled())
		assert.Equal(t, time.Hour, svcs.GetAuthService().Lifetime())
	})

	t.Run("requires a secret", func(t *testing.T) {
		svcs, err := InitializeServices(config.Config{TokenLifetime: time.Hour})

		assert.Error(t, err)
		assert.Nil(t, svcs)
	})
}
