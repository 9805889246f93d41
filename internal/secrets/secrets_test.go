package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/shikkq/4eremsha/internal/config"
)

func TestSetGetDelete(t *testing.T) {
	keyring.MockInit()

	_, err := Get(AccountVK)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Set(AccountVK, "  vk1.a.token  "))
	v, err := Get(AccountVK)
	require.NoError(t, err)
	assert.Equal(t, "vk1.a.token", v)

	require.NoError(t, Delete(AccountVK))
	assert.ErrorIs(t, Delete(AccountVK), ErrNotFound)

	assert.Error(t, Set(AccountVK, " "))
	assert.Error(t, Set("", "x"))
}

func TestResolve(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, Set(AccountVK, "from-keyring"))
	require.NoError(t, Set(AccountTelegram, "tg-from-keyring"))

	cfg := config.Default()
	cfg.Telegram.Token = "from-env"

	got := Resolve(cfg)
	assert.Equal(t, "from-keyring", got.VK.Token)
	assert.Equal(t, "from-env", got.Telegram.Token)
	assert.Empty(t, cfg.VK.Token)
}
