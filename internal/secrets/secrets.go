package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/shikkq/4eremsha/internal/config"
)

const (
	// KeyringService groups the bot's secrets in the OS keychain.
	KeyringService = "shelterbot"

	AccountVK       = "shelterbot:vk"
	AccountTelegram = "shelterbot:telegram"
)

var ErrNotFound = errors.New("secret not found")

func Get(account string) (string, error) {
	v, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(v) == "") {
		return "", ErrNotFound
	}
	return v, err
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, strings.TrimSpace(value))
}

func Delete(account string) error {
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Resolve fills tokens missing from cfg with keychain values. Tokens set
// in the config file or environment win.
func Resolve(cfg config.Config) config.Config {
	if cfg.VK.Token == "" {
		if v, err := Get(AccountVK); err == nil {
			cfg.VK.Token = v
		}
	}
	if cfg.Telegram.Token == "" {
		if v, err := Get(AccountTelegram); err == nil {
			cfg.Telegram.Token = v
		}
	}
	return cfg
}
