package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shikkq/4eremsha/internal/secrets"
)

// keyringAccount maps a CLI name to its keychain account.
func keyringAccount(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vk":
		return secrets.AccountVK, nil
	case "telegram", "tg":
		return secrets.AccountTelegram, nil
	default:
		return "", fmt.Errorf("unknown secret %q (want vk or telegram)", name)
	}
}

func newSecretsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Store API tokens in the OS keychain",
	}

	set := &cobra.Command{
		Use:   "set <vk|telegram>",
		Short: "Read a token from stdin and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := keyringAccount(args[0])
			if err != nil {
				return err
			}
			sc := bufio.NewScanner(cmd.InOrStdin())
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return err
				}
				return fmt.Errorf("no token on stdin")
			}
			return secrets.Set(account, sc.Text())
		},
	}

	del := &cobra.Command{
		Use:   "delete <vk|telegram>",
		Short: "Remove a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := keyringAccount(args[0])
			if err != nil {
				return err
			}
			return secrets.Delete(account)
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}
