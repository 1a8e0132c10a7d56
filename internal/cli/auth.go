package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/mlakeland/timeblock/internal/constants"
	"github.com/mlakeland/timeblock/internal/keyring"
)

// keyringNames maps CLI provider names to keyring account names.
var keyringNames = map[string]string{
	"todoist": constants.KeyringTodoistToken,
	"openai":  constants.KeyringOpenAIKey,
	"google":  constants.KeyringGoogleToken,
}

type AuthSetCmd struct {
	Provider string `arg:"" enum:"todoist,openai,google" help:"Provider to store a secret for (todoist, openai, google)."`
	Secret   string `help:"Secret value. Prompted for interactively when omitted."`
}

func (c *AuthSetCmd) Run(ctx *Context) error {
	secret := c.Secret
	if secret == "" {
		prompt := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(fmt.Sprintf("Secret for %s", c.Provider)).
					EchoMode(huh.EchoModePassword).
					Value(&secret),
			),
		)
		if err := prompt.Run(); err != nil {
			return fmt.Errorf("input form error: %w", err)
		}
	}

	if err := keyring.Set(keyringNames[c.Provider], secret); err != nil {
		return err
	}
	fmt.Printf("Stored %s secret in the OS keyring.\n", c.Provider)
	return nil
}

type AuthDeleteCmd struct {
	Provider string `arg:"" enum:"todoist,openai,google" help:"Provider whose secret to delete."`
}

func (c *AuthDeleteCmd) Run(ctx *Context) error {
	if err := keyring.Delete(keyringNames[c.Provider]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s secret from the OS keyring.\n", c.Provider)
	return nil
}
