package cli

import (
	"fmt"

	"github.com/mlakeland/timeblock/internal/keyring"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	fmt.Println("Storage initialized with default settings.")

	if !keyring.IsAvailable() {
		fmt.Println("Warning: OS keyring unavailable; 'timeblock auth set' will not work on this system.")
	} else {
		fmt.Println("Next: store provider secrets with 'timeblock auth set todoist|openai|google'.")
	}
	return nil
}
