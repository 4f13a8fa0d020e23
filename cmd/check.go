package cmd

import (
	"github.com/spf13/cobra"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func CheckCmd(app *patchwork.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the checker against its own tree, without touching the patched tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := app.RunChecker()
			return err
		},
	}
}
