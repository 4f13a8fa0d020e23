package cmd

import (
	"github.com/spf13/cobra"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func ExecCmd(app *patchwork.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <pipeline>",
		Short: "Run a pipeline defined in the Patchworkfile by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := definitions(app)
			if err != nil {
				return err
			}

			_, err = app.RunPipelineFromDefs(defs, args[0])
			return err
		},
	}
	return cmd
}
