package cmd

import (
	"github.com/spf13/cobra"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func RunCmd(app *patchwork.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Apply the patch, run the tool with the configured positional arguments, then revert the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := definitions(app)
			if err != nil {
				return err
			}

			_, err = app.RunPipelineFromDefs(defs, "run")
			return err
		},
	}
}
