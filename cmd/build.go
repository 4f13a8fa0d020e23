package cmd

import (
	"github.com/spf13/cobra"

	patchwork "github.com/mumoshu/patchwork/pkg"
)

func BuildCmd(app *patchwork.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Apply the patch, run the build tool against the tree, then revert the tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := definitions(app)
			if err != nil {
				return err
			}

			_, err = app.RunPipelineFromDefs(defs, "build")
			return err
		},
	}
}
