package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mumoshu/patchwork/version"
)

func VersionCmd(log *logrus.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of this command",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := version.Get()
			switch output {
			case "json":
				bytes, err := json.Marshal(v)
				if err != nil {
					return err
				}
				fmt.Println(string(bytes))
			default:
				fmt.Println(v.Version)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format. One of: json|text")

	return cmd
}
