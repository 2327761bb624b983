package cli

import (
	yaml "github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"mlfq/internal/sched"
)

func newParamsCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print scheduler parameters as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sched.LoadParams(file)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(p)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Parameter file to load over the defaults")
	return cmd
}
