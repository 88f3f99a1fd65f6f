package cmd

import (
	"github.com/spf13/cobra"
)

var startDeployNew bool

var startCmd = &cobra.Command{
	Use:   "start <pod-type>",
	Short: "Start the pod of the given type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := newManager()
		if err != nil {
			return err
		}
		return report(manager.Start(cmd.Context(), args[0], startDeployNew))
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVar(&startDeployNew, "deploy-new-if-needed", false, "Deploy a new pod if the current one cannot be started")
}
