package cmd

import (
	"github.com/spf13/cobra"
)

var restartDeployNew bool

var restartCmd = &cobra.Command{
	Use:   "restart <pod-type>",
	Short: "Restart the pod of the given type (stop, then start)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := newManager()
		if err != nil {
			return err
		}
		return report(manager.Restart(cmd.Context(), args[0], restartDeployNew))
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)

	restartCmd.Flags().BoolVar(&restartDeployNew, "deploy-new-if-needed", false, "Deploy a new pod if the current one cannot be restarted")
}
