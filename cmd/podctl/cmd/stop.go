package cmd

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <pod-type>",
	Short: "Stop the pod of the given type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := newManager()
		if err != nil {
			return err
		}
		return report(manager.Stop(cmd.Context(), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
