package cmd

import (
	"github.com/spf13/cobra"
)

var terminateCmd = &cobra.Command{
	Use:   "terminate <pod-type>",
	Short: "Terminate (delete) the pod of the given type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := newManager()
		if err != nil {
			return err
		}
		return report(manager.Terminate(cmd.Context(), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(terminateCmd)
}
