package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <pod-type>",
	Short: "Show the current status of the pod of the given type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := newManager()
		if err != nil {
			return err
		}

		podType := args[0]
		res := manager.Status(cmd.Context(), podType)
		if !res.OK {
			return fmt.Errorf("%s", res.Message)
		}

		fmt.Printf("POD_TYPE=%s\n", podType)
		if res.Pod != nil {
			fmt.Printf("POD_ID=%s\n", res.Pod.ID)
			fmt.Printf("POD_URL=%s\n", res.Pod.ProxyURL())
		}
		fmt.Printf("POD_STATUS=%s\n", res.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
