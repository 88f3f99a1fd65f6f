package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy <pod-type>",
	Short: "Deploy a new pod on the cheapest affordable GPU",
	Long: `Deploy a new pod of the given type.

The current GPU catalog is fetched from the marketplace, filtered to
types priced under the configured ceiling and tried cheapest first.
A GPU type without capacity advances to the next candidate; a more
expensive GPU is only used after every cheaper one was rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := newManager()
		if err != nil {
			return err
		}

		res := manager.Deploy(cmd.Context(), args[0])
		if !res.OK {
			return fmt.Errorf("%s", res.Message)
		}
		if verbose {
			fmt.Println(res.Message)
		} else if res.Pod != nil {
			fmt.Println(res.Pod.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
