package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gpusCmd = &cobra.Command{
	Use:   "gpus",
	Short: "List available GPU types with current spot prices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cfg, err := newManager()
		if err != nil {
			return err
		}

		catalog, candidates, err := manager.ListGPUs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list GPUs: %w", err)
		}

		affordable := make(map[string]bool, len(candidates))
		for _, c := range candidates {
			affordable[c.TypeID] = true
		}

		fmt.Println("=== Available GPUs with Spot Prices ===")
		for i, gpu := range catalog {
			fmt.Printf("%2d. %s\n", i+1, gpu.DisplayName)
			fmt.Printf("    ID: %s\n", gpu.ID)
			if gpu.CommunitySpotPrice != nil {
				fmt.Printf("    Community Spot: $%.3f/hr\n", *gpu.CommunitySpotPrice)
			} else {
				fmt.Println("    Community Spot: N/A")
			}
			if gpu.SecureSpotPrice != nil {
				fmt.Printf("    Secure Spot: $%.3f/hr\n", *gpu.SecureSpotPrice)
			} else {
				fmt.Println("    Secure Spot: N/A")
			}
			if affordable[gpu.ID] {
				fmt.Printf("    Affordable under $%.2f/hr ceiling\n", cfg.MaxGPUPrice)
			}
			fmt.Println()
		}
		fmt.Printf("%d of %d GPU types under $%.2f/hr\n", len(candidates), len(catalog), cfg.MaxGPUPrice)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gpusCmd)
}
