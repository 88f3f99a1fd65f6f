package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/efortin/podctl/pkg/config"
	"github.com/efortin/podctl/pkg/lifecycle"
	"github.com/efortin/podctl/pkg/provider/runpod"
)

var (
	projectName string
	configFile  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "podctl",
	Short: "Lifecycle manager for rented GPU pods",
	Long: `podctl manages rented GPU compute pods on a cloud GPU marketplace.

It deploys new pods on the cheapest GPU type available under a price
ceiling, falling back to the next cheapest type when the marketplace
has no capacity, and can start, stop, restart, query and terminate
pods by project and pod type.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion records build information on the root command.
func SetVersion(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&projectName, "project", getEnvOrDefault("PROJECT_NAME", ""), "Project name used for pod naming")
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", getEnvOrDefault("PODCTL_CONFIG", ""), "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// newManager resolves the configuration and builds a lifecycle manager
// backed by the RunPod client.
func newManager(opts ...lifecycle.ManagerOption) (*lifecycle.Manager, *config.Config, error) {
	if projectName == "" {
		return nil, nil, fmt.Errorf("project name is required (--project or PROJECT_NAME)")
	}

	cfg, err := config.Load(projectName, configFile)
	if err != nil {
		return nil, nil, err
	}

	var clientOpts []runpod.Option
	if cfg.APIBaseURL != "" {
		clientOpts = append(clientOpts, runpod.WithBaseURL(cfg.APIBaseURL))
	}
	client := runpod.NewClient(cfg.APIKey, clientOpts...)

	opts = append([]lifecycle.ManagerOption{lifecycle.WithVerbose(verbose)}, opts...)
	manager := lifecycle.NewManager(client, cfg, opts...)
	return manager, cfg, nil
}

// report prints the result in the CLI's concise form (just the final
// status) and converts a failed result into a command error so the
// process exits non-zero.
func report(res lifecycle.Result) error {
	if !res.OK {
		return fmt.Errorf("%s", res.Message)
	}
	if verbose || res.Status == "" {
		fmt.Println(res.Message)
	} else {
		fmt.Println(res.Status)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
