package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"traderscope/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print a default configuration",
	Long: `Print a default configuration as YAML, suitable as a starting point:

  traderscope config > traderscope.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}
