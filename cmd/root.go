package cmd

import (
	"fmt"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/zubinqayam/zq-portfolio/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "zq-portfolio",
	Short: "Zubin Qayam's portfolio site",
	Long: `Serves the portfolio pages with their contact and newsletter forms,
collects privacy-conscious visit and engagement statistics, and offers
helpers to build contact links and validate form input from the shell.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file path")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
