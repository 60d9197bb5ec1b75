package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mind-engage/certprep/internal/config"
	"github.com/mind-engage/certprep/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "certprep",
	Short:         "CompTIA and LPI exam preparation",
	Long:          "certprep serves question banks, PBQ exercises and the attempt recorder, and runs drills in the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Directory containing certprep.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(adminCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var paths []string
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		paths = append(paths, p)
	}
	return config.Load(paths...)
}

func newLogger(cfg config.Config) *zap.Logger {
	log, err := logging.New(cfg.Env)
	if err != nil {
		return zap.NewNop()
	}
	return log
}
