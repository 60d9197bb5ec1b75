package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mind-engage/certprep/internal/config"
	"github.com/mind-engage/certprep/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Local learner preferences",
}

var prefsNameCmd = &cobra.Command{
	Use:   "name [new-name]",
	Short: "Show or set the display name used in drills",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		p, err := openPrefs(cfg)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := p.SetDisplayName(args[0]); err != nil {
				return err
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.DisplayName())
		return nil
	},
}

func openPrefs(cfg config.Config) (*prefs.Store, error) {
	path := cfg.PrefsPath
	if path == "" {
		var err error
		if path, err = prefs.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return prefs.Open(path)
}

func init() {
	prefsCmd.AddCommand(prefsNameCmd)
}
