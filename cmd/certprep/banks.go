package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mind-engage/certprep/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "Inspect and validate question banks",
}

var banksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the builtin tracks and PBQs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := bank.Builtin()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TRACK\tPROFILE\tQUESTIONS")
		for _, t := range c.Tracks() {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Key, t.Profile, len(t.Questions))
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "PBQ\tKIND\tID\tTITLE")
		for _, p := range c.PBQs() {
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\n", p.Number, p.Kind, p.ID, p.Title)
		}
		fmt.Fprintf(tw, "\n%d acronyms\n", len(c.Acronyms()))
		return tw.Flush()
	},
}

var banksValidateCmd = &cobra.Command{
	Use:   "validate <pack.json>...",
	Short: "Validate pack files against the bank schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err == nil {
				_, err = bank.DecodePack(raw)
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d packs invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	banksCmd.AddCommand(banksListCmd, banksValidateCmd)
}
