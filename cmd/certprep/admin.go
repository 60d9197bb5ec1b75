package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator utilities",
}

var adminHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Read a password from stdin and print its bcrypt hash for ADMIN_PASS_HASH",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := bufio.NewScanner(cmd.InOrStdin())
		if !sc.Scan() {
			return errors.New("no password on stdin")
		}
		pw := strings.TrimRight(sc.Text(), "\r\n")
		if pw == "" {
			return errors.New("empty password")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(h))
		return nil
	},
}

func init() {
	adminCmd.AddCommand(adminHashCmd)
}
