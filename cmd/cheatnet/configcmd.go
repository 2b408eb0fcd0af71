package main

import (
	"fmt"

	"github.com/NethermindEth/juno-cheatnet/cheatnet"
	"github.com/spf13/cobra"
)

func ConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func CheatcodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cheatcodes",
		Short: "List the cheatcodes understood by the runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range cheatnet.Cheatcodes() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
