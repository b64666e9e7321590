package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sshportal/internal/config"
	"sshportal/internal/resolve"
	"sshportal/internal/transport"
)

var connectCmd = &cobra.Command{
	Use:   "connect <host>",
	Short: "Open an SSH session to a configured host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		host, ok := cfg.LookupHost(name)
		if !ok {
			return fmt.Errorf("%w: %q (see 'sshportal list-hosts')", resolve.ErrUnknownHost, name)
		}
		pterm.Info.Printf("Connecting to '%s' (%s)...\n", name, host.Connection)
		return transport.RunSSH(host)
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
