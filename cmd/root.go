package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sshportal",
	Short: "SSH connection and file transfer shortcuts",
	Long: `sshportal keeps short aliases for SSH hosts and filesystem paths and
uses them to build ssh and scp invocations, so connecting and copying
never means retyping full connection strings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.config/sshportal/config.json)")
}
