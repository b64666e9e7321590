package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sshportal/internal/config"
	"sshportal/internal/crypto"
	"sshportal/internal/resolve"
)

var (
	hostPort     int
	hostKeyPath  string
	hostPassword string
	hostFilter   string
)

var addHostCmd = &cobra.Command{
	Use:   "add-host <name> <user@host>",
	Short: "Add a new host alias",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, connection := args[0], args[1]

		if !resolve.IsValidConnection(connection) {
			return fmt.Errorf("%w: %q", resolve.ErrInvalidConnection, connection)
		}
		if !resolve.IsValidPort(hostPort) {
			return fmt.Errorf("invalid port: %d", hostPort)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if _, exists := cfg.Hosts[name]; exists {
			pterm.Warning.Printf("Host '%s' already exists\n", name)
			return nil
		}

		host := config.Host{
			Connection: connection,
			Port:       uint16(hostPort),
			KeyPath:    config.ExpandPath(hostKeyPath),
		}
		if hostPassword != "" {
			dir, _ := config.Dir()
			key := crypto.MasterKey(dir)
			if key == "" {
				return fmt.Errorf("cannot store a password without a master key (set SSHPORTAL_MASTER_KEY)")
			}
			enc, err := crypto.Encrypt(hostPassword, key)
			if err != nil {
				return err
			}
			host.Password = enc
		}

		cfg.Hosts[name] = host
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		pterm.Success.Printf("Added host '%s'\n", name)
		return nil
	},
}

var removeHostCmd = &cobra.Command{
	Use:   "remove-host <name>",
	Short: "Remove a host alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if _, exists := cfg.Hosts[name]; !exists {
			return fmt.Errorf("%w: %q", resolve.ErrUnknownHost, name)
		}
		delete(cfg.Hosts, name)
		// Host-scoped paths are meaningless without their host.
		delete(cfg.HostPaths, name)
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		pterm.Success.Printf("Removed host '%s'\n", name)
		return nil
	},
}

// hostRow is the environment a --filter expression runs against, one host
// per evaluation.
type hostRow struct {
	Name       string
	Connection string
	Port       int
	HasKey     bool
}

var listHostsCmd = &cobra.Command{
	Use:   "list-hosts",
	Short: "List configured hosts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if len(cfg.Hosts) == 0 {
			pterm.Info.Println("No hosts configured")
			return nil
		}

		var program *filterProgram
		if hostFilter != "" {
			program, err = compileHostFilter(hostFilter)
			if err != nil {
				return err
			}
		}

		data := pterm.TableData{{"NAME", "CONNECTION", "PORT", "KEY"}}
		for _, name := range sortedKeys(cfg.Hosts) {
			host := cfg.Hosts[name]
			row := hostRow{
				Name:       name,
				Connection: host.Connection,
				Port:       int(host.EffectivePort()),
				HasKey:     host.KeyPath != "",
			}
			if program != nil {
				keep, err := program.match(row)
				if err != nil {
					return err
				}
				if !keep {
					continue
				}
			}
			data = append(data, []string{name, host.Connection, strconv.Itoa(row.Port), host.KeyPath})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(addHostCmd, removeHostCmd, listHostsCmd)
	addHostCmd.Flags().IntVarP(&hostPort, "port", "p", config.DefaultPort, "SSH port")
	addHostCmd.Flags().StringVarP(&hostKeyPath, "identity-file", "i", "", "SSH private key path")
	addHostCmd.Flags().StringVar(&hostPassword, "password", "", "password to store (encrypted) for native transfers")
	listHostsCmd.Flags().StringVarP(&hostFilter, "filter", "f", "", `filter expression, e.g. 'Port != 22 or HasKey'`)
}
