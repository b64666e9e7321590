package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sshportal/internal/config"
)

// inventoryVersion guards the export format; bump on breaking changes.
const inventoryVersion = 1

// Inventory is the portable YAML envelope for sharing a configuration
// between machines. Encrypted passwords travel as-is and stay encrypted.
type Inventory struct {
	Version    int                                     `yaml:"version"`
	Hosts      map[string]config.Host                  `yaml:"hosts,omitempty"`
	LocalPaths map[string]config.LocalPath             `yaml:"local_paths,omitempty"`
	HostPaths  map[string]map[string]config.RemotePath `yaml:"host_paths,omitempty"`
	Paths      map[string]config.FlatPath              `yaml:"paths,omitempty"`
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export hosts and paths as a YAML inventory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		inv := Inventory{
			Version:    inventoryVersion,
			Hosts:      cfg.Hosts,
			LocalPaths: cfg.LocalPaths,
			HostPaths:  cfg.HostPaths,
			Paths:      cfg.Paths,
		}
		data, err := yaml.Marshal(inv)
		if err != nil {
			return fmt.Errorf("failed to marshal inventory: %w", err)
		}

		if exportOutput == "" {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(config.ExpandPath(exportOutput), data, 0600); err != nil {
			return err
		}
		pterm.Success.Printf("Exported inventory to %s\n", exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a YAML inventory into the configuration",
	Long: `Merges hosts and path aliases from an exported inventory. Entries
whose name is already taken are skipped, never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(config.ExpandPath(args[0]))
		if err != nil {
			return err
		}
		var inv Inventory
		if err := yaml.Unmarshal(data, &inv); err != nil {
			return fmt.Errorf("failed to parse inventory: %w", err)
		}
		if inv.Version > inventoryVersion {
			return fmt.Errorf("inventory version %d is newer than supported version %d", inv.Version, inventoryVersion)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		added := mergeInventory(cfg, inv)

		if err := cfg.Save(configPath); err != nil {
			return err
		}
		pterm.Success.Printf("Imported %d entries\n", added)
		return nil
	},
}

// mergeInventory folds inv into cfg, skipping entries whose name is
// already taken, and returns how many entries were added.
func mergeInventory(cfg *config.Config, inv Inventory) int {
	added := 0
	for name, host := range inv.Hosts {
		if _, exists := cfg.Hosts[name]; exists {
			pterm.Warning.Printf("Host '%s' already exists, skipping\n", name)
			continue
		}
		cfg.Hosts[name] = host
		added++
	}
	for name, p := range inv.LocalPaths {
		if _, exists := cfg.LocalPaths[name]; exists {
			pterm.Warning.Printf("Local path '%s' already exists, skipping\n", name)
			continue
		}
		cfg.LocalPaths[name] = p
		added++
	}
	for hostName, scoped := range inv.HostPaths {
		for name, p := range scoped {
			if existing, ok := cfg.HostPaths[hostName]; ok {
				if _, exists := existing[name]; exists {
					pterm.Warning.Printf("Path '%s' already exists for host '%s', skipping\n", name, hostName)
					continue
				}
			}
			if cfg.HostPaths[hostName] == nil {
				cfg.HostPaths[hostName] = make(map[string]config.RemotePath)
			}
			cfg.HostPaths[hostName][name] = p
			added++
		}
	}
	for name, p := range inv.Paths {
		if _, exists := cfg.Paths[name]; exists {
			pterm.Warning.Printf("Path '%s' already exists, skipping\n", name)
			continue
		}
		if cfg.Paths == nil {
			cfg.Paths = make(map[string]config.FlatPath)
		}
		cfg.Paths[name] = p
		added++
	}
	return added
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the inventory to a file instead of stdout")
}
