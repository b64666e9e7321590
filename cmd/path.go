package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sshportal/internal/config"
	"sshportal/internal/resolve"
)

var (
	pathHost   string
	pathRemote bool
)

var addPathCmd = &cobra.Command{
	Use:   "add-path <name> <path>",
	Short: "Add a path alias",
	Long: `Adds a path alias. Without flags the alias names a local path. With
--host the alias is scoped to that host and only usable as host:name.
--remote creates a legacy unscoped remote alias; prefer --host.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		switch {
		case pathHost != "":
			if _, ok := cfg.LookupHost(pathHost); !ok {
				return fmt.Errorf("%w: %q", resolve.ErrUnknownHost, pathHost)
			}
			scoped := cfg.HostPaths[pathHost]
			if scoped == nil {
				scoped = make(map[string]config.RemotePath)
				cfg.HostPaths[pathHost] = scoped
			}
			if _, exists := scoped[name]; exists {
				pterm.Warning.Printf("Path '%s' already exists for host '%s'\n", name, pathHost)
				return nil
			}
			scoped[name] = config.RemotePath{Path: path}
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			pterm.Success.Printf("Added path '%s' for host '%s'\n", name, pathHost)

		case pathRemote:
			if _, exists := cfg.Paths[name]; exists {
				pterm.Warning.Printf("Path '%s' already exists\n", name)
				return nil
			}
			if cfg.Paths == nil {
				cfg.Paths = make(map[string]config.FlatPath)
			}
			cfg.Paths[name] = config.FlatPath{Path: path, IsRemote: true}
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			pterm.Success.Printf("Added remote path '%s' (unscoped; consider --host)\n", name)

		default:
			if _, exists := cfg.LocalPaths[name]; exists {
				pterm.Warning.Printf("Path '%s' already exists\n", name)
				return nil
			}
			cfg.LocalPaths[name] = config.LocalPath{Path: path}
			if err := cfg.Save(configPath); err != nil {
				return err
			}
			pterm.Success.Printf("Added local path '%s'\n", name)
		}
		return nil
	},
}

var removePathCmd = &cobra.Command{
	Use:   "remove-path <name>",
	Short: "Remove a path alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if pathHost != "" {
			scoped, ok := cfg.HostPaths[pathHost]
			if !ok {
				return fmt.Errorf("%w: %q", resolve.ErrUnknownHost, pathHost)
			}
			if _, exists := scoped[name]; !exists {
				return fmt.Errorf("%w: %q (host %q)", resolve.ErrUnknownPathAlias, name, pathHost)
			}
			delete(scoped, name)
			if len(scoped) == 0 {
				delete(cfg.HostPaths, pathHost)
			}
		} else if _, exists := cfg.LocalPaths[name]; exists {
			delete(cfg.LocalPaths, name)
		} else if _, exists := cfg.Paths[name]; exists {
			delete(cfg.Paths, name)
		} else {
			return fmt.Errorf("%w: %q", resolve.ErrUnknownPathAlias, name)
		}

		if err := cfg.Save(configPath); err != nil {
			return err
		}
		pterm.Success.Printf("Removed path '%s'\n", name)
		return nil
	},
}

var listPathsCmd = &cobra.Command{
	Use:   "list-paths",
	Short: "List configured path aliases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		empty := true
		if len(cfg.LocalPaths) > 0 {
			empty = false
			pterm.DefaultSection.Println("Local paths")
			data := pterm.TableData{{"NAME", "PATH"}}
			for _, name := range sortedKeys(cfg.LocalPaths) {
				data = append(data, []string{name, config.ExpandPath(cfg.LocalPaths[name].Path)})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
		}

		if len(cfg.HostPaths) > 0 {
			empty = false
			pterm.DefaultSection.Println("Remote paths (per host)")
			data := pterm.TableData{{"HOST", "NAME", "PATH"}}
			for _, hostName := range sortedKeys(cfg.HostPaths) {
				scoped := cfg.HostPaths[hostName]
				for _, name := range sortedKeys(scoped) {
					data = append(data, []string{hostName, name, scoped[name].Path})
				}
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
		}

		if len(cfg.Paths) > 0 {
			empty = false
			pterm.DefaultSection.Println("Legacy paths (migration recommended)")
			data := pterm.TableData{{"NAME", "TYPE", "PATH"}}
			for _, name := range sortedKeys(cfg.Paths) {
				p := cfg.Paths[name]
				kind, shown := "local", config.ExpandPath(p.Path)
				if p.IsRemote {
					kind, shown = "remote", p.Path
				}
				data = append(data, []string{name, kind, shown})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
		}

		if empty {
			pterm.Info.Println("No paths configured")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addPathCmd, removePathCmd, listPathsCmd)
	addPathCmd.Flags().StringVar(&pathHost, "host", "", "scope the alias to a configured host")
	addPathCmd.Flags().BoolVarP(&pathRemote, "remote", "r", false, "mark as a legacy unscoped remote path")
	removePathCmd.Flags().StringVar(&pathHost, "host", "", "remove from this host's scope")
}
