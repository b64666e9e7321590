package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"sshportal/internal/config"
	"sshportal/internal/crypto"
	"sshportal/internal/plan"
	"sshportal/internal/resolve"
	"sshportal/internal/transport"
)

var (
	copyRecursive bool
	copyNative    bool
	copyDryRun    bool
)

var copyCmd = &cobra.Command{
	Use:   "copy <src> <dst>",
	Short: "Copy files between aliased locations",
	Long: `Copies files with scp. Source and destination may be path aliases,
host:alias or host:path specifiers, user@host:path connection strings, or
plain local paths. The destination is additionally resolved in the source's
host scope, so 'copy prod:webroot backup' finds a backup alias scoped to
prod; the source argument itself is always resolved without a scope.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		src, err := resolve.Resolve(cfg, args[0], "")
		if err != nil {
			return err
		}
		dst, err := resolve.Resolve(cfg, args[1], src.Alias)
		if err != nil {
			return err
		}

		p, err := plan.Plan(src, dst, copyRecursive)
		if err != nil {
			return err
		}

		if copyDryRun {
			pterm.Info.Println(scpCommandLine(p))
			return nil
		}

		pterm.Info.Printf("Copying %s -> %s\n", src.Target(), dst.Target())
		if copyNative {
			err = nativeCopy(src, dst)
		} else {
			err = transport.RunSCP(p.Args)
		}
		if err != nil {
			return err
		}
		pterm.Success.Println("Copy finished")
		return nil
	},
}

// scpCommandLine renders the invocation a dry run prints.
func scpCommandLine(p plan.TransferPlan) string {
	return "scp " + strings.Join(p.Args, " ")
}

// nativeCopy transfers over an in-process SFTP session instead of the scp
// binary. Only one side may be remote; third-party relaying is scp
// territory.
func nativeCopy(src, dst resolve.Location) error {
	if src.IsRemote() && dst.IsRemote() {
		return fmt.Errorf("native mode cannot copy between two remote hosts")
	}

	remote := src
	if dst.IsRemote() {
		remote = dst
	}

	password := ""
	if remote.Host.Password != "" {
		dir, _ := config.Dir()
		key := crypto.MasterKey(dir)
		if key == "" {
			return fmt.Errorf("host %s has an encrypted password but no master key is available", remote.Host.Connection)
		}
		var err error
		password, err = crypto.Decrypt(remote.Host.Password, key)
		if err != nil {
			return err
		}
	}

	conn, err := transport.DialNative(*remote.Host, password)
	if err != nil {
		return err
	}
	defer conn.Close()

	if src.IsRemote() {
		return conn.Download(src.Path, dst.Path, copyRecursive)
	}
	return conn.Upload(src.Path, dst.Path, copyRecursive)
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().BoolVarP(&copyRecursive, "recursive", "r", false, "copy directories recursively")
	copyCmd.Flags().BoolVarP(&copyNative, "native", "n", false, "transfer over built-in SFTP instead of the scp binary")
	copyCmd.Flags().BoolVar(&copyDryRun, "dry-run", false, "print the scp invocation without running it")
}
