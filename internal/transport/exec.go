// Package transport executes planned transfers, either by shelling out to
// the system scp/ssh binaries or natively over SFTP.
package transport

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"sshportal/internal/config"
)

const (
	scpCommand = "scp"
	sshCommand = "ssh"
)

// RunSCP invokes the system scp with the planned argument list, wired to
// the caller's terminal so scp's own progress output stays visible.
func RunSCP(args []string) error {
	cmd := exec.Command(scpCommand, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scp failed: %w", err)
	}
	return nil
}

// SSHArgs builds the argument list for an interactive ssh session to host.
func SSHArgs(host config.Host) []string {
	args := []string{host.Connection, "-p", strconv.Itoa(int(host.EffectivePort()))}
	if host.KeyPath != "" {
		args = append(args, "-i", host.KeyPath)
	}
	return args
}

// RunSSH opens an interactive ssh session to host.
func RunSSH(host config.Host) error {
	cmd := exec.Command(sshCommand, SSHArgs(host)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ssh failed: %w", err)
	}
	return nil
}
