package transport

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"sshportal/internal/config"
)

const dialTimeout = 10 * time.Second

// Native is an in-process SFTP connection to a single host, used by
// `copy --native` when shelling out to scp is not wanted.
type Native struct {
	client *sftp.Client
	conn   *ssh.Client
}

// DialNative opens an SFTP session to host. password is the already
// decrypted credential; it is only used when the host has no key file.
func DialNative(host config.Host, password string) (*Native, error) {
	auth, err := AuthMethods(host, password)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User: host.User(),
		Auth: auth,
		// TODO: known_hosts verification, tracked for the next release.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	client, err := ssh.Dial("tcp", host.Addr(), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("ssh connection to %s failed: %w", host.Addr(), err)
	}
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open sftp session: %w", err)
	}

	return &Native{client: sftpClient, conn: client}, nil
}

// AuthMethods builds the SSH authentication chain for host: the key file
// when configured, the password otherwise.
func AuthMethods(host config.Host, password string) ([]ssh.AuthMethod, error) {
	if host.KeyPath != "" {
		key, err := os.ReadFile(config.ExpandPath(host.KeyPath))
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse key file: %w", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if password == "" {
		return nil, fmt.Errorf("host %s has neither key file nor password", host.Connection)
	}
	return []ssh.AuthMethod{ssh.Password(password)}, nil
}

func (n *Native) Close() error {
	if n.client != nil {
		n.client.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

// Upload copies a local file or, when recursive, a directory tree to
// remotePath.
func (n *Native) Upload(localPath, remotePath string, recursive bool) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("%s is a directory (use -r)", localPath)
		}
		return n.uploadDir(localPath, remotePath)
	}
	return n.uploadFile(localPath, remoteFileTarget(n.client, remotePath, filepath.Base(localPath)))
}

func (n *Native) uploadDir(localDir, remoteDir string) error {
	return filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := RemoteJoin(remoteDir, relativePath(localDir, p))
		if d.IsDir() {
			return n.client.MkdirAll(target)
		}
		return n.uploadFile(p, target)
	})
}

func (n *Native) uploadFile(localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := n.client.MkdirAll(path.Dir(remotePath)); err != nil {
		return fmt.Errorf("failed to create remote directory: %w", err)
	}
	dst, err := n.client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("upload of %s failed: %w", localPath, err)
	}
	if info, err := src.Stat(); err == nil {
		// Best effort, some servers refuse chmod.
		_ = n.client.Chmod(remotePath, info.Mode().Perm())
	}
	return nil
}

// Download copies a remote file or, when recursive, a directory tree to
// localPath.
func (n *Native) Download(remotePath, localPath string, recursive bool) error {
	info, err := n.client.Stat(remotePath)
	if err != nil {
		return fmt.Errorf("cannot stat remote path %s: %w", remotePath, err)
	}
	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("%s is a directory (use -r)", remotePath)
		}
		return n.downloadDir(remotePath, localPath)
	}
	return n.downloadFile(remotePath, localFileTarget(localPath, path.Base(remotePath)))
}

func (n *Native) downloadDir(remoteDir, localDir string) error {
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return err
	}
	entries, err := n.client.ReadDir(remoteDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		remote := RemoteJoin(remoteDir, entry.Name())
		local := filepath.Join(localDir, entry.Name())
		if entry.IsDir() {
			if err := n.downloadDir(remote, local); err != nil {
				return err
			}
			continue
		}
		if err := n.downloadFile(remote, local); err != nil {
			return err
		}
	}
	return nil
}

func (n *Native) downloadFile(remotePath, localPath string) error {
	src, err := n.client.Open(remotePath)
	if err != nil {
		return fmt.Errorf("failed to open remote file %s: %w", remotePath, err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return err
	}
	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("download of %s failed: %w", remotePath, err)
	}
	return nil
}

// RemoteJoin joins remote path segments with forward slashes regardless
// of the local OS.
func RemoteJoin(dir, name string) string {
	return path.Join(dir, filepath.ToSlash(name))
}

func relativePath(base, full string) string {
	rel, err := filepath.Rel(base, full)
	if err != nil {
		return filepath.Base(full)
	}
	return rel
}

// remoteFileTarget mirrors scp's habit of dropping a file into a
// destination that names an existing directory.
func remoteFileTarget(client *sftp.Client, remotePath, baseName string) string {
	if info, err := client.Stat(remotePath); err == nil && info.IsDir() {
		return RemoteJoin(remotePath, baseName)
	}
	if strings.HasSuffix(remotePath, "/") {
		return RemoteJoin(remotePath, baseName)
	}
	return remotePath
}

func localFileTarget(localPath, baseName string) string {
	if info, err := os.Stat(localPath); err == nil && info.IsDir() {
		return filepath.Join(localPath, baseName)
	}
	return localPath
}
