package transport

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"sshportal/internal/config"
)

// writeTestKey generates a throwaway RSA key file for auth-chain tests.
func writeTestKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	path := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(path, keyPEM, 0600); err != nil {
		t.Fatalf("failed to write key: %v", err)
	}
	return path
}

func TestAuthMethods(t *testing.T) {
	t.Run("key file preferred", func(t *testing.T) {
		host := config.Host{Connection: "user@example.com", KeyPath: writeTestKey(t)}
		methods, err := AuthMethods(host, "ignored-password")
		if err != nil {
			t.Fatalf("AuthMethods() error = %v", err)
		}
		if len(methods) != 1 {
			t.Errorf("got %d auth methods, want 1", len(methods))
		}
	})

	t.Run("password fallback", func(t *testing.T) {
		host := config.Host{Connection: "user@example.com"}
		methods, err := AuthMethods(host, "hunter2")
		if err != nil {
			t.Fatalf("AuthMethods() error = %v", err)
		}
		if len(methods) != 1 {
			t.Errorf("got %d auth methods, want 1", len(methods))
		}
	})

	t.Run("no credentials", func(t *testing.T) {
		host := config.Host{Connection: "user@example.com"}
		if _, err := AuthMethods(host, ""); err == nil {
			t.Error("AuthMethods() succeeded without key or password")
		}
	})

	t.Run("missing key file", func(t *testing.T) {
		host := config.Host{Connection: "user@example.com", KeyPath: "/nonexistent/id_rsa"}
		if _, err := AuthMethods(host, ""); err == nil {
			t.Error("AuthMethods() succeeded with missing key file")
		}
	})

	t.Run("garbage key file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad_key")
		if err := os.WriteFile(path, []byte("not a key"), 0600); err != nil {
			t.Fatal(err)
		}
		host := config.Host{Connection: "user@example.com", KeyPath: path}
		if _, err := AuthMethods(host, ""); err == nil {
			t.Error("AuthMethods() succeeded with garbage key file")
		}
	})
}

func TestRemoteJoin(t *testing.T) {
	tests := []struct {
		dir, name, want string
	}{
		{"/srv", "app.log", "/srv/app.log"},
		{"/srv/", "app.log", "/srv/app.log"},
		{"/", "x", "/x"},
		{"/a", "b/c", "/a/b/c"},
	}
	for _, tt := range tests {
		if got := RemoteJoin(tt.dir, tt.name); got != tt.want {
			t.Errorf("RemoteJoin(%q, %q) = %q, want %q", tt.dir, tt.name, got, tt.want)
		}
	}
}

func TestLocalFileTarget(t *testing.T) {
	dir := t.TempDir()

	if got := localFileTarget(dir, "file.txt"); got != filepath.Join(dir, "file.txt") {
		t.Errorf("existing dir target = %q", got)
	}

	explicit := filepath.Join(dir, "renamed.txt")
	if got := localFileTarget(explicit, "file.txt"); got != explicit {
		t.Errorf("explicit file target = %q", got)
	}
}

func TestSSHArgs(t *testing.T) {
	withKey := config.Host{Connection: "admin@staging.example.com", Port: 2222, KeyPath: "/keys/staging"}
	want := []string{"admin@staging.example.com", "-p", "2222", "-i", "/keys/staging"}
	got := SSHArgs(withKey)
	if len(got) != len(want) {
		t.Fatalf("SSHArgs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SSHArgs() = %v, want %v", got, want)
		}
	}

	plain := config.Host{Connection: "user@prod.example.com"}
	got = SSHArgs(plain)
	if len(got) != 3 || got[2] != "22" {
		t.Errorf("SSHArgs() = %v, want default port and no key", got)
	}
}
