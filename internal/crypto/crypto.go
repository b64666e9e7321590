// Package crypto protects stored host passwords with age passphrase
// encryption. Values are wrapped in an ENC[...] marker so plaintext and
// ciphertext can coexist in the same config file.
package crypto

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"github.com/pterm/pterm"
)

const (
	encPrefix = "ENC["
	encSuffix = "]"

	masterKeyEnv  = "SSHPORTAL_MASTER_KEY"
	masterKeyFile = "master.key"
)

// IsEncrypted reports whether value carries the encryption marker.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, encPrefix) && strings.HasSuffix(value, encSuffix)
}

// Encrypt seals plaintext with the master key and wraps it in the marker.
func Encrypt(plaintext, key string) (string, error) {
	recipient, err := age.NewScryptRecipient(key)
	if err != nil {
		return "", fmt.Errorf("failed to derive encryption key: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return encPrefix + encoded + encSuffix, nil
}

// Decrypt unseals a marked value. Unmarked values pass through unchanged
// so callers can treat every stored credential uniformly.
func Decrypt(value, key string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSuffix(strings.TrimPrefix(value, encPrefix), encSuffix))
	if err != nil {
		return "", fmt.Errorf("malformed encrypted value: %w", err)
	}

	identity, err := age.NewScryptIdentity(key)
	if err != nil {
		return "", fmt.Errorf("failed to derive decryption key: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(raw), identity)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// MasterKey resolves the master key: environment variable first, then the
// key file in configDir, then an interactive prompt. Returns "" when no
// key can be obtained.
func MasterKey(configDir string) string {
	if key := os.Getenv(masterKeyEnv); key != "" {
		return key
	}

	if configDir != "" {
		keyPath := filepath.Join(configDir, masterKeyFile)
		if content, err := os.ReadFile(keyPath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if isInteractive() {
		pterm.Warning.Printf("Encrypted credential found but %s is not set.\n", masterKeyEnv)
		key, err := pterm.DefaultInteractiveTextInput.
			WithMask("*").
			WithDefaultText("Enter master key").
			Show()
		if err == nil && key != "" {
			return key
		}
	}

	return ""
}

func isInteractive() bool {
	fileInfo, _ := os.Stdin.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
