package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrVaultMissing reports that the backing file has never been written.
// First-run and repeated-reset flows treat this as "nothing to do", not as a
// failure; every other vault error is a real one.
var ErrVaultMissing = errors.New("vault file does not exist")

// FileVault stores string credentials in an encrypted file.
type FileVault struct {
	path       string
	passphrase string

	mu sync.Mutex
}

// FileName is the vault file kept in the application data directory.
const FileName = "secure.dat"

// DefaultPath returns the vault location inside the data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// NewFile creates a vault backed by the file at path. The file is created
// lazily on the first Set.
func NewFile(path, passphrase string) *FileVault {
	return &FileVault{path: path, passphrase: passphrase}
}

// Path returns the backing file location.
func (v *FileVault) Path() string { return v.path }

// Set writes a credential, creating the vault file if needed.
func (v *FileVault) Set(key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.readAll()
	if err != nil && !errors.Is(err, ErrVaultMissing) {
		return err
	}
	if data == nil {
		data = make(map[string]string)
	}
	data[key] = value
	return v.writeAll(data)
}

// Get reads a credential. Returns false for an absent key or absent vault.
func (v *FileVault) Get(key string) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.readAll()
	if errors.Is(err, ErrVaultMissing) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

// Delete removes a credential. An absent vault file surfaces as
// ErrVaultMissing so callers can distinguish "never written" from failure;
// an absent key in an existing vault is a silent no-op.
func (v *FileVault) Delete(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := v.readAll()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return v.writeAll(data)
}

func (v *FileVault) readAll() (map[string]string, error) {
	raw, err := os.ReadFile(v.path)
	if os.IsNotExist(err) {
		return nil, ErrVaultMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}

	plaintext, err := decrypt(v.passphrase, raw)
	if err != nil {
		return nil, fmt.Errorf("decrypt vault: %w", err)
	}
	var data map[string]string
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("parse vault payload: %w", err)
	}
	if data == nil {
		data = make(map[string]string)
	}
	return data, nil
}

func (v *FileVault) writeAll(data map[string]string) error {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal vault payload: %w", err)
	}
	sealed, err := encrypt(v.passphrase, plaintext)
	if err != nil {
		return fmt.Errorf("encrypt vault: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}
	if err := os.WriteFile(v.path, sealed, 0o600); err != nil {
		return fmt.Errorf("write vault: %w", err)
	}
	return nil
}
