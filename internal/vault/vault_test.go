package vault

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestVault(t *testing.T) *FileVault {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "secure.dat"), "test-passphrase")
}

func TestSetGetDelete(t *testing.T) {
	v := newTestVault(t)

	if err := v.Set("license", "ABC-123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := v.Get("license")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || got != "ABC-123" {
		t.Fatalf("Get() = %q, %v; want stored license", got, ok)
	}

	if err := v.Delete("license"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, ok, err = v.Get("license")
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if ok {
		t.Fatal("Get() after delete should miss")
	}
}

func TestDeleteOnMissingVault(t *testing.T) {
	v := newTestVault(t)

	err := v.Delete("license")
	if !errors.Is(err, ErrVaultMissing) {
		t.Fatalf("Delete() error = %v, want ErrVaultMissing", err)
	}
}

func TestDeleteAbsentKeyIsNoop(t *testing.T) {
	v := newTestVault(t)
	if err := v.Set("license", "ABC-123"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if err := v.Delete("other"); err != nil {
		t.Fatalf("Delete(absent key) error = %v", err)
	}
}

func TestFileIsEncryptedAtRest(t *testing.T) {
	v := newTestVault(t)
	if err := v.Set("license", "SECRET-VALUE"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	raw, err := os.ReadFile(v.Path())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(raw), "SECRET-VALUE") {
		t.Fatal("vault file contains plaintext credential")
	}
	if !strings.HasPrefix(string(raw), "VTENC1\n") {
		t.Fatal("vault file missing envelope prefix")
	}
}

func TestWrongPassphraseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secure.dat")
	if err := NewFile(path, "right").Set("license", "x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	_, _, err := NewFile(path, "wrong").Get("license")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("Get() with wrong passphrase error = %v, want ErrAuthFailed", err)
	}
}

func TestKeyCache(t *testing.T) {
	c := NewKeyCache()
	c.MarkValidated("sha256:abcd", true)

	valid, cached := c.Lookup("sha256:abcd")
	if !cached || !valid {
		t.Fatalf("Lookup() = %v, %v; want cached valid entry", valid, cached)
	}

	if err := c.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after ClearAll, want 0", c.Len())
	}
	if _, cached := c.Lookup("sha256:abcd"); cached {
		t.Fatal("Lookup() after ClearAll should miss")
	}
}

func TestCorruptEnvelopeIsAnError(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{
			"short nonce",
			`VTENC1` + "\n" + `{"version":1,"kdf":"argon2id","kdf_time":2,"kdf_memory_kb":65536,"kdf_threads":1,"salt":"AAAAAAAAAAAAAAAAAAAAAA==","nonce":"AAAA","ciphertext":"AAAA"}`,
		},
		{
			"short salt",
			`VTENC1` + "\n" + `{"version":1,"kdf":"argon2id","kdf_time":2,"kdf_memory_kb":65536,"kdf_threads":1,"salt":"AAAA","nonce":"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA","ciphertext":"AAAA"}`,
		},
		{"truncated payload", "VTENC1\n{\"version\":1,\"kdf\":\"arg"},
		{"not an envelope", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "-"))
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}
			v := NewFile(path, "test-passphrase")

			err := v.Delete("license")
			if err == nil {
				t.Fatal("Delete() on corrupt vault should fail")
			}
			if errors.Is(err, ErrVaultMissing) {
				t.Fatalf("Delete() error = %v, corruption must not read as a missing vault", err)
			}
			if !errors.Is(err, ErrInvalid) && !errors.Is(err, ErrAuthFailed) {
				t.Fatalf("Delete() error = %v, want ErrInvalid or ErrAuthFailed", err)
			}

			if _, _, err := v.Get("license"); err == nil {
				t.Fatal("Get() on corrupt vault should fail")
			}
		})
	}
}
