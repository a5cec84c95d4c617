package store

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// checksumFileName is the per-directory manifest of store file hashes.
const checksumFileName = ".checksums"

// ChecksumManifest records the expected BLAKE3 hash of each store file so a
// corrupt or tampered store is detected on load instead of silently read.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// ComputeBlake3Hash computes the BLAKE3 hash of a file.
func ComputeBlake3Hash(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// LoadChecksums reads the .checksums manifest from a stores directory.
// A missing manifest returns an empty manifest, not an error: stores written
// by older versions simply have no recorded hash yet.
func LoadChecksums(dir string) (*ChecksumManifest, error) {
	path := filepath.Join(dir, checksumFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &ChecksumManifest{Version: 1, Hashes: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}

	var manifest ChecksumManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse checksums: %w", err)
	}
	if manifest.Version != 1 {
		return nil, fmt.Errorf("unsupported checksums version: %d", manifest.Version)
	}
	if manifest.Hashes == nil {
		manifest.Hashes = make(map[string]string)
	}
	return &manifest, nil
}

// recordChecksum updates the manifest entry for filename and rewrites the
// manifest file.
func recordChecksum(dir, filename string) error {
	manifest, err := LoadChecksums(dir)
	if err != nil {
		return err
	}

	hash, err := ComputeBlake3Hash(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", filename, err)
	}
	manifest.Hashes[filename] = hash
	manifest.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal checksums: %w", err)
	}
	// Restrictive permissions; the manifest holds expected hashes.
	if err := os.WriteFile(filepath.Join(dir, checksumFileName), data, 0o600); err != nil {
		return fmt.Errorf("failed to write checksums: %w", err)
	}
	return nil
}

// verifyChecksum checks filename against the manifest. Files without a
// recorded hash pass (first write has not happened yet).
func verifyChecksum(dir, filename string) error {
	manifest, err := LoadChecksums(dir)
	if err != nil {
		return err
	}
	expected, ok := manifest.Hashes[filename]
	if !ok {
		return nil
	}

	actual, err := ComputeBlake3Hash(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to compute hash: %w", err)
	}
	if actual != expected {
		return fmt.Errorf("hash mismatch for %s: expected %s, got %s", filename, expected, actual)
	}
	return nil
}
