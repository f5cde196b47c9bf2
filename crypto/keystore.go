package crypto

import (
	"encoding/pem"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// pemBlockType mirrors the "EC PRIVATE KEY" label the reference oracle
// writes via pem_rfc7468; keeping the same label lets an operator inspect
// the file with any standard PEM tool.
const pemBlockType = "EC PRIVATE KEY"

// IsPEMFile reports whether the file at path looks like a PEM-encoded key,
// used at startup to decide between loading an existing key and generating
// a fresh one.
func IsPEMFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	block, _ := pem.Decode(data)
	return block != nil && block.Type == pemBlockType
}

// SaveKey writes the private key as a PEM-encoded "EC PRIVATE KEY" block at
// path. The write is atomic: the key is staged in a sibling temp directory
// and renamed into place so a crash mid-write never leaves a truncated key
// file behind.
func SaveKey(path string, key *PrivateKey) error {
	if key == nil {
		return errors.New("crypto: nil private key")
	}
	if path == "" {
		return errors.New("crypto: empty key path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp(dir, "oraclekey-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	block := &pem.Block{Type: pemBlockType, Bytes: key.Bytes()}
	tmpPath := filepath.Join(tmpDir, "key.pem")
	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if err := pem.Encode(tmpFile, block); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// LoadKey reads and decodes a PEM "EC PRIVATE KEY" file written by SaveKey.
func LoadKey(path string) (*PrivateKey, error) {
	if path == "" {
		return nil, errors.New("crypto: empty key path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemBlockType {
		return nil, errors.New("crypto: not a valid EC PRIVATE KEY PEM file")
	}
	return PrivateKeyFromBytes(block.Bytes)
}

// LoadOrGenerateKey loads the key at path, generating and persisting a new
// one on first run, matching the reference oracle's get_key/generate_new_key
// bootstrap sequence. An existing file that is not a valid key is an error.
func LoadOrGenerateKey(path string) (*PrivateKey, error) {
	if IsPEMFile(path) {
		return LoadKey(path)
	}
	if _, err := os.Stat(path); err == nil {
		return nil, errors.New("crypto: existing key file is not a valid EC PRIVATE KEY PEM file")
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	key, err := GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	if err := SaveKey(path, key); err != nil {
		return nil, err
	}
	return key, nil
}
