package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// loadJSON reads path into out and reports whether the file existed.
// A missing file leaves out untouched and is not an error; stores treat
// it as an empty collection.
func loadJSON(path string, out any) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, out)
}

// storeJSON atomically replaces path with the JSON encoding of v.
func storeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return storeRaw(path, b)
}

// storeRaw writes b to a temp file in the target's directory and renames
// it over path, so a reader never observes a partial write. Every file
// in the store holds key material or tokens, so the mode is always
// owner-only.
func storeRaw(path string, b []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
