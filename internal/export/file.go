package export

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// writeFile renders into a temp file beside path and renames it into place,
// so a failed run never leaves a truncated output behind.
func writeFile(path string, render func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &SerializationError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err = render(tmp); err != nil {
		var serErr *SerializationError
		if errors.As(err, &serErr) && serErr.Path == "" {
			serErr.Path = path
		}
		return err
	}

	if err = tmp.Close(); err != nil {
		return &SerializationError{Path: path, Op: "close", Err: err}
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return &SerializationError{Path: path, Op: "chmod", Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &SerializationError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
