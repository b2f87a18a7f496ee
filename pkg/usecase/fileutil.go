package usecase

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/srafetch/pkg/domain/types"
)

// writeFile replaces path with data in one rename so readers never see a
// partially written file. perm is applied even when path already exists.
func writeFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", dir), goerr.T(types.ErrTagIO))
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write file", goerr.V("path", path), goerr.T(types.ErrTagIO))
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to set file mode", goerr.V("path", path), goerr.T(types.ErrTagIO))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close file", goerr.V("path", path), goerr.T(types.ErrTagIO))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return goerr.Wrap(err, "failed to replace file", goerr.V("path", path), goerr.T(types.ErrTagIO))
	}

	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("dir", dir), goerr.T(types.ErrTagIO))
	}
	return nil
}
