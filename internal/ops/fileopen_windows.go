//go:build windows

package ops

import (
	"os"

	"github.com/hpungsan/pelvilog/internal/errors"
)

// Windows has no O_NOFOLLOW; ValidatePath rejects symlinks before these run.

func createTemp(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
}

func openImport(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.NewFileNotFound(path)
	}
	return f, err
}
