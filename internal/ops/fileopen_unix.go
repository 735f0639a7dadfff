//go:build !windows

package ops

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/hpungsan/pelvilog/internal/errors"
)

// createTemp creates the export temp file. O_NOFOLLOW guards the final path
// component; ValidatePath has already pinned the parent directory.
func createTemp(path string) (*os.File, error) {
	return openNoFollow(path, syscall.O_CREAT|syscall.O_WRONLY|syscall.O_EXCL, 0600)
}

// openImport opens a CSV file for reading without following a final symlink.
func openImport(path string) (*os.File, error) {
	return openNoFollow(path, syscall.O_RDONLY, 0)
}

func openNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	switch {
	case err == nil:
		return os.NewFile(uintptr(fd), path), nil
	case stderrors.Is(err, syscall.ELOOP):
		return nil, errors.NewInvalidRequest("path must not be a symlink")
	case stderrors.Is(err, syscall.ENOENT) && flag&syscall.O_CREAT == 0:
		return nil, errors.NewFileNotFound(path)
	}
	return nil, err
}
