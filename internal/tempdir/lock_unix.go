//go:build !windows

package tempdir

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes a non-blocking advisory exclusive lock on file.
func lockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

// unlockFile releases the advisory lock taken by lockFile.
func unlockFile(file *os.File) error {
	return unix.Flock(int(file.Fd()), unix.LOCK_UN)
}
