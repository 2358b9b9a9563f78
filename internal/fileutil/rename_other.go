//go:build !linux

package fileutil

import (
	"errors"
	"syscall"
)

// RenameNoReplace renames src to dst, failing if dst exists. Without a native
// no-replace rename the move is done with link and unlink.
func RenameNoReplace(src, dst string) error {
	return linkNoReplace(src, dst)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
