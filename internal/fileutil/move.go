package fileutil

import (
	"errors"
	"fmt"
	"os"
)

// Move renames src to dst without replacing an existing dst. When src and dst
// live on different filesystems the file is copied with verification and the
// source removed afterwards. An existing dst yields an error matching
// fs.ErrExist.
func Move(src, dst string) error {
	err := RenameNoReplace(src, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}
	if err := CopyFileVerifiedNoReplace(src, dst); err != nil {
		return fmt.Errorf("cross-device copy: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// linkNoReplace emulates a no-replace rename with a hard link, which fails
// atomically when dst exists, followed by removal of src.
func linkNoReplace(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) {
			linkErr.Op = "rename"
		}
		return err
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}
