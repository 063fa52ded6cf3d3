package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// StorageCategory classifies a storage failure into a stable, actionable
// category.
type StorageCategory string

const (
	StorageOutOfSpace       StorageCategory = "out_of_space"
	StoragePermissionDenied StorageCategory = "permission_denied"
	StorageReadOnly         StorageCategory = "read_only_filesystem"
	StorageCorrupt          StorageCategory = "corrupt_content"
	StorageOther            StorageCategory = "other"
)

// Guidance returns a short actionable hint for the category.
func (c StorageCategory) Guidance() string {
	switch c {
	case StorageOutOfSpace:
		return "free disk space and retry"
	case StoragePermissionDenied:
		return "check ownership and permissions of the manifest directory"
	case StorageReadOnly:
		return "the filesystem is mounted read-only; remount or relocate the store"
	case StorageCorrupt:
		return "inspect the named unit file; it must be a JSON array of valid findings"
	default:
		return "inspect the underlying error"
	}
}

// StorageError reports a failed store operation with its classified category.
type StorageError struct {
	Op       string
	Path     string
	Category StorageCategory
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("manifest %s %s: %s (%s): %v", e.Op, e.Path, e.Category, e.Category.Guidance(), e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IntegrityError reports a unit-name collision. Names carry a random suffix,
// so a collision means the uniqueness guarantee itself was violated; it is
// always fatal and never treated as an ordinary I/O failure.
type IntegrityError struct {
	Path string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("manifest unit name collision at %s: refusing to overwrite", e.Path)
}

func classify(err error) StorageCategory {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return StorageOutOfSpace
	case errors.Is(err, syscall.EROFS):
		return StorageReadOnly
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return StoragePermissionDenied
	default:
		return StorageOther
	}
}

func storageErr(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Category: classify(err), Err: err}
}

func corruptErr(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Category: StorageCorrupt, Err: err}
}
