package manifest

import (
	"fmt"
	"os"
	"path/filepath"
)

// CleanupAll deletes every manifest unit in the store. It is idempotent: an
// absent directory is a no-op, and running it twice leaves the same empty
// store. Individual deletion failures are logged and do not abort the
// remaining deletions; if any deletion failed the aggregated error is
// returned so callers that require a clean store can refuse to proceed.
func (s *Store) CleanupAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return storageErr("scan", s.dir, err)
	}

	var failed int
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !isUnitName(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.Logf("warning: failed to remove manifest unit %s: %v", path, err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("cleanup left %d unit(s) behind: %w", failed, storageErr("remove", s.dir, firstErr))
	}
	return nil
}

// Count returns the number of unit files currently in the store. Used for
// status reporting; a missing directory counts as zero.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, storageErr("scan", s.dir, err)
	}
	var n int
	for _, entry := range entries {
		if !entry.IsDir() && isUnitName(entry.Name()) {
			n++
		}
	}
	return n, nil
}
