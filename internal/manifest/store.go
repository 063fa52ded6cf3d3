package manifest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/gauntlet/internal/finding"
)

const unitExt = ".json"

// Store is a flat directory of manifest units. The location is always
// explicit; nothing in this package reads ambient process state.
type Store struct {
	dir string

	// Logf receives warnings about degraded reads and best-effort cleanup
	// failures. Defaults to stderr.
	Logf func(format string, args ...any)
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// first write.
func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Write persists one finding as a new uniquely named unit and returns the
// unit path. The write is a single attempt: retries belong to the caller's
// notification path, not to local storage.
func (s *Store) Write(f finding.Finding) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", storageErr("mkdir", s.dir, err)
	}

	suffix, err := randomSuffix()
	if err != nil {
		return "", storageErr("write", s.dir, err)
	}
	name := fmt.Sprintf("%s-%s-%d-%s%s",
		sanitizeAgent(f.Agent), f.Scope, time.Now().UnixMilli(), suffix, unitExt)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent([]finding.Finding{f}, "", "  ")
	if err != nil {
		return "", storageErr("encode", path, err)
	}

	// O_EXCL makes creation atomic across concurrent writers. An existing
	// file here means the random-suffix uniqueness guarantee was violated;
	// that is an integrity fault, never a silent overwrite.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", &IntegrityError{Path: path}
		}
		return "", storageErr("create", path, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return "", storageErr("write", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", storageErr("close", path, err)
	}
	return path, nil
}

// sanitizeAgent lowercases the agent identifier and maps anything outside
// [a-z0-9-] to '-', so the identifier is always safe in a file name.
func sanitizeAgent(agent string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(agent) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

func randomSuffix() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generating unit suffix: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
