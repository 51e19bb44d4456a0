// Package fs provides file-based storage for downloaded index feeds.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/rfcli"
	"github.com/google/uuid"
)

const tmpSuffix = ".tmp"

// SnapshotStore keeps the latest copy of each feed under a directory with
// atomic update semantics. Data is written to a uniquely named temporary
// file and renamed over the final path, so readers never observe a partial
// snapshot.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a SnapshotStore rooted at dir.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Dir returns the directory holding the snapshots.
func (s *SnapshotStore) Dir() string {
	return s.dir
}

// Path returns the final location of the named snapshot.
func (s *SnapshotStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save atomically replaces the named snapshot with data and returns its path.
func (s *SnapshotStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", rfcli.Wrap(rfcli.EIO, err, "create snapshot dir")
	}

	final := s.Path(name)
	tmp := filepath.Join(s.dir, name+"."+uuid.NewString()+tmpSuffix)
	if err := writeFile(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return "", rfcli.Wrap(rfcli.EIO, err, "write snapshot %s", name)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", rfcli.Wrap(rfcli.EIO, err, "commit snapshot %s", name)
	}
	return final, nil
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads the named snapshot.
// Returns ENOTFOUND if it has never been saved.
func (s *SnapshotStore) Load(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, rfcli.Errorf(rfcli.ENOTFOUND, "snapshot %s not found", name)
	}
	if err != nil {
		return nil, rfcli.Wrap(rfcli.EIO, err, "read snapshot %s", name)
	}
	return data, nil
}

// ModTime returns when the named snapshot was last saved.
// Returns ENOTFOUND if it has never been saved.
func (s *SnapshotStore) ModTime(name string) (time.Time, error) {
	if err := validName(name); err != nil {
		return time.Time{}, err
	}
	fi, err := os.Stat(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, rfcli.Errorf(rfcli.ENOTFOUND, "snapshot %s not found", name)
	}
	if err != nil {
		return time.Time{}, rfcli.Wrap(rfcli.EIO, err, "stat snapshot %s", name)
	}
	return fi.ModTime(), nil
}

// Abort removes temporary files left behind by interrupted saves.
func (s *SnapshotStore) Abort() error {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return rfcli.Wrap(rfcli.EIO, err, "list snapshot dir")
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), tmpSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return rfcli.Wrap(rfcli.EIO, err, "remove %s", e.Name())
		}
	}
	return nil
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return rfcli.Errorf(rfcli.EINVALID, "invalid snapshot name %q", name)
	}
	return nil
}
