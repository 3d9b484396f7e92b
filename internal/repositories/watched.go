package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/desertthunder/maka/internal/shared"
)

var (
	_ WatchedStore = (*SQLiteWatchedStore)(nil)
	_ WatchedStore = (*FileWatchedStore)(nil)
)

// SQLiteWatchedStore keeps the serialized watched list in a single kv row.
type SQLiteWatchedStore struct {
	kv  *KVRepository
	key string
}

// NewSQLiteWatchedStore stores under [WatchedKey].
func NewSQLiteWatchedStore(kv *KVRepository) *SQLiteWatchedStore {
	return &SQLiteWatchedStore{kv: kv, key: WatchedKey}
}

func (s *SQLiteWatchedStore) Load(ctx context.Context) ([]string, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	return DecodeWatched([]byte(raw))
}

func (s *SQLiteWatchedStore) Save(ctx context.Context, titles []string) error {
	data, err := EncodeWatched(titles)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, s.key, string(data))
}

// FileWatchedStore keeps the serialized watched list in a JSON file.
//
// Writes go to a sibling temp file which is then renamed over the target.
type FileWatchedStore struct {
	fs   afero.Fs
	path string
}

// NewFileWatchedStore creates a store at path on fsys. A nil fsys means the OS filesystem.
func NewFileWatchedStore(fsys afero.Fs, path string) *FileWatchedStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileWatchedStore{fs: fsys, path: path}
}

func (s *FileWatchedStore) Load(ctx context.Context) ([]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, s.path, err)
	}
	return DecodeWatched(data)
}

func (s *FileWatchedStore) Save(ctx context.Context, titles []string) error {
	data, err := EncodeWatched(titles)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", shared.ErrStorage, err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %v", shared.ErrStorage, s.path, err)
	}
	return nil
}
