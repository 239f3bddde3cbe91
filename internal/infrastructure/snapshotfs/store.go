// Package snapshotfs implements the snapshot store on a local directory.
package snapshotfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewout/snapvault/internal/core/domain"
	"github.com/ewout/snapvault/internal/core/repository"
)

const tmpSuffix = ".tmp"

type Store struct {
	dir string
	log zerolog.Logger

	// overridable for deterministic naming in tests
	now func() time.Time
}

func New(dir string, log zerolog.Logger) *Store {
	return &Store{
		dir: dir,
		log: log.With().Str("component", "snapshotfs").Logger(),
		now: time.Now,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory %s: %w", s.dir, err)
	}
	return nil
}

func (s *Store) List() ([]domain.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		// A directory that was never created holds zero snapshots.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot directory %s: %w", s.dir, err)
	}

	var snaps []domain.Snapshot
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !domain.ValidSnapshotName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// The file may have been deleted between ReadDir and Info.
			s.log.Warn().Err(err).Str("name", name).Msg("skipping unreadable snapshot entry")
			continue
		}
		snaps = append(snaps, domain.Snapshot{
			Name:      name,
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
		}
		return snaps[i].Name > snaps[j].Name
	})

	return snaps, nil
}

func (s *Store) Create(srcPath string) (*domain.Snapshot, error) {
	name, err := s.nextName()
	if err != nil {
		return nil, err
	}

	dst := filepath.Join(s.dir, name)
	tmp := dst + tmpSuffix

	if err := copyFile(srcPath, tmp); err != nil {
		// The temp name never matches the snapshot pattern, so a partial
		// file is invisible to List; remove it anyway.
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("failed to copy %s: %w", srcPath, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("failed to finalize snapshot %s: %w", name, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to stat new snapshot %s: %w", name, err)
	}

	return &domain.Snapshot{
		Name:      name,
		SizeBytes: info.Size(),
		CreatedAt: info.ModTime(),
	}, nil
}

// nextName picks a fresh snapshot name, appending a numeric sequence when a
// snapshot with the same second-granularity timestamp already exists.
func (s *Store) nextName() (string, error) {
	at := s.now()
	name := domain.SnapshotName(at)
	for seq := 1; ; seq++ {
		_, err := os.Stat(filepath.Join(s.dir, name))
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to probe snapshot name %s: %w", name, err)
		}
		name = domain.SnapshotNameSeq(at, seq)
	}
}

func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fs.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}
	return data, nil
}

func (s *Store) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return fs.ErrNotExist
		}
		return fmt.Errorf("failed to remove snapshot %s: %w", name, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

var _ repository.SnapshotStore = (*Store)(nil)
