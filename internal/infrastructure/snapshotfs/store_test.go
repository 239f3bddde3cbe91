package snapshotfs

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "backups"), zerolog.Nop())
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "data.db")
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
	return src
}

func TestEnsureDirIdempotent(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.EnsureDir(); err != nil {
			t.Fatalf("EnsureDir call %d failed: %v", i+1, err)
		}
	}

	info, err := os.Stat(store.Dir())
	if err != nil {
		t.Fatalf("snapshot directory missing: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("snapshot path is not a directory")
	}
}

func TestListMissingDirectory(t *testing.T) {
	store := newTestStore(t)

	snaps, err := store.List()
	if err != nil {
		t.Fatalf("List on missing directory should not fail: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected empty listing, got %v", snaps)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"notes.txt",
		"other.db",
		"backup_malformed.db",
		"backup_2026-08-30T10-00-00.db.tmp",
	} {
		if err := os.WriteFile(filepath.Join(store.Dir(), name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "backup_2026-08-30T10-00-00.db"), []byte("real"), 0o644); err != nil {
		t.Fatal(err)
	}

	snaps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d: %v", len(snaps), snaps)
	}
	if snaps[0].Name != "backup_2026-08-30T10-00-00.db" {
		t.Errorf("unexpected snapshot: %s", snaps[0].Name)
	}
	if snaps[0].SizeBytes != 4 {
		t.Errorf("expected size 4, got %d", snaps[0].SizeBytes)
	}
}

func TestListSortsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	names := []string{
		"backup_2026-08-28T10-00-00.db",
		"backup_2026-08-30T10-00-00.db",
		"backup_2026-08-29T10-00-00.db",
	}
	ages := []time.Duration{-48 * time.Hour, 0, -24 * time.Hour}
	for i, name := range names {
		path := filepath.Join(store.Dir(), name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		at := base.Add(ages[i])
		if err := os.Chtimes(path, at, at); err != nil {
			t.Fatal(err)
		}
	}

	snaps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"backup_2026-08-30T10-00-00.db",
		"backup_2026-08-29T10-00-00.db",
		"backup_2026-08-28T10-00-00.db",
	}
	for i, name := range want {
		if snaps[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, snaps[i].Name)
		}
	}
}

func TestCreateRoundTrip(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}
	content := "sqlite file contents"
	src := writeSource(t, content)

	snap, err := store.Create(src)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if snap.SizeBytes != int64(len(content)) {
		t.Errorf("expected size %d, got %d", len(content), snap.SizeBytes)
	}

	data, err := store.Read(snap.Name)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(data, []byte(content)) {
		t.Errorf("snapshot content differs from source")
	}

	snaps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].Name != snap.Name {
		t.Errorf("expected listing to contain exactly %s, got %v", snap.Name, snaps)
	}
}

func TestCreateSameSecondGetsDistinctNames(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}
	src := writeSource(t, "data")

	// Freeze the clock so both snapshots land in the same second.
	at := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	store.now = func() time.Time { return at }

	first, err := store.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	third, err := store.Create(src)
	if err != nil {
		t.Fatal(err)
	}

	if first.Name != "backup_2026-08-30T14-05-09.db" {
		t.Errorf("unexpected first name: %s", first.Name)
	}
	if second.Name != "backup_2026-08-30T14-05-09-1.db" {
		t.Errorf("unexpected second name: %s", second.Name)
	}
	if third.Name != "backup_2026-08-30T14-05-09-2.db" {
		t.Errorf("unexpected third name: %s", third.Name)
	}

	snaps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 3 {
		t.Errorf("expected 3 snapshots, got %d", len(snaps))
	}
}

func TestCreateFailureLeavesNoPartialFile(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}

	// A directory as source makes the copy fail partway through.
	if _, err := store.Create(t.TempDir()); err == nil {
		t.Fatal("expected Create to fail for unreadable source")
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory after failed create, found %d entries", len(entries))
	}
}

func TestReadMissing(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}

	_, err := store.Read("backup_2026-08-30T10-00-00.db")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestRemoveMissing(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}

	err := store.Remove("backup_2026-08-30T10-00-00.db")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	if err := store.EnsureDir(); err != nil {
		t.Fatal(err)
	}
	src := writeSource(t, "data")

	snap, err := store.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(snap.Name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	snaps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected empty listing after remove, got %v", snaps)
	}
}
