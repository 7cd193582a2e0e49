package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGeneratesName(t *testing.T) {
	s := openStore(t)

	name, err := s.Save(Record{FEN: "fen", PGN: "1. e4 *"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name == "" || !strings.Contains(name, "-") {
		t.Errorf("generated name = %q, want a petname", name)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openStore(t)

	rec := Record{
		Name:    "kings-indian",
		FEN:     "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		PGN:     "1. e4 e5 *",
		SavedAt: 1700000000,
	}
	if _, err := s.Save(rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load("kings-indian")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(rec, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openStore(t)

	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load = %v, want ErrNotFound", err)
	}
}

func TestListMostRecentFirst(t *testing.T) {
	s := openStore(t)

	for _, rec := range []Record{
		{Name: "older", FEN: "a", SavedAt: 100},
		{Name: "newer", FEN: "b", SavedAt: 200},
	} {
		if _, err := s.Save(rec); err != nil {
			t.Fatalf("Save(%s): %v", rec.Name, err)
		}
	}
	recs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 || recs[0].Name != "newer" || recs[1].Name != "older" {
		t.Errorf("List order = %+v, want newer first", recs)
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)

	if _, err := s.Save(Record{Name: "gone", FEN: "x", SavedAt: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing = %v, want ErrNotFound", err)
	}
}
