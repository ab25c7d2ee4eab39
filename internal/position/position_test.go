package position

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestRead_HeaderOrderAndExtraColumns(t *testing.T) {
	input := "\ufeffname,rank,coord1D,coord2D,party\n" +
		"김철수,1,-0.8,0.1,A당\n" +
		"이영희,2,0.6,,B당\n"

	got, err := Read(strings.NewReader(input), zap.NewNop())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(got))
	}
	if got[0].Name != "김철수" || got[0].Coord1D != -0.8 || got[0].Party != "A당" {
		t.Errorf("unexpected first position: %+v", got[0])
	}
	if got[1].Coord2D != 0 {
		t.Errorf("empty coord2D should read as 0, got %v", got[1].Coord2D)
	}
}

func TestRead_SkipsInvalidRows(t *testing.T) {
	input := "party,name,coord1D,coord2D\n" +
		"A당,김철수,NA,0\n" +
		"A당,,0.3,0\n" +
		"C당,박민수,NaN,0\n" +
		"C당,최지원,+Inf,0\n" +
		"C당,정하늘,-inf,0\n" +
		"B당,이영희,0.6,0.2\n"

	got, err := Read(strings.NewReader(input), zap.NewNop())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "이영희" {
		t.Errorf("expected only the valid row, got %+v", got)
	}
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("party,name,coord2D\nA당,김철수,0.1\n"), zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "coord1D") {
		t.Errorf("expected missing coord1D error, got %v", err)
	}
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), zap.NewNop())
	if !errors.Is(err, ErrNoPositions) {
		t.Errorf("expected ErrNoPositions, got %v", err)
	}

	_, err = Read(strings.NewReader("party,name,coord1D,coord2D\n"), zap.NewNop())
	if !errors.Is(err, ErrNoPositions) {
		t.Errorf("expected ErrNoPositions for header-only file, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wnominate_results.csv")
	if err := os.WriteFile(path, []byte("party,name,coord1D,coord2D\nA당,김철수,-0.8,0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path, zap.NewNop())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 position, got %d", len(got))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv"), zap.NewNop()); err == nil {
		t.Error("expected error for missing file")
	}
}
