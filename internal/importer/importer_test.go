package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/tinytracker/internal/store"
)

const sampleExport = `{
  "feedings": [
    {"id": "f1", "timestamp": 1700000000000, "ounces": 4.5},
    {"timestamp": 1700000100000, "ounces": 0},
    {"timestamp": "bad"}
  ],
  "nursing": [
    {"id": "n1", "startTime": 1700000200000, "leftDurationSec": 600, "rightDurationSec": 300},
    {"leftDurationSec": 600}
  ],
  "solids": [
    {"id": "s1", "timestamp": 1700000300000, "foods": ["apple", {"name": "pear"}, 3]}
  ],
  "sleep": [
    {"id": "z1", "startTime": 1700000400000, "endTime": 1700003000000},
    {"id": "z2", "startTime": 1700004000000, "endTime": null, "isActive": true},
    {"endTime": 1700003000000}
  ]
}`

func TestDecodeSkipsMalformedDocuments(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Feedings) != 1 || res.Feedings[0].Ounces != 4.5 {
		t.Fatalf("unexpected feedings: %+v", res.Feedings)
	}
	if len(res.Nursing) != 1 || res.Nursing[0].At() != 1700000200000 {
		t.Fatalf("unexpected nursing: %+v", res.Nursing)
	}
	if len(res.Solids) != 1 {
		t.Fatalf("unexpected solids: %+v", res.Solids)
	}
	foods := res.Solids[0].Foods
	if len(foods) != 3 || foods[0] != "apple" || foods[1] != "pear" || foods[2] != "food" {
		t.Fatalf("unexpected foods: %v", foods)
	}
	if len(res.Sleep) != 2 {
		t.Fatalf("expected 2 sleep sessions, got %d", len(res.Sleep))
	}
	if res.Sleep[1].EndTime != 0 || !res.Sleep[1].IsActive {
		t.Fatalf("expected active sleep without end, got %+v", res.Sleep[1])
	}
	if res.Skipped != 4 {
		t.Fatalf("expected 4 skipped documents, got %d", res.Skipped)
	}
	if res.Total() != 5 {
		t.Fatalf("expected 5 records, got %d", res.Total())
	}
}

func TestDecodeClearsActiveFlagOnFinishedSleep(t *testing.T) {
	const export = `{"sleep": [{"id": "z1", "startTime": 1710000000000, "endTime": 1710003600000, "isActive": true}]}`
	res, err := Decode(strings.NewReader(export))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Sleep) != 1 || res.Sleep[0].IsActive || res.Sleep[0].EndTime != 1710003600000 {
		t.Fatalf("expected finished inactive session, got %+v", res.Sleep)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "tinytracker.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	if err := Import(ctx, st, res); err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, err := st.StartSleep(ctx, 1710007200000); err != nil {
		t.Fatalf("start sleep after import: %v", err)
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{")); err == nil {
		t.Fatalf("expected error for truncated export")
	}
}

func TestImportWritesToStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	res, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	st, err := store.Open(filepath.Join(dir, "tinytracker.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	}()

	ctx := context.Background()
	if err := Import(ctx, st, res); err != nil {
		t.Fatalf("import: %v", err)
	}
	// Importing twice replaces records by ID.
	if err := Import(ctx, st, res); err != nil {
		t.Fatalf("second import: %v", err)
	}

	feedings, err := st.ListFeedings(ctx, 0)
	if err != nil {
		t.Fatalf("list feedings: %v", err)
	}
	if len(feedings) != 1 || feedings[0].ID != "f1" {
		t.Fatalf("unexpected feedings: %+v", feedings)
	}
	solids, err := st.ListSolids(ctx, 0)
	if err != nil {
		t.Fatalf("list solids: %v", err)
	}
	if len(solids) != 1 || len(solids[0].Foods) != 3 {
		t.Fatalf("unexpected solids: %+v", solids)
	}
	active, err := st.ActiveSleep(ctx)
	if err != nil {
		t.Fatalf("active sleep: %v", err)
	}
	if active == nil || active.ID != "z2" {
		t.Fatalf("expected z2 active, got %+v", active)
	}
}
