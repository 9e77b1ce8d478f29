package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtding233/prizewheel/internal/prize"
)

func testCatalog() prize.Catalog {
	return prize.Catalog{Prizes: []prize.Definition{
		{ID: "A", Name: "Prize A", Category: prize.Small, Weight: 1},
		{ID: "B", Name: `Big, "shiny" thing`, Category: prize.Large, Weight: 1},
		{ID: prize.FillerID, Name: "Try again", Category: prize.Small, Weight: 1},
	}}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestInitializeWritesEmptyReport(t *testing.T) {
	dir := t.TempDir()
	a := NewAggregator(dir, nil)
	a.Initialize("2025-01-01", testCatalog(), Seed{})

	want := "Metric,Value\nDate,2025-01-01\nTotalSpins,0\nTotalFiller,0\n\nPrizeID,PrizeName,Delivered\n"
	if got := readFile(t, filepath.Join(dir, "report_2025-01-01.csv")); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRecordWritesThroughAndEscapes(t *testing.T) {
	dir := t.TempDir()
	a := NewAggregator(dir, nil)
	a.Initialize("2025-01-01", testCatalog(), Seed{})

	a.Record(Outcome{PrizeID: "A", PrizeName: "Prize A"})
	a.Record(Outcome{PrizeID: "b"})
	a.Record(Outcome{PrizeID: prize.FillerID, Filler: true})
	a.Record(Outcome{PrizeID: "A"})

	got := readFile(t, a.Path("2025-01-01"))
	if !strings.Contains(got, "TotalSpins,4\n") || !strings.Contains(got, "TotalFiller,1\n") {
		t.Fatalf("totals missing:\n%s", got)
	}
	if !strings.Contains(got, "A,Prize A,2\n") {
		t.Fatalf("A row missing:\n%s", got)
	}
	if !strings.Contains(got, `B,"Big, ""shiny"" thing",1`) {
		t.Fatalf("escaped B row missing:\n%s", got)
	}
	if strings.Contains(got, "TRYAGAIN,") {
		t.Fatalf("filler must not be listed as delivered:\n%s", got)
	}

	s, err := ReadSummary(a.Path("2025-01-01"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if s.Date != "2025-01-01" || s.TotalSpins != 4 || s.TotalFiller != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.DeliveredOf("a") != 2 || s.DeliveredOf("B") != 1 {
		t.Fatalf("delivered = %+v", s.Delivered)
	}
	if s.Delivered[1].Name != `Big, "shiny" thing` {
		t.Fatalf("name round-trip: %q", s.Delivered[1].Name)
	}
}

func TestRotateClosesOldDay(t *testing.T) {
	dir := t.TempDir()
	a := NewAggregator(dir, nil)
	a.Initialize("2025-01-01", testCatalog(), Seed{})
	a.Record(Outcome{PrizeID: "A"})

	a.Rotate("2025-01-02")
	old, err := ReadSummary(a.Path("2025-01-01"))
	if err != nil || old.TotalSpins != 1 {
		t.Fatalf("old day: %+v %v", old, err)
	}
	fresh, err := ReadSummary(a.Path("2025-01-02"))
	if err != nil {
		t.Fatalf("new day report should exist: %v", err)
	}
	if fresh.TotalSpins != 0 || len(fresh.Delivered) != 0 {
		t.Fatalf("new day should be empty: %+v", fresh)
	}
	if a.Date() != "2025-01-02" {
		t.Fatalf("date = %s", a.Date())
	}
}

func TestSeedRestoresCounters(t *testing.T) {
	dir := t.TempDir()
	a := NewAggregator(dir, nil)
	a.Initialize("2025-01-01", testCatalog(), Seed{
		TotalSpins:  2,
		TotalFiller: 3,
		Delivered:   map[string]int{"a": 4, "ghost": 9},
	})
	s := a.Summary()
	if s.DeliveredOf("A") != 4 || s.TotalFiller != 3 {
		t.Fatalf("summary = %+v", s)
	}
	// totals never fall below what the counters account for
	if s.TotalSpins != 7 {
		t.Fatalf("total spins = %d, want 7", s.TotalSpins)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	a := NewAggregator(dir, nil)
	a.DryRun = true
	a.Initialize("2025-01-01", testCatalog(), Seed{})
	a.Record(Outcome{PrizeID: "A"})
	a.Flush(true)
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("dry run wrote %d files", len(entries))
	}
	if a.Summary().TotalSpins != 1 {
		t.Fatalf("dry run should still count")
	}
}

func TestReadSummaryRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.csv")
	if err := os.WriteFile(path, []byte("hello,world\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadSummary(path); err == nil {
		t.Fatalf("expected error")
	}
}
