package simulate

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtding233/prizewheel/internal/engine"
	"github.com/xtding233/prizewheel/internal/prize"
	"github.com/xtding233/prizewheel/internal/selector"
)

func testSetup(t *testing.T) Setup {
	t.Helper()
	dir := t.TempDir()
	ledger := filepath.Join(dir, "inventory.csv")
	body := "date,prizeId,quantity\n" +
		"2025-11-20,S1,20\n2025-11-20,M1,8\n2025-11-20,L1,2\n2025-11-20,TRYAGAIN,1\n"
	if err := os.WriteFile(ledger, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return Setup{
		Catalog: prize.Catalog{Prizes: []prize.Definition{
			{ID: "S1", Name: "Small one", Category: prize.Small, Weight: 1},
			{ID: "M1", Name: "Medium one", Category: prize.Medium, Weight: 1},
			{ID: "L1", Name: "Large one", Category: prize.Large, Weight: 1},
			{ID: prize.FillerID, Name: "Try again", Category: prize.Small, Weight: 1},
		}},
		LedgerPath: ledger,
		Options: engine.Options{
			MinProb:            0.05,
			MaxProb:            0.95,
			AdjustmentStrength: 1,
			Shares:             selector.DefaultShares,
		},
	}
}

func TestSplitRuns(t *testing.T) {
	got := SplitRuns(500, DefaultModeShares)
	if got != [3]int{150, 150, 200} {
		t.Fatalf("split = %v", got)
	}
	got = SplitRuns(10, [3]float64{0.8, 0.8, 0})
	if got[0]+got[1]+got[2] != 10 || got[2] < 0 {
		t.Fatalf("oversubscribed split = %v", got)
	}
}

func TestModeSharesGivesRemainderToModeThree(t *testing.T) {
	got, err := ModeShares(0.3, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0.3 || got[1] != 0.3 || math.Abs(got[2]-0.4) > 1e-9 {
		t.Fatalf("got %v", got)
	}
	if split := SplitRuns(100, got); split != [3]int{30, 30, 40} {
		t.Fatalf("split=%v", split)
	}
	for _, bad := range [][2]float64{{0.7, 0.5}, {-0.1, 0.2}, {math.NaN(), 0}} {
		if _, err := ModeShares(bad[0], bad[1]); err == nil {
			t.Fatalf("shares %v should be rejected", bad)
		}
	}
}

func TestRunDayDeliversEverythingAndLeavesNoFiles(t *testing.T) {
	s := testSetup(t)
	before, _ := os.ReadDir(filepath.Dir(s.LedgerPath))

	res, err := RunDay(context.Background(), s, Params{Date: "2025-11-20", Runs: 100, ModeShares: [3]float64{0, 0, 1}, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.DailyGoal != 30 {
		t.Fatalf("goal = %d", res.DailyGoal)
	}
	// catch-up forcing guarantees the whole stock goes out in mode 3
	if res.Undelivered != 0 {
		t.Fatalf("undelivered = %d", res.Undelivered)
	}
	total := 0
	for _, p := range res.Delivered {
		total += p.Delivered
	}
	if total+res.Filler+res.Rejected != 100 || len(res.Timeline) != 100 {
		t.Fatalf("accounting: delivered %d filler %d rejected %d timeline %d", total, res.Filler, res.Rejected, len(res.Timeline))
	}
	if res.Timeline[0].Clock != "11:00" {
		t.Fatalf("timeline starts at %s", res.Timeline[0].Clock)
	}

	after, _ := os.ReadDir(filepath.Dir(s.LedgerPath))
	if len(after) != len(before) {
		t.Fatalf("dry run created files")
	}
}

func TestRunDayIsReproducible(t *testing.T) {
	s := testSetup(t)
	p := Params{Date: "2025-11-20", Runs: 60, ModeShares: DefaultModeShares, Seed: 9}
	a, err := RunDay(context.Background(), s, p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunDay(context.Background(), s, p)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Timeline {
		if a.Timeline[i] != b.Timeline[i] {
			t.Fatalf("timeline diverged at %d: %+v vs %+v", i, a.Timeline[i], b.Timeline[i])
		}
	}
	for _, e := range a.Timeline[:18] {
		if e.Mode != 1 || (e.PrizeID != "S1" && e.PrizeID != prize.FillerID && e.PrizeID != RejectedID) {
			t.Fatalf("mode 1 block delivered %+v", e)
		}
	}
}

func TestExports(t *testing.T) {
	res := DayResult{
		Delivered: nil,
		Filler:    3,
		Rejected:  1,
		Timeline:  []TimelineEntry{{Clock: "11:00", Mode: 2, PrizeID: "M1"}},
	}
	var buf bytes.Buffer
	if err := WriteResults(&buf, res); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "PrizeID,Delivered\nTRYAGAIN,3\nREJECTED,1\n" {
		t.Fatalf("results:\n%s", got)
	}
	buf.Reset()
	if err := WriteTimeline(&buf, res); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "11:00,2,M1\n") {
		t.Fatalf("timeline:\n%s", buf.String())
	}
}

func TestMonteCarlo(t *testing.T) {
	s := testSetup(t)
	sum, err := RunMonteCarlo(context.Background(), s, Params{Date: "2025-11-20", Runs: 80, ModeShares: DefaultModeShares, Seed: 100}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Trials != 5 || len(sum.FillerShare.Samples) != 5 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.FillerShare.Mean < 0 || sum.FillerShare.Mean > 1 {
		t.Fatalf("filler share mean = %v", sum.FillerShare.Mean)
	}
}

func TestCalcStats(t *testing.T) {
	st := calcStats([]float64{1, 2, 3, 4})
	if st.Mean != 2.5 || st.P50 != 2.5 || math.Abs(st.StdDev-math.Sqrt(1.25)) > 1e-12 {
		t.Fatalf("stats = %+v", st)
	}
	if empty := calcStats(nil); empty.Mean != 0 || empty.Samples != nil {
		t.Fatalf("empty stats should be zero")
	}
}
