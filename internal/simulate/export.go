package simulate

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xtding233/prizewheel/internal/prize"
)

// WriteResults exports delivered counts per prize followed by the filler and
// rejected totals.
func WriteResults(w io.Writer, r DayResult) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"PrizeID", "Delivered"}}
	for _, p := range r.Delivered {
		rows = append(rows, []string{p.ID, strconv.Itoa(p.Delivered)})
	}
	rows = append(rows,
		[]string{prize.FillerID, strconv.Itoa(r.Filler)},
		[]string{RejectedID, strconv.Itoa(r.Rejected)},
	)
	return cw.WriteAll(rows)
}

// WriteTimeline exports one row per trigger: clock, mode, prize id.
func WriteTimeline(w io.Writer, r DayResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Time", "Mode", "PrizeID"}); err != nil {
		return err
	}
	for _, e := range r.Timeline {
		if err := cw.Write([]string{e.Clock, strconv.Itoa(e.Mode), e.PrizeID}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
