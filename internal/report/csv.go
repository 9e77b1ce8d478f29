package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Summary is one day's report content.
type Summary struct {
	Date        string
	TotalSpins  int
	TotalFiller int
	Delivered   []PrizeCount
}

type PrizeCount struct {
	ID        string
	Name      string
	Delivered int
}

// DeliveredOf returns the delivered count for id (case-insensitive).
func (s Summary) DeliveredOf(id string) int {
	for _, p := range s.Delivered {
		if strings.EqualFold(p.ID, id) {
			return p.Delivered
		}
	}
	return 0
}

const (
	metricHeader = "Metric"
	prizeHeader  = "PrizeID"
)

// encode renders the artifact. Only prizes with deliveries are listed.
func encode(s Summary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll([][]string{
		{metricHeader, "Value"},
		{"Date", s.Date},
		{"TotalSpins", strconv.Itoa(s.TotalSpins)},
		{"TotalFiller", strconv.Itoa(s.TotalFiller)},
	})
	if err := w.Error(); err != nil {
		return nil, err
	}
	// blank separator line
	buf.WriteString("\n")

	w = csv.NewWriter(&buf)
	rows := [][]string{{prizeHeader, "PrizeName", "Delivered"}}
	for _, p := range s.Delivered {
		if p.Delivered <= 0 {
			continue
		}
		rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(p.Delivered)})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadSummary parses a report artifact written by the aggregator.
func ReadSummary(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) (Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Summary{}, fmt.Errorf("parse report: %w", err)
	}
	if len(recs) == 0 || recs[0][0] != metricHeader {
		return Summary{}, errors.New("parse report: missing metric header")
	}
	var s Summary
	inPrizes := false
	for _, rec := range recs[1:] {
		if rec[0] == prizeHeader {
			inPrizes = true
			continue
		}
		if inPrizes {
			if len(rec) < 3 {
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(rec[2]))
			if err != nil {
				return Summary{}, fmt.Errorf("parse report: delivered for %q: %w", rec[0], err)
			}
			s.Delivered = append(s.Delivered, PrizeCount{ID: rec[0], Name: rec[1], Delivered: n})
			continue
		}
		if len(rec) < 2 {
			continue
		}
		switch rec[0] {
		case "Date":
			s.Date = strings.TrimSpace(rec[1])
		case "TotalSpins":
			s.TotalSpins, err = strconv.Atoi(strings.TrimSpace(rec[1]))
		case "TotalFiller":
			s.TotalFiller, err = strconv.Atoi(strings.TrimSpace(rec[1]))
		}
		if err != nil {
			return Summary{}, fmt.Errorf("parse report: %s: %w", rec[0], err)
		}
	}
	return s, nil
}
