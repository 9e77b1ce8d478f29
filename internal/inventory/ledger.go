package inventory

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xtding233/prizewheel/internal/prize"
)

// BaseStock is the ledger's stock for one date, aligned with catalog indices.
type BaseStock struct {
	Stock []int
	// MissingDay: the ledger exists but has no row at all for the date.
	MissingDay bool
	// LedgerAbsent: no ledger file; Stock holds the catalog's initial stock.
	LedgerAbsent bool
	// ReadFailed: the ledger could not be read; Stock is all zero.
	ReadFailed bool
}

// Total sums the stock of every prize except skip (pass -1 to include all).
func (b BaseStock) Total(skip int) int {
	n := 0
	for i, v := range b.Stock {
		if i == skip {
			continue
		}
		n += v
	}
	return n
}

// LoadBaseStock scans the ledger rows "date,prizeId,quantity[,...]" for date.
// The last matching row per prize wins; bad or negative quantities count as zero.
func (s *Store) LoadBaseStock(date string, cat prize.Catalog) BaseStock {
	logger := s.logger()
	f, err := os.Open(s.LedgerPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("inventory ledger not found, using catalog initial stock",
				zap.String("path", s.LedgerPath), zap.String("date", date))
			return BaseStock{Stock: cat.InitialStock(), LedgerAbsent: true}
		}
		logger.Error("inventory ledger read failed", zap.String("path", s.LedgerPath), zap.Error(err))
		return BaseStock{Stock: make([]int, cat.Len()), ReadFailed: true}
	}
	defer f.Close()

	quantities, matched, err := scanLedger(f, date)
	if err != nil {
		logger.Error("inventory ledger parse failed", zap.String("path", s.LedgerPath), zap.Error(err))
		return BaseStock{Stock: make([]int, cat.Len()), ReadFailed: true}
	}

	out := BaseStock{Stock: make([]int, cat.Len())}
	if !matched {
		out.MissingDay = true
		logger.Warn("inventory ledger has no rows for date, all stock is zero",
			zap.String("path", s.LedgerPath), zap.String("date", date))
		return out
	}
	for i, p := range cat.Prizes {
		if q, ok := quantities[strings.ToLower(p.ID)]; ok {
			out.Stock[i] = q
		}
	}
	logger.Info("inventory ledger applied", zap.String("date", date), zap.Int("rows", len(quantities)))
	return out
}

// scanLedger returns lower-cased prize id -> quantity for date and whether any row matched.
// Each physical line is one row; a malformed line only affects itself.
func scanLedger(r io.Reader, date string) (map[string]int, bool, error) {
	sc := bufio.NewScanner(r)
	quantities := make(map[string]int)
	matched := false
	first := true
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := splitLedgerLine(line)
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
				continue
			}
		}
		if len(rec) < 3 {
			continue
		}
		if strings.TrimSpace(rec[0]) != date {
			continue
		}
		matched = true
		id := strings.ToLower(strings.TrimSpace(rec[1]))
		if id == "" {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil || qty < 0 {
			qty = 0
		}
		quantities[id] = qty
	}
	if err := sc.Err(); err != nil {
		return nil, false, err
	}
	return quantities, matched, nil
}

// splitLedgerLine parses one line as CSV, falling back to a plain comma split
// when the quoting is broken.
func splitLedgerLine(line string) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if rec, err := cr.Read(); err == nil && len(rec) > 0 {
		return rec
	}
	return strings.Split(line, ",")
}
