package engine

// PrizeStatus is one catalog slot's stock for the active day.
type PrizeStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Filler    bool   `json:"filler"`
	Ledger    int    `json:"ledger"`
	Remaining int    `json:"remaining"`
	Delivered int    `json:"delivered"`
}

// Status is a diagnostic view of the engine.
type Status struct {
	Date              string        `json:"date"`
	Initialized       bool          `json:"initialized"`
	Mode              int           `json:"mode"`
	Phase             string        `json:"phase"`
	DryRun            bool          `json:"dry_run"`
	DailyGoal         int           `json:"daily_goal"`
	DeliveredReal     int           `json:"delivered_real"`
	RemainingReal     int           `json:"remaining_real"`
	FillerAvailable   bool          `json:"filler_available"`
	SpinsDone         int           `json:"spins_done"`
	TotalSpins        int           `json:"total_spins"`
	TotalFiller       int           `json:"total_filler"`
	ConsecutiveReal   int           `json:"consecutive_real"`
	ConsecutiveFiller int           `json:"consecutive_filler"`
	MissingDay        bool          `json:"missing_day"`
	LedgerAbsent      bool          `json:"ledger_absent"`
	CommitErrors      int           `json:"commit_errors"`
	Prizes            []PrizeStatus `json:"prizes"`
}

// Status waits for any in-flight spin, so Phase normally reads idle.
func (e *Engine) Status() Status {
	phase := e.Phase()
	e.mu.Lock()
	defer e.mu.Unlock()

	sum := e.report.Summary()
	st := Status{
		Date:              e.date,
		Initialized:       e.initialized,
		Mode:              e.mode,
		Phase:             phase.String(),
		DryRun:            e.opts.DryRun,
		DailyGoal:         e.goal,
		SpinsDone:         e.spinsDone,
		TotalSpins:        sum.TotalSpins,
		TotalFiller:       sum.TotalFiller,
		ConsecutiveReal:   e.streak.ConsecutiveReal,
		ConsecutiveFiller: e.streak.ConsecutiveFiller,
		MissingDay:        e.missingDay,
		LedgerAbsent:      e.ledgerAbsent,
		CommitErrors:      e.commitErrors,
	}
	if !e.initialized {
		return st
	}
	st.RemainingReal = e.realStock()
	st.FillerAvailable = e.fillerAvailable()
	st.Prizes = make([]PrizeStatus, 0, e.catalog.Len())
	for i, p := range e.catalog.Prizes {
		ps := PrizeStatus{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category.String(),
			Filler:    i == e.filler,
			Ledger:    e.ledger[i],
			Remaining: e.remaining[i],
		}
		if !ps.Filler {
			ps.Delivered = max(0, e.ledger[i]-e.remaining[i])
			st.DeliveredReal += ps.Delivered
		}
		st.Prizes = append(st.Prizes, ps)
	}
	return st
}
