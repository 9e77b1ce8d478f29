package selector

// Caps bounds how many same-kind outcomes may follow each other. 0 disables a cap.
type Caps struct {
	MaxReal   int
	MaxFiller int
}

// Override is the streak verdict for the next spin.
type Override int

const (
	None Override = iota
	ForceReal
	ForceFiller
)

func (o Override) String() string {
	switch o {
	case ForceReal:
		return "force_real"
	case ForceFiller:
		return "force_filler"
	default:
		return "none"
	}
}

// Streak counts consecutive real and filler outcomes. The opposite outcome
// resets a counter; Reset clears both at day rollover.
type Streak struct {
	ConsecutiveReal   int
	ConsecutiveFiller int
}

// Override checks the caps before the pacing draw. A filler streak at its cap
// forces a real prize when real stock exists; otherwise a real streak at its
// cap forces the filler when the filler has stock.
func (s *Streak) Override(c Caps, realAvailable, fillerAvailable bool) Override {
	if c.MaxFiller > 0 && s.ConsecutiveFiller >= c.MaxFiller && realAvailable {
		return ForceReal
	}
	if c.MaxReal > 0 && s.ConsecutiveReal >= c.MaxReal && fillerAvailable {
		return ForceFiller
	}
	return None
}

// Record updates the counters after an outcome.
func (s *Streak) Record(real bool) {
	if real {
		s.ConsecutiveReal++
		s.ConsecutiveFiller = 0
		return
	}
	s.ConsecutiveFiller++
	s.ConsecutiveReal = 0
}

func (s *Streak) Reset() {
	s.ConsecutiveReal = 0
	s.ConsecutiveFiller = 0
}
