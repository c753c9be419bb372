package genetic

// LinearSchedule anneals heat from 1.0 down to Floor over Span generations
// counted from the last objective change, then holds at Floor
type LinearSchedule struct {
	Span  int
	Floor float64
}

func (s LinearSchedule) Heat(sinceChange int) float64 {
	if s.Span <= 0 {
		return max(s.Floor, 0)
	}
	h := 1 - float64(sinceChange)/float64(s.Span)
	return max(h, s.Floor, 0)
}

// ConstantSchedule never anneals
type ConstantSchedule struct {
	Value float64
}

func (s ConstantSchedule) Heat(int) float64 {
	return s.Value
}
