package stats

// Delta is the change of a figure against a baseline. Percent is nil when
// the baseline is 0.
type Delta struct {
	Difference float64  `json:"difference"`
	Percent    *float64 `json:"percent"`
}

func Compare(current, baseline float64) Delta {
	d := Delta{Difference: current - baseline}
	if baseline != 0 {
		p := d.Difference / baseline * 100
		d.Percent = &p
	}
	return d
}
