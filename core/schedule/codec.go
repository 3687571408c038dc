package schedule

// ToBinary marks a cell online iff its run length is strictly positive.
func ToBinary(s Integer) Binary {
	b := NewBinary(s.Periods(), s.Units())
	for t, row := range s {
		for n, v := range row {
			if v > 0 {
				b[t][n] = 1
			}
		}
	}
	return b
}

// ToInteger rebuilds run lengths from on/off flags, seeded by initStatus for
// the period preceding the horizon. Each column is a sequential scan: an
// unchanged state extends the previous run by one, a flip restarts at +/-1.
func ToInteger(b Binary, initStatus []int) Integer {
	periods, units := b.Periods(), b.Units()
	backing := make([]int, periods*units)
	s := make(Integer, periods)
	for t := range s {
		s[t] = backing[t*units : (t+1)*units : (t+1)*units]
	}
	for n := 0; n < units; n++ {
		prev := initStatus[n]
		for t := 0; t < periods; t++ {
			on := b[t][n] > 0
			switch {
			case on && prev > 0:
				prev++
			case !on && prev <= 0:
				prev--
			case on:
				prev = 1
			default:
				prev = -1
			}
			s[t][n] = prev
		}
	}
	return s
}
