package actor

// StatNames lists the six ability scores in display order.
var StatNames = []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}

// Stats holds ability scores keyed by stat name. Missing keys read as 0.
type Stats map[string]int

// Get returns the score for a stat, 0 when absent.
func (s Stats) Get(key string) int {
	if s == nil {
		return 0
	}
	return s[key]
}

// Clone returns a copy with every known stat present.
func (s Stats) Clone() Stats {
	out := make(Stats, len(StatNames))
	for _, key := range StatNames {
		out[key] = s.Get(key)
	}
	return out
}
