package retrieval

import "github.com/kailas-cloud/vedarag/internal/domain/match"

// candidates walks vector matches in the order the index returned them.
// The scan drains it only until the accumulator is full, so matches past
// the cutoff are never looked at.
type candidates struct {
	matches []match.Match
	pos     int
}

func newCandidates(ms []match.Match) *candidates {
	return &candidates{matches: ms}
}

// Take returns up to n next matches in index order.
func (c *candidates) Take(n int) []match.Match {
	end := min(c.pos+n, len(c.matches))
	out := c.matches[c.pos:end]
	c.pos = end
	return out
}

// Consumed reports how many matches have been handed out.
func (c *candidates) Consumed() int { return c.pos }
