// Package vectorindex adapts nearest-neighbour backends to the retrieval
// pipeline. Every backend returns matches ordered by similarity, highest first.
package vectorindex

import (
	"sort"

	"github.com/kailas-cloud/vedarag/internal/domain/match"
)

func sortMatches(ms []match.Match) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Score > ms[j].Score })
}
