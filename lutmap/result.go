//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"sort"

	"github.com/markkurossi/lutmap/rtl"
)

// Stats holds statistics about a mapping run.
type Stats struct {
	NSingle              int
	NDual                int
	Depth                int
	AvgAreaFlow          float64
	DualStage1Considered int
	DualStage2Considered int
	Unmapped             int
}

// Result is the outcome of mapping one module: the single-output and
// dual-output mappings (disjoint in their output signals), run
// statistics, and the arrival-time map for downstream timing-aware
// passes.
type Result struct {
	Single map[rtl.Signal]SingleCut
	Double map[OutputPair]DoubleCut
	Stats  Stats
	Depths map[rtl.Signal]float64
}

// SingleOutputs returns the single-mapped output signals in the
// canonical order.
func (res *Result) SingleOutputs() []rtl.Signal {
	result := make([]rtl.Signal, 0, len(res.Single))
	for sig := range res.Single {
		result = append(result, sig)
	}
	rtl.SortSignals(result)
	return result
}

// DoublePairs returns the dual-output pairs ordered by their Z and
// Z5 signals.
func (res *Result) DoublePairs() []OutputPair {
	result := make([]OutputPair, 0, len(res.Double))
	for pair := range res.Double {
		result = append(result, pair)
	}
	sort.Slice(result, func(i, j int) bool {
		if cmp := result[i].Z.Compare(result[j].Z); cmp != 0 {
			return cmp < 0
		}
		return result[i].Z5.Compare(result[j].Z5) < 0
	})
	return result
}

// CutSizeDistribution returns, for each cut size 1..6, the number of
// emitted single-output cuts of that size. Trivial cuts are not
// counted.
func (res *Result) CutSizeDistribution() [7]int {
	var dist [7]int
	for _, cut := range res.Single {
		if cut.Trivial() {
			continue
		}
		if n := len(cut.Inputs); n >= 1 && n <= 6 {
			dist[n]++
		}
	}
	return dist
}
