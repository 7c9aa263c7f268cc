//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"sort"

	"github.com/markkurossi/lutmap/rtl"
	"github.com/sirupsen/logrus"
)

// CutManager enumerates cuts per signal by bounded set-merge in
// topological order and keeps the P best per signal under the
// current Evaluator comparison.
type CutManager struct {
	graph *Graph
	eval  *Evaluator
	log   logrus.FieldLogger

	maxCutSize int
	maxCuts    int

	priority map[rtl.Signal][]SingleCut
}

// NewCutManager creates a cut manager over the graph.
func NewCutManager(graph *Graph, eval *Evaluator,
	log logrus.FieldLogger) *CutManager {

	return &CutManager{
		graph:      graph,
		eval:       eval,
		log:        log,
		maxCutSize: 6,
		maxCuts:    20,
	}
}

// Compute enumerates priority cuts for every combinational gate
// output, discarding previous results.
func (cm *CutManager) Compute(maxCutSize, maxCuts int) {
	cm.maxCutSize = maxCutSize
	cm.maxCuts = maxCuts
	cm.priority = make(map[rtl.Signal][]SingleCut)

	topo := cm.graph.TopoOrder()
	for _, sig := range topo {
		cuts := cm.enumerate(sig)
		cm.selectPriorityCuts(sig, cuts)
	}
	cm.log.Debugf("cuts: computed priority cuts for %d signals (K=%d, P=%d)",
		len(topo), maxCutSize, maxCuts)
}

// BestCut returns the top priority cut of the signal, or the trivial
// cut {s} on the degenerate case: primary inputs, constants, and
// boundary outputs have no enumerated cuts.
func (cm *CutManager) BestCut(sig rtl.Signal) SingleCut {
	if cuts := cm.priority[sig]; len(cuts) > 0 {
		return cuts[0]
	}
	return SingleCut{
		Inputs: Cut{sig},
		Output: sig,
	}
}

// PriorityCuts returns the signal's retained cuts in priority order.
func (cm *CutManager) PriorityCuts(sig rtl.Signal) []SingleCut {
	return cm.priority[sig]
}

// family returns the cut input sets of the signal plus the signal's
// own singleton, or just {{s}} when the signal has no priority cuts.
// The singleton lets consumers stop at the fan-in instead of always
// flattening to the leaves, which is what allows a shared node to
// materialise as its own LUT; at boundaries it also seeds the
// enumeration and caps the explosion.
func (cm *CutManager) family(sig rtl.Signal) []Cut {
	cuts := cm.priority[sig]
	if len(cuts) == 0 {
		return []Cut{{sig}}
	}
	result := make([]Cut, 0, len(cuts)+1)
	for _, cut := range cuts {
		result = append(result, cut.Inputs)
	}
	result = append(result, Cut{sig})
	return result
}

// enumerate builds the cut set of the signal by merging the cut
// families of its driver's fan-ins. The running accumulator is
// combined against one fan-in at a time so the K-size prune applies
// at every step.
func (cm *CutManager) enumerate(sig rtl.Signal) []Cut {
	driver := cm.graph.Driver(sig)
	if driver == nil {
		return []Cut{{sig}}
	}
	inputs := cm.graph.CellInputs(driver)
	if len(inputs) == 0 {
		// A gate with no variable inputs, e.g. a constant
		// generator.
		return []Cut{{sig}}
	}

	acc := cm.family(inputs[0])
	for i := 1; i < len(inputs); i++ {
		next := cm.family(inputs[i])

		merged := make(map[string]Cut)
		for _, a := range acc {
			for _, b := range next {
				union := a.Union(b)
				if len(union) > cm.maxCutSize {
					continue
				}
				merged[union.Key()] = union
			}
		}
		acc = cutsOf(merged)
	}

	// Deduplicate single-input inheritance too: the families of a
	// one-input gate arrive unmerged.
	if len(inputs) == 1 {
		seen := make(map[string]Cut)
		for _, c := range acc {
			seen[c.Key()] = c
		}
		acc = cutsOf(seen)
	}

	// A cut never contains its own output.
	result := acc[:0]
	for _, c := range acc {
		if !c.Contains(sig) {
			result = append(result, c)
		}
	}
	return result
}

// cutsOf returns the map's cuts in deterministic order.
func cutsOf(m map[string]Cut) []Cut {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Cut, len(keys))
	for i, key := range keys {
		result[i] = m[key]
	}
	return result
}

// selectPriorityCuts materialises the cuts as SingleCuts, orders
// them under the Evaluator, and retains the first P. The candidates
// are pre-sorted into the static canonical order so equal scores
// resolve deterministically.
func (cm *CutManager) selectPriorityCuts(sig rtl.Signal, cuts []Cut) {
	if len(cuts) == 0 {
		return
	}
	all := make([]SingleCut, len(cuts))
	for i, cut := range cuts {
		all[i] = SingleCut{
			Inputs: cut,
			Output: sig,
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Compare(all[j]) < 0
	})
	sort.SliceStable(all, func(i, j int) bool {
		return cm.eval.Better(all[i], all[j])
	})

	if len(all) > cm.maxCuts {
		all = all[:cm.maxCuts]
	}
	cm.priority[sig] = all
}
