//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"errors"
	"sort"

	"github.com/markkurossi/lutmap/rtl"
)

// The dual-output cell computes a 6-input function Z of I0..I5 and a
// 5-input function Z5 of I0..I4. The configuration word's lower half
// programs both Z5 and the projection of Z at I5=0, so a pair of
// cuts may merge iff
//
//	F_Z5(I0..I4) = F_Z(I0..I4, I5=0).
//
// The search runs in two stages: a cheap structural prefilter over
// the pending queue, then exact truth-table verification of the few
// surviving candidates.

// dualCandidate is a structurally compatible pair surviving Stage 1.
// The index map and don't-care positions are captured here, against
// the sorted input lists, and never recomputed downstream.
type dualCandidate struct {
	z5Output   rtl.Signal
	z5Inputs   Cut
	i5         rtl.Signal
	zRemaining Cut
	score      float64
	z5ToZ      map[int]int
	dontCare   []int
}

// findBestDoubleCut searches the pending queue for a node whose cut
// can merge with the best cut of now into a dual-output LUT. The
// first verified candidate in structural-score order wins.
func (mg *Merger) findBestDoubleCut(now rtl.Signal, q *cutQueue) (
	DoubleCut, bool) {

	nowCut := mg.cuts.BestCut(now)
	if len(nowCut.Inputs) < 2 || len(nowCut.Inputs) > 6 {
		return DoubleCut{}, false
	}

	// Stage 1: structural prefilter.
	var candidates []dualCandidate
	for _, other := range q.cuts {
		if other.Output == now {
			continue
		}
		if mg.dualOut[other.Output] {
			// Still queued but already consumed as a Z5.
			continue
		}
		if other.Inputs.Contains(other.Output) {
			continue
		}
		if len(other.Inputs) > 5 {
			continue
		}
		if mg.cfg.RequireSharedInput &&
			sharedInputs(nowCut.Inputs, other.Inputs) == 0 {
			continue
		}
		for _, i5 := range nowCut.Inputs {
			// The selector is consumed only by the Z path.
			if other.Inputs.Contains(i5) {
				continue
			}
			zRemaining := nowCut.Inputs.Without(i5)
			z5ToZ, dontCare, ok := inputCorrespondence(zRemaining,
				other.Inputs)
			if !ok {
				continue
			}
			merged := nowCut.Inputs.Union(other.Inputs)
			if len(merged) > 6 {
				continue
			}
			candidates = append(candidates, dualCandidate{
				z5Output:   other.Output,
				z5Inputs:   other.Inputs,
				i5:         i5,
				zRemaining: zRemaining,
				score:      mg.structuralScore(now, other.Output, merged),
				z5ToZ:      z5ToZ,
				dontCare:   dontCare,
			})
		}
	}
	if len(candidates) == 0 {
		return DoubleCut{}, false
	}
	mg.stage1Considered += len(candidates)

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score < b.score
		}
		if cmp := a.z5Output.Compare(b.z5Output); cmp != 0 {
			return cmp < 0
		}
		return a.i5.Compare(b.i5) < 0
	})
	if len(candidates) > mg.cfg.MaxDualCandidates {
		candidates = candidates[:mg.cfg.MaxDualCandidates]
	}

	// Stage 2: exact truth-table verification.
	for _, cand := range candidates {
		mg.stage2Considered++

		// Z's ordered inputs: the sorted non-selector inputs with
		// I5 at the final position, matching the hardware MUX.
		zInputs := make([]rtl.Signal, 0, len(cand.zRemaining)+1)
		zInputs = append(zInputs, cand.zRemaining...)
		zInputs = append(zInputs, cand.i5)

		zInit, err := mg.tt.Compute(now, zInputs)
		if err != nil {
			mg.logTTError(now, err)
			continue
		}
		z5Init, err := mg.tt.Compute(cand.z5Output, cand.z5Inputs)
		if err != nil {
			mg.logTTError(cand.z5Output, err)
			continue
		}
		if !verifyDualConstraint(zInit, z5Init, len(zInputs),
			len(cand.z5Inputs), cand.dontCare) {
			continue
		}

		inputs := cand.zRemaining.Union(cand.z5Inputs).
			Union(Cut{cand.i5})
		mg.log.Debugf("merger: dual-output Z=%s Z5=%s I5=%s",
			now, cand.z5Output, cand.i5)
		return DoubleCut{
			Inputs: inputs,
			Z:      now,
			Z5:     cand.z5Output,
			I5:     cand.i5,
		}, true
	}
	return DoubleCut{}, false
}

func (mg *Merger) logTTError(sig rtl.Signal, err error) {
	if errors.Is(err, ErrUnsupportedGate) {
		mg.log.Debugf("merger: dual candidate %s rejected: %s", sig, err)
	} else {
		mg.log.Warnf("merger: truth table for %s: %s", sig, err)
	}
}

// inputCorrespondence checks that the Z5 inputs are a subset of Z's
// non-selector inputs and returns the exact index map between the
// two sorted input lists, plus the Z positions unused by Z5.
func inputCorrespondence(zRemaining, z5Inputs Cut) (
	map[int]int, []int, bool) {

	z5ToZ := make(map[int]int)
	usedZ := make(map[int]bool)
	for i, sig := range z5Inputs {
		found := false
		for j, zSig := range zRemaining {
			if sig == zSig {
				z5ToZ[i] = j
				usedZ[j] = true
				found = true
				break
			}
		}
		if !found {
			return nil, nil, false
		}
	}
	var dontCare []int
	for j := range zRemaining {
		if !usedZ[j] {
			dontCare = append(dontCare, j)
		}
	}
	return z5ToZ, dontCare, true
}

// structuralScore estimates a candidate's quality without truth
// tables: fewer merged inputs, no depth increase, low estimated
// area flow, and many shared inputs score better (lower is better).
func (mg *Merger) structuralScore(z, z5 rtl.Signal, merged Cut) float64 {
	score := float64(len(merged)) * mg.cfg.InputCountWeight

	zDepth := mg.timing.Depth(z)
	z5Depth := mg.timing.Depth(z5)
	maxDepth := zDepth
	if z5Depth > maxDepth {
		maxDepth = z5Depth
	}
	if mg.timing.CutDepth(merged) > maxDepth {
		score += mg.cfg.DepthPenaltyWeight
	}

	succ := mg.ctx.FanoutRefs(z) + mg.ctx.FanoutRefs(z5)
	if succ < 1 {
		succ = 1
	}
	score += float64(len(merged)+1) / float64(succ) * mg.cfg.AreaFlowWeight

	shared := sharedInputs(mg.cuts.BestCut(z).Inputs,
		mg.cuts.BestCut(z5).Inputs)
	score += float64(shared) * mg.cfg.InputSharingWeight

	return score
}

func sharedInputs(a, b Cut) int {
	var count int
	for _, sig := range a {
		if b.Contains(sig) {
			count++
		}
	}
	return count
}

// verifyDualConstraint checks F_Z5 = F_Z at I5=0 over the exact
// input correspondence captured in Stage 1.
func verifyDualConstraint(zInit, z5Init Init, nZ, nZ5 int,
	dontCare []int) bool {

	if nZ == 6 {
		lower := Init(uint64(zInit) & 0xffffffff)

		if nZ5 < 5 {
			// The projection at I5=0 must not depend on the
			// inputs Z5 does not use.
			if !IsIndependent(lower, 5, dontCare) {
				return false
			}
			fixed := make(map[int]bool)
			for _, dc := range dontCare {
				fixed[dc] = false
			}
			return Project(lower, 5, fixed) == z5Init
		}
		return lower == z5Init
	}

	// With at most 5 total inputs both tables reach F_Z(·, I5=0)
	// trivially and must be identical.
	return nZ == nZ5 && zInit == z5Init
}
