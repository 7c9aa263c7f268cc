//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package lutmap

import (
	"github.com/markkurossi/lutmap/rtl"
)

// Context tracks the per-signal state behind exact-area evaluation
// and the merger's reference-count updates: fan-out references, the
// used set, the current mapping, and the memoized exact area. The
// exact-area cache is invalidated by incrementing an iteration
// counter instead of clearing the map.
type Context struct {
	graph *Graph

	poSet      map[rtl.Signal]bool
	fanoutRefs map[rtl.Signal]int
	used       map[rtl.Signal]bool
	mapping    map[rtl.Signal]SingleCut

	areaCache map[rtl.Signal]int
	cacheIter map[rtl.Signal]int
	iteration int

	areaCalls int
	areaHits  int
}

// NewContext creates a mapping context over the graph.
func NewContext(graph *Graph) *Context {
	ctx := &Context{
		graph:      graph,
		poSet:      make(map[rtl.Signal]bool),
		fanoutRefs: make(map[rtl.Signal]int),
		used:       make(map[rtl.Signal]bool),
		mapping:    make(map[rtl.Signal]SingleCut),
		areaCache:  make(map[rtl.Signal]int),
		cacheIter:  make(map[rtl.Signal]int),
	}
	for _, po := range graph.PrimaryOutputs() {
		ctx.poSet[po] = true
	}
	return ctx
}

// StartNewIteration invalidates all cached exact-area entries: their
// stamps no longer match the current iteration.
func (ctx *Context) StartNewIteration() {
	ctx.iteration++
}

// FanoutRefs returns the number of mapping entries referencing the
// signal as an input.
func (ctx *Context) FanoutRefs(sig rtl.Signal) int {
	return ctx.fanoutRefs[sig]
}

// IsUsed tests if the signal is reachable from a primary output
// through the current mapping.
func (ctx *Context) IsUsed(sig rtl.Signal) bool {
	return ctx.used[sig]
}

// Mapping returns the signal's current cut, if any.
func (ctx *Context) Mapping(sig rtl.Signal) (SingleCut, bool) {
	cut, ok := ctx.mapping[sig]
	return cut, ok
}

// RecoverReferences replaces the current mapping and rebuilds the
// reference counts and used set by a breadth-first walk from the
// primary outputs through mapping inputs.
func (ctx *Context) RecoverReferences(mapping map[rtl.Signal]SingleCut) {
	ctx.fanoutRefs = make(map[rtl.Signal]int)
	ctx.used = make(map[rtl.Signal]bool)
	ctx.mapping = mapping

	var queue []rtl.Signal
	for _, po := range ctx.graph.PrimaryOutputs() {
		if !ctx.used[po] {
			ctx.used[po] = true
			queue = append(queue, po)
		}
	}

	for len(queue) > 0 {
		sig := queue[0]
		queue = queue[1:]

		cut, ok := mapping[sig]
		if !ok {
			continue
		}
		for _, input := range cut.Inputs {
			ctx.fanoutRefs[input]++
			if !ctx.used[input] {
				ctx.used[input] = true
				queue = append(queue, input)
			}
		}
	}
}

// ExactArea returns the number of LUTs materialised to implement the
// signal under the current mapping, accounting for sharing through
// fan-out greater than one. Results are cached per iteration.
func (ctx *Context) ExactArea(sig rtl.Signal) int {
	ctx.areaCalls++

	if area, ok := ctx.areaCache[sig]; ok &&
		ctx.cacheIter[sig] == ctx.iteration {
		ctx.areaHits++
		return area
	}

	visited := make(map[rtl.Signal]bool)
	area := ctx.exactArea(sig, visited)

	ctx.areaCache[sig] = area
	ctx.cacheIter[sig] = ctx.iteration
	return area
}

func (ctx *Context) exactArea(sig rtl.Signal,
	visited map[rtl.Signal]bool) int {

	if visited[sig] {
		return 0
	}
	visited[sig] = true

	cut, ok := ctx.mapping[sig]
	if !ok {
		// Primary input, constant, or boundary.
		return 0
	}

	// A LUT materialises iff its output is a primary output or is
	// referenced more than once; a single-reference LUT is inlined
	// into its consumer and contributes only its inputs' area.
	var area int
	if ctx.poSet[sig] || ctx.fanoutRefs[sig] > 1 {
		area = 1
	}
	for _, input := range cut.Inputs {
		area += ctx.exactArea(input, visited)
	}
	return area
}

// Reference increments the reference counts of the signal's mapping
// inputs, recursing across 0 to 1 transitions where a previously
// unreferenced mapped input becomes referenced.
func (ctx *Context) Reference(sig rtl.Signal) {
	cut, ok := ctx.mapping[sig]
	if !ok {
		return
	}
	for _, input := range cut.Inputs {
		ctx.fanoutRefs[input]++
		if ctx.fanoutRefs[input] == 1 {
			if _, ok := ctx.mapping[input]; ok {
				ctx.Reference(input)
			}
		}
	}
	ctx.used[sig] = true
}

// Dereference decrements the reference counts of the signal's
// mapping inputs, recursing across 1 to 0 transitions. It returns
// the resulting area delta, negative on net removal.
func (ctx *Context) Dereference(sig rtl.Signal) int {
	cut, ok := ctx.mapping[sig]
	if !ok {
		return 0
	}
	var delta int
	for _, input := range cut.Inputs {
		if ctx.fanoutRefs[input] > 0 {
			ctx.fanoutRefs[input]--
			if ctx.fanoutRefs[input] == 0 {
				if _, ok := ctx.mapping[input]; ok {
					delta += ctx.Dereference(input)
				}
			}
		}
	}
	delta--
	ctx.used[sig] = false
	return delta
}

// CacheHitRate returns the exact-area cache hit rate.
func (ctx *Context) CacheHitRate() float64 {
	if ctx.areaCalls == 0 {
		return 0
	}
	return float64(ctx.areaHits) / float64(ctx.areaCalls)
}
