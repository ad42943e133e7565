package xwfill

import (
	"context"
	"errors"
	"maps"
	"slices"

	"crosswarped.com/xwfill/pkg/primitives"
)

var (
	// ErrNoSolution means no assignment of vocabulary words satisfies the
	// puzzle's constraints. It is a normal outcome, not a defect.
	ErrNoSolution = errors.New("no solution found")

	// ErrNodeBudget means the search gave up after visiting its configured
	// maximum number of nodes. The puzzle may or may not be solvable.
	ErrNodeBudget = errors.New("search node budget exhausted")
)

// Assignment maps each slot to its chosen word. A complete assignment covers
// every slot of the crossword.
type Assignment map[Slot]string

// Arc is an ordered pair of overlapping slots, the unit of work for arc
// consistency propagation.
type Arc struct {
	X Slot
	Y Slot
}

// SolverParams tunes the search.
type SolverParams struct {
	// MaxNodes bounds how many search nodes Backtrack may expand before
	// giving up with ErrNodeBudget. Zero means unbounded.
	MaxNodes int64
}

// Solver fills a crossword's slots with words from a vocabulary.
//
// Each slot carries a domain: the set of words still considered possible for
// it. Domains are seeded with the whole vocabulary, pruned by node and arc
// consistency, and then used as the read-only value source during search.
//
// A Solver is single-use state for one solve and is not safe for concurrent
// use.
type Solver struct {
	crossword *Crossword
	domains   map[Slot]map[string]struct{}

	maxNodes int64
	nodes    int64
}

// NewSolver seeds every slot's domain with the full vocabulary.
//
// Words are expected to be uppercase already (see internal.ParseWords);
// duplicates collapse naturally.
func NewSolver(crossword *Crossword, words []string, params SolverParams) *Solver {
	domains := make(map[Slot]map[string]struct{}, len(crossword.Slots()))
	for _, slot := range crossword.Slots() {
		domain := make(map[string]struct{}, len(words))
		for _, word := range words {
			domain[word] = struct{}{}
		}
		domains[slot] = domain
	}
	return &Solver{
		crossword: crossword,
		domains:   domains,
		maxNodes:  params.MaxNodes,
	}
}

// Domain returns a sorted copy of a slot's remaining candidate words.
func (s *Solver) Domain(slot Slot) []string {
	return slices.Sorted(maps.Keys(s.domains[slot]))
}

// Nodes returns how many search nodes the last Solve expanded.
func (s *Solver) Nodes() int64 {
	return s.nodes
}

// EnforceNodeConsistency removes from every domain the words whose length
// does not match the slot's length.
func (s *Solver) EnforceNodeConsistency() {
	for slot, domain := range s.domains {
		for word := range domain {
			if len(word) != slot.Length {
				delete(domain, word)
			}
		}
	}
}

// Revise removes from x's domain every word that no word in y's domain can
// agree with at the slots' shared cell. Reports whether anything was removed.
//
// If x and y do not overlap there is nothing to revise.
func (s *Solver) Revise(x, y Slot) bool {
	overlap, ok := s.crossword.Overlap(x, y)
	if !ok {
		return false
	}

	// The letters y can still put in the shared cell.
	var supported primitives.CharSet
	for yWord := range s.domains[y] {
		supported.Add(rune(yWord[overlap.Y]))
	}

	revised := false
	for xWord := range s.domains[x] {
		if !supported.Contains(rune(xWord[overlap.X])) {
			delete(s.domains[x], xWord)
			revised = true
		}
	}
	return revised
}

// AC3 propagates overlap constraints until the domains reach a fixpoint.
//
// arcs seeds the worklist; nil means all ordered pairs of neighboring slots.
// Whenever a revision shrinks x's domain, every arc (z, x) with z a neighbor
// of x other than y is re-enqueued. The worklist is FIFO; processing order
// does not change the fixpoint but is kept deterministic.
//
// Returns false if some domain was emptied, which proves the puzzle
// unsatisfiable before any search.
func (s *Solver) AC3(arcs []Arc) bool {
	if arcs == nil {
		for _, x := range s.crossword.Slots() {
			for _, y := range s.crossword.Neighbors(x) {
				arcs = append(arcs, Arc{X: x, Y: y})
			}
		}
	}

	for len(arcs) > 0 {
		arc := arcs[0]
		arcs = arcs[1:]

		if !s.Revise(arc.X, arc.Y) {
			continue
		}
		if len(s.domains[arc.X]) == 0 {
			return false
		}
		for _, z := range s.crossword.Neighbors(arc.X) {
			if z == arc.Y {
				continue
			}
			arcs = append(arcs, Arc{X: z, Y: arc.X})
		}
	}
	return true
}

// consistent reports whether a partial assignment violates any constraint:
// words must be pairwise distinct across the whole puzzle, each word must fit
// its slot, and assigned neighbors must agree at their shared cell.
func (s *Solver) consistent(assignment Assignment) bool {
	used := make(map[string]struct{}, len(assignment))
	for slot, word := range assignment {
		if _, dup := used[word]; dup {
			return false
		}
		used[word] = struct{}{}

		if len(word) != slot.Length {
			return false
		}

		for _, neighbor := range s.crossword.Neighbors(slot) {
			other, assigned := assignment[neighbor]
			if !assigned {
				continue
			}
			overlap, _ := s.crossword.Overlap(slot, neighbor)
			if word[overlap.X] != other[overlap.Y] {
				return false
			}
		}
	}
	return true
}

// selectUnassignedVariable picks the next slot to fill: fewest remaining
// candidates first, ties broken by most neighbors, remaining ties by natural
// slot order (Slots() is already sorted, so the scan below is stable).
func (s *Solver) selectUnassignedVariable(assignment Assignment) Slot {
	var best Slot
	found := false
	for _, slot := range s.crossword.Slots() {
		if _, assigned := assignment[slot]; assigned {
			continue
		}
		if !found {
			best, found = slot, true
			continue
		}
		if len(s.domains[slot]) != len(s.domains[best]) {
			if len(s.domains[slot]) < len(s.domains[best]) {
				best = slot
			}
			continue
		}
		if len(s.crossword.Neighbors(slot)) > len(s.crossword.Neighbors(best)) {
			best = slot
		}
	}
	return best
}

// orderDomainValues ranks a slot's candidates least-constraining first: by
// how many words the candidate would eliminate from unassigned neighbors'
// domains, summed over all unassigned neighbors. Ties keep lexicographic
// word order, which fixes which of several valid fills Solve returns.
//
// Pure ranking; no domain is mutated.
func (s *Solver) orderDomainValues(slot Slot, assignment Assignment) []string {
	words := slices.Sorted(maps.Keys(s.domains[slot]))
	if len(words) <= 1 {
		return words
	}

	type neighborCounts struct {
		index  int
		counts primitives.CharCounts
	}
	var unassigned []neighborCounts
	for _, neighbor := range s.crossword.Neighbors(slot) {
		if _, assigned := assignment[neighbor]; assigned {
			continue
		}
		overlap, _ := s.crossword.Overlap(slot, neighbor)
		nc := neighborCounts{index: overlap.X}
		for word := range s.domains[neighbor] {
			nc.counts.Add(rune(word[overlap.Y]))
		}
		unassigned = append(unassigned, nc)
	}
	if len(unassigned) == 0 {
		return words
	}

	conflicts := make(map[string]int, len(words))
	for _, word := range words {
		total := 0
		for i := range unassigned {
			nc := &unassigned[i]
			// Every neighbor word with a different letter at the shared
			// cell would be ruled out by this choice.
			total += nc.counts.Total() - nc.counts.Count(rune(word[nc.index]))
		}
		conflicts[word] = total
	}

	slices.SortStableFunc(words, func(a, b string) int {
		return conflicts[a] - conflicts[b]
	})
	return words
}

// backtrack is a depth-first search over partial assignments. It returns the
// first complete consistent assignment found, ErrNoSolution when this branch
// is exhausted, or a terminal error (context cancellation, node budget) that
// aborts the whole search.
func (s *Solver) backtrack(ctx context.Context, assignment Assignment) (Assignment, error) {
	if len(assignment) == len(s.crossword.Slots()) {
		return assignment, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.nodes++
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		return nil, ErrNodeBudget
	}

	slot := s.selectUnassignedVariable(assignment)
	for _, word := range s.orderDomainValues(slot, assignment) {
		assignment[slot] = word
		if s.consistent(assignment) {
			result, err := s.backtrack(ctx, assignment)
			if err == nil {
				return result, nil
			}
			if !errors.Is(err, ErrNoSolution) {
				return nil, err
			}
		}
		delete(assignment, slot)
	}
	return nil, ErrNoSolution
}

// Solve runs node consistency, then AC-3 over all arcs, then backtracking
// search. It either returns a complete assignment satisfying every
// constraint or an error; never a partial assignment.
//
// The context is checked cooperatively inside the search, so a deadline or
// cancellation aborts a long solve with ctx.Err().
func (s *Solver) Solve(ctx context.Context) (Assignment, error) {
	s.nodes = 0
	s.EnforceNodeConsistency()
	if !s.AC3(nil) {
		return nil, ErrNoSolution
	}
	// AC-3 only reports domains it emptied itself; a domain emptied by node
	// consistency on a slot with no neighbors still means unsatisfiable.
	for _, slot := range s.crossword.Slots() {
		if len(s.domains[slot]) == 0 {
			return nil, ErrNoSolution
		}
	}
	return s.backtrack(ctx, make(Assignment, len(s.crossword.Slots())))
}
