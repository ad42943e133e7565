package xwfill

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/matryer/is"

	"crosswarped.com/xwfill/internal"
)

// checkAssignment verifies an assignment is complete and globally
// consistent: every slot covered, all words distinct and from the
// vocabulary, lengths correct, and crossing slots agreeing at their shared
// cell.
func checkAssignment(t *testing.T, c *Crossword, words []string, assignment Assignment) {
	t.Helper()

	vocab := make(map[string]bool, len(words))
	for _, w := range words {
		vocab[w] = true
	}

	used := make(map[string]Slot)
	for _, slot := range c.Slots() {
		word, ok := assignment[slot]
		if !ok {
			t.Fatalf("slot %s unassigned", slot)
		}
		if !vocab[word] {
			t.Errorf("slot %s assigned %q, not in vocabulary", slot, word)
		}
		if len(word) != slot.Length {
			t.Errorf("slot %s assigned %q of wrong length", slot, word)
		}
		if prev, dup := used[word]; dup {
			t.Errorf("word %q assigned to both %s and %s", word, prev, slot)
		}
		used[word] = slot

		for _, neighbor := range c.Neighbors(slot) {
			overlap, _ := c.Overlap(slot, neighbor)
			if word[overlap.X] != assignment[neighbor][overlap.Y] {
				t.Errorf("slots %s and %s disagree at their shared cell", slot, neighbor)
			}
		}
	}
}

func TestSolve_SingleSlot(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{"___"})
	words := []string{"CAT", "DOG"}

	solver := NewSolver(c, words, SolverParams{})
	assignment, err := solver.Solve(context.Background())
	is.NoErr(err)

	checkAssignment(t, c, words, assignment)
	is.Equal(len(assignment), 1)
}

func TestSolve_CrossingSlots(t *testing.T) {
	is := is.New(t)

	// Across length 4 at (0,0) crossing down length 3 at (0,1); the shared
	// cell is the across slot's index 1 and the down slot's index 0.
	c := mustBuild(t, []string{
		"____",
		" _",
		" _",
	})
	is.Equal(len(c.Slots()), 2)

	words := []string{"ABLE", "BED", "RAT"}
	solver := NewSolver(c, words, SolverParams{})
	assignment, err := solver.Solve(context.Background())
	is.NoErr(err)
	checkAssignment(t, c, words, assignment)

	// ABLE's B must be supported by BED.
	is.Equal(assignment[Slot{Row: 0, Col: 0, Dir: DirectionAcross, Length: 4}], "ABLE")
	is.Equal(assignment[Slot{Row: 0, Col: 1, Dir: DirectionDown, Length: 3}], "BED")
}

func TestSolve_NoAgreeingPair(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		" _",
		" _",
	})

	// No 4-letter word's second letter matches any 3-letter word's first.
	words := []string{"ABLE", "ACID", "DOG", "RAT"}
	solver := NewSolver(c, words, SolverParams{})
	_, err := solver.Solve(context.Background())
	is.True(errors.Is(err, ErrNoSolution))
}

func TestSolve_NoWordOfSlotLength(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{"____"})
	solver := NewSolver(c, []string{"CAT", "DOG"}, SolverParams{})
	_, err := solver.Solve(context.Background())
	is.True(errors.Is(err, ErrNoSolution))
	is.Equal(solver.Nodes(), int64(0)) // failed before any search
}

func TestSolve_Ring(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		"_  _",
		"_  _",
		"____",
	})

	words := []string{"CATS", "COWS", "SEES", "SEAS", "DOGS", "TREE"}
	solver := NewSolver(c, words, SolverParams{})
	assignment, err := solver.Solve(context.Background())
	is.NoErr(err)
	checkAssignment(t, c, words, assignment)
}

func TestSolve_Deterministic(t *testing.T) {
	is := is.New(t)

	lines := []string{
		"____",
		"_  _",
		"_  _",
		"____",
	}
	words := []string{"CATS", "COWS", "SEES", "SEAS", "DOGS", "SAGS", "TOGS"}

	first, err := NewSolver(mustBuild(t, lines), words, SolverParams{}).Solve(context.Background())
	is.NoErr(err)
	second, err := NewSolver(mustBuild(t, lines), words, SolverParams{}).Solve(context.Background())
	is.NoErr(err)
	is.True(maps.Equal(first, second))
}

func TestEnforceNodeConsistency(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		" _",
		" _",
	})
	solver := NewSolver(c, []string{"ABLE", "CAT", "HOUSE"}, SolverParams{})
	solver.EnforceNodeConsistency()

	for _, slot := range c.Slots() {
		for _, word := range solver.Domain(slot) {
			is.Equal(len(word), slot.Length)
		}
	}
	is.Equal(solver.Domain(Slot{Row: 0, Col: 0, Dir: DirectionAcross, Length: 4}), []string{"ABLE"})
	is.Equal(solver.Domain(Slot{Row: 0, Col: 1, Dir: DirectionDown, Length: 3}), []string{"CAT"})
}

func TestRevise(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		" _",
		" _",
	})
	across := Slot{Row: 0, Col: 0, Dir: DirectionAcross, Length: 4}
	down := Slot{Row: 0, Col: 1, Dir: DirectionDown, Length: 3}

	solver := NewSolver(c, []string{"ABLE", "ACID", "BED", "COT"}, SolverParams{})
	solver.EnforceNodeConsistency()

	// ABLE is supported by BED (B at the shared cell), ACID by COT.
	is.True(!solver.Revise(across, down))

	// With COT gone ACID loses its only support.
	delete(solver.domains[down], "COT")
	is.True(solver.Revise(across, down))
	is.Equal(solver.Domain(across), []string{"ABLE"})
}

func TestAC3_Fixpoint(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"______",
		"_    _",
		"_    _",
		"_    _",
		"______",
	})
	words, err := internal.LoadWords("testdata/words.txt")
	is.NoErr(err)

	solver := NewSolver(c, words, SolverParams{})
	solver.EnforceNodeConsistency()
	is.True(solver.AC3(nil))

	// Every surviving word must have a supporting word in each neighbor.
	for _, x := range c.Slots() {
		for _, y := range c.Neighbors(x) {
			overlap, _ := c.Overlap(x, y)
			for _, xWord := range solver.Domain(x) {
				supported := false
				for _, yWord := range solver.Domain(y) {
					if xWord[overlap.X] == yWord[overlap.Y] {
						supported = true
						break
					}
				}
				if !supported {
					t.Errorf("%q in %s has no support in %s", xWord, x, y)
				}
			}
		}
	}
}

func TestAC3_FailureIsSound(t *testing.T) {
	is := is.New(t)

	lines := []string{
		"____",
		" _",
		" _",
	}
	words := []string{"ABLE", "ACID", "DOG", "RAT"}

	solver := NewSolver(mustBuild(t, lines), words, SolverParams{})
	solver.EnforceNodeConsistency()
	is.True(!solver.AC3(nil))

	// Searching the unpruned domains must agree there is no solution.
	unpruned := NewSolver(mustBuild(t, lines), words, SolverParams{})
	unpruned.EnforceNodeConsistency()
	_, err := unpruned.backtrack(context.Background(), make(Assignment))
	is.True(errors.Is(err, ErrNoSolution))
}

func TestAC3_ArcSubset(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		" _",
		" _",
	})
	across := Slot{Row: 0, Col: 0, Dir: DirectionAcross, Length: 4}
	down := Slot{Row: 0, Col: 1, Dir: DirectionDown, Length: 3}

	solver := NewSolver(c, []string{"ABLE", "ACID", "BED", "COT"}, SolverParams{})
	solver.EnforceNodeConsistency()
	delete(solver.domains[down], "COT")

	is.True(solver.AC3([]Arc{{X: across, Y: down}}))
	is.Equal(solver.Domain(across), []string{"ABLE"})
}

func TestSolve_ContextCancelled(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		"_  _",
		"_  _",
		"____",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	solver := NewSolver(c, []string{"CATS", "COWS", "SEES", "SEAS"}, SolverParams{})
	_, err := solver.Solve(ctx)
	is.True(errors.Is(err, context.Canceled))
}

func TestSolve_NodeBudget(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"____",
		"_  _",
		"_  _",
		"____",
	})

	solver := NewSolver(c, []string{"CATS", "COWS", "SEES", "SEAS"}, SolverParams{MaxNodes: 1})
	_, err := solver.Solve(context.Background())
	is.True(errors.Is(err, ErrNodeBudget))
}

func TestSolve_WordsFile(t *testing.T) {
	is := is.New(t)

	c := mustBuild(t, []string{
		"______",
		"_    _",
		"_    _",
		"_    _",
		"______",
	})
	words, err := internal.LoadWords("testdata/words.txt")
	is.NoErr(err)

	solver := NewSolver(c, words, SolverParams{})
	assignment, err := solver.Solve(context.Background())
	is.NoErr(err)
	checkAssignment(t, c, words, assignment)
}

func BenchmarkSolve(b *testing.B) {
	lines := []string{
		"______",
		"_    _",
		"_    _",
		"_    _",
		"______",
	}
	grid, err := ParseStructureLines(lines)
	if err != nil {
		b.Fatal(err)
	}
	crossword, err := BuildCrossword(grid)
	if err != nil {
		b.Fatal(err)
	}
	words, err := internal.LoadWords("testdata/words.txt")
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		solver := NewSolver(crossword, words, SolverParams{})
		if _, err := solver.Solve(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
