package primitives

import (
	"fmt"
	"math/bits"
)

const (
	minChar  = 'A'
	maxChar  = 'Z'
	numChars = maxChar - minChar + 1
)

// CharSet efficiently represents a set of uppercase letters.
//
// The zero value is the empty set.
type CharSet struct {
	mask uint32
}

// Add adds a character to the set.
func (c *CharSet) Add(r rune) error {
	if r < minChar || r > maxChar {
		return fmt.Errorf("character %c is out of range", r)
	}
	c.mask |= 1 << uint(r-minChar)
	return nil
}

// AddAll adds all characters from another set to this set.
func (c *CharSet) AddAll(other CharSet) {
	c.mask |= other.mask
}

// Contains checks if a character is in the set.
func (c CharSet) Contains(r rune) bool {
	if r < minChar || r > maxChar {
		return false
	}
	return c.mask&(1<<uint(r-minChar)) != 0
}

// IsFull checks if the set contains every letter.
func (c CharSet) IsFull() bool {
	return c.Count() == numChars
}

// Capacity returns the number of distinct characters the set can hold.
func (c CharSet) Capacity() int {
	return numChars
}

// Count returns the number of characters in the set.
func (c CharSet) Count() int {
	return bits.OnesCount32(c.mask)
}

// CharCounts is a histogram of uppercase letters.
//
// The zero value is an empty histogram.
type CharCounts struct {
	counts [numChars]int
	total  int
}

// Add counts one occurrence of a character. Out-of-range characters are
// ignored.
func (c *CharCounts) Add(r rune) {
	if r < minChar || r > maxChar {
		return
	}
	c.counts[r-minChar]++
	c.total++
}

// Count returns the number of occurrences recorded for a character.
func (c *CharCounts) Count(r rune) int {
	if r < minChar || r > maxChar {
		return 0
	}
	return c.counts[r-minChar]
}

// Total returns the number of occurrences recorded across all characters.
func (c *CharCounts) Total() int {
	return c.total
}
