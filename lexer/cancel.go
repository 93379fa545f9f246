// SPDX-License-Identifier: MIT
package lexer

type (
	// Resolver answers cancellation queries for an input in constant time.
	//
	// runs[i] holds the length of the maximal escape run ending at position i; zero when the
	// rune at i is not an escape.
	Resolver struct {
		input  []rune
		runs   []int
		escape rune
	}
)

// NewResolver indexes the escape runs of an input in a single forward pass.
func NewResolver(input []rune, escape rune) *Resolver {
	runs := make([]int, len(input))

	run := 0
	for index, r := range input {
		if r == escape {
			run++
		} else {
			run = 0
		}
		runs[index] = run
	}

	return &Resolver{
		input:  input,
		runs:   runs,
		escape: escape,
	}
}

// Len is the number of indexed positions.
func (r *Resolver) Len() int { return len(r.input) }

// Run returns the length of the escape run ending at pos.
func (r *Resolver) Run(pos int) int {
	if pos < 0 || pos >= len(r.runs) {
		return 0
	}

	return r.runs[pos]
}

// Cancelled reports whether the rune at pos is voided by escaping.
//
// An escape is always cancelled; any other rune is cancelled when the escape run directly
// preceding it has an odd length.
func (r *Resolver) Cancelled(pos int) bool {
	if pos < 0 || pos >= len(r.input) {
		return false
	}

	if r.input[pos] == r.escape {
		return true
	}

	return r.Run(pos-1)%2 == 1
}

// Cancelled reports whether the rune at pos is voided by escaping, walking backwards over the
// preceding escape run.
//
// This is the reference form of Resolver.Cancelled; it costs O(run length) per query.
func Cancelled(input []rune, pos int, escape rune) bool {
	if pos < 0 || pos >= len(input) {
		return false
	}

	if input[pos] == escape {
		return true
	}

	run := 0
	for back := pos - 1; back >= 0 && input[back] == escape; back-- {
		run++
	}

	return run%2 == 1
}
