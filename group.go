// SPDX-License-Identifier: MIT
package groupstream

import "golang.org/x/exp/constraints"

type (
	// Group is a `{...}` construct accepted by the Parser.
	Group struct {
		// Depth is the nesting level the Group was opened at; the outermost level is 1.
		Depth int
	}

	// List is a type wrapper for []Group, ordered by opening position.
	List []Group
)

// Score sums the depths of a List.
func Score(groups List) int { return groups.Score() }

// Score sums the depths of the List.
func (l List) Score() int { return sum(l.Depths()...) }

// Depths returns the depth of every Group in the List.
func (l List) Depths() (depths []int) {
	depths = make([]int, len(l))
	for index := range l {
		depths[index] = l[index].Depth
	}

	return
}

func sum[T constraints.Integer](values ...T) (total T) {
	for _, v := range values {
		total += v
	}

	return
}
