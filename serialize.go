// SPDX-License-Identifier: MIT
package groupstream

import (
	"context"
	"strings"

	"gitlab.com/fisherprime/groupstream/lexer"
)

// Serialize renders the Tree's structure with the configured markers, omitting garbage.
//
// Sibling groups are separated by the splitter; parsing the output yields the same depths
// for a well-formed source.
func (t *Tree) Serialize(ctx context.Context, cfg *lexer.Config) (output string, err error) {
	if err = cfg.Validate(); err != nil {
		return
	}

	serChan := make(chan rune, traverseBufferSize)
	go func() {
		t.root.serialize(ctx, cfg, serChan)
		close(serChan)
	}()

	var buffer strings.Builder
	for r := range serChan {
		buffer.WriteRune(r)
	}

	if err = ctx.Err(); err != nil {
		// Invalidate serialization output.
		return
	}
	output = buffer.String()

	return
}

// serialize performs the serialization grunt work.
func (n *Node) serialize(ctx context.Context, cfg *lexer.Config, serChan chan<- rune) {
	isRoot := n.index < 0
	if !isRoot {
		serChan <- cfg.GroupOpen
	}

	for index, child := range n.children {
		select {
		case <-ctx.Done():
			// NOTE: context error captured in [Tree.Serialize].
			return
		default:
		}

		if index > 0 {
			serChan <- cfg.Splitter
		}
		child.serialize(ctx, cfg, serChan)
	}

	if !isRoot {
		serChan <- cfg.GroupClose
	}
}
