// SPDX-License-Identifier: MIT
package lexer

import "fmt"

type (
	// ItemID int holding an identifier for the Item tokens
	ItemID int

	// Item type holding the classification of a single input position.
	Item struct {
		Val       rune   // The scanned rune
		ID        ItemID // The type of this Item
		Pos       int    // The position, (in runes) of this Item
		Cancelled bool   // Whether an escape run voids this Item
		Err       error  // Set on ItemError
	}
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_ ItemID = iota  // Consume 0 to start actual numbering at 1.
	ItemError        // Notify occurrence of a source `error`.
	ItemEOF          // End of the input.
	ItemEscape       // '!'.
	ItemGroupOpen    // '{'.
	ItemGroupClose   // '}'.
	ItemGarbageOpen  // '<'.
	ItemGarbageClose // '>'.
	ItemSplitter     // ','.
	ItemOther        // Any unassigned rune.
)

var itemNames = map[ItemID]string{
	ItemError:        "error",
	ItemEOF:          "EOF",
	ItemEscape:       "escape",
	ItemGroupOpen:    "group-open",
	ItemGroupClose:   "group-close",
	ItemGarbageOpen:  "garbage-open",
	ItemGarbageClose: "garbage-close",
	ItemSplitter:     "splitter",
	ItemOther:        "other",
}

// String is the fmt.Stringer implementation for ItemID.
func (i ItemID) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}

	return fmt.Sprintf("ItemID(%d)", int(i))
}

// String is the fmt.Stringer implementation for Item.
func (i Item) String() string {
	switch i.ID {
	case ItemError:
		return fmt.Sprintf("%d\t%s\t%v", i.Pos, i.ID, i.Err)
	case ItemEOF:
		return fmt.Sprintf("%d\t%s", i.Pos, i.ID)
	}

	if i.Cancelled {
		return fmt.Sprintf("%d\t%s\t%q\tcancelled", i.Pos, i.ID, i.Val)
	}

	return fmt.Sprintf("%d\t%s\t%q", i.Pos, i.ID, i.Val)
}
