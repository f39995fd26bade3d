// Package render turns generated article text into display blocks.
//
// Classification is strictly line-local: every input line yields exactly one
// block and no line looks at its neighbours. Consecutive list or quote lines
// are not merged.
package render

import "strings"

// Kind identifies a display block type.
type Kind string

const (
	KindTitle      Kind = "title"       // "# "
	KindHeading    Kind = "heading"     // "## "
	KindSubHeading Kind = "sub_heading" // "### "
	KindListItem   Kind = "list_item"
	KindQuote      Kind = "quote"
	KindSpacer     Kind = "spacer"
	KindParagraph  Kind = "paragraph"
)

// Block is one rendered line.
type Block struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
}

// Render never fails; unrecognised lines become paragraphs.
func Render(text string) []Block {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, classify(line))
	}
	return blocks
}

// Longest header marker first so "# " never shadows "## " or "### ".
func classify(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return Block{Kind: KindSubHeading, Text: strip(line, "### ")}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: KindHeading, Text: strip(line, "## ")}
	case strings.HasPrefix(line, "# "):
		return Block{Kind: KindTitle, Text: strip(line, "# ")}
	case strings.HasPrefix(strings.TrimSpace(line), "- "):
		return Block{Kind: KindListItem, Text: strip(line, "- ")}
	case strings.HasPrefix(line, ">"):
		return Block{Kind: KindQuote, Text: strip(line, ">")}
	case strings.TrimSpace(line) == "":
		return Block{Kind: KindSpacer}
	default:
		return Block{Kind: KindParagraph, Text: line}
	}
}

// strip removes the first occurrence of marker, which for every matched
// branch is the prefix (list items keep their leading indentation).
func strip(line, marker string) string {
	return strings.Replace(line, marker, "", 1)
}
