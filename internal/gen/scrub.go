package gen

import (
	"sort"
	"strings"

	"blockgen/internal/gen/block"
)

// PrefixLines prepends prefix to every line of text. A trailing newline
// does not start a new line.
func PrefixLines(text, prefix string) string {
	body, trailing := strings.CutSuffix(text, "\n")
	out := prefix + strings.ReplaceAll(body, "\n", "\n"+prefix)
	if trailing {
		out += "\n"
	}
	return out
}

// Wrap breaks text into lines of at most limit columns, filling greedily.
// Paragraph breaks are kept and a word longer than limit gets its own line.
func Wrap(text string, limit int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if limit <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	for i, para := range paragraphs {
		var lines []string
		var line strings.Builder
		for _, word := range strings.Fields(para) {
			if line.Len() > 0 && line.Len()+1+len(word) > limit {
				lines = append(lines, line.String())
				line.Reset()
			}
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(word)
		}
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
		paragraphs[i] = strings.Join(lines, "\n")
	}
	return strings.Join(paragraphs, "\n")
}

// allNestedComments collects the comments of n and everything below it,
// one per line, newline terminated.
func allNestedComments(n *block.Node) string {
	var comments []string
	block.Walk(n, func(child *block.Node) bool {
		if child.Comment != "" {
			comments = append(comments, child.Comment)
		}
		return true
	})
	if len(comments) == 0 {
		return ""
	}
	return strings.Join(comments, "\n") + "\n"
}

func sortedSlots(m map[string]*block.Node) []string {
	slots := make([]string, 0, len(m))
	for slot, child := range m {
		if child != nil {
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)
	return slots
}
