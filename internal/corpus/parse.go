package corpus

import (
	"strings"

	"github.com/diwanapp/diwan-server/internal/domain"
)

const (
	// Delimiter separates poem blocks. It must be alone on its line.
	Delimiter = "==="

	// CategoryPrefix marks the optional category line.
	CategoryPrefix = "@"

	linesPerVerse = 2
)

// Report describes what a parse kept and skipped.
type Report struct {
	Blocks  int // non-empty blocks seen
	Skipped int // blocks dropped for having no verses
}

// Parse turns raw corpus text into poems. It never fails; malformed blocks are skipped.
func Parse(raw string) []domain.Poem {
	poems, _ := ParseWithReport(raw)
	return poems
}

// ParseWithReport is Parse plus a count of the blocks it dropped.
func ParseWithReport(raw string) ([]domain.Poem, Report) {
	var report Report
	poems := make([]domain.Poem, 0)

	for _, block := range splitBlocks(raw) {
		lines := nonBlankLines(block)
		if len(lines) == 0 {
			continue
		}
		report.Blocks++

		poem, ok := parseBlock(lines)
		if !ok {
			report.Skipped++
			continue
		}
		poem.ID = len(poems)
		poems = append(poems, poem)
	}

	return poems, report
}

// splitBlocks splits the text at delimiter lines.
func splitBlocks(raw string) [][]string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var blocks [][]string
	var current []string
	for line := range strings.SplitSeq(raw, "\n") {
		if strings.TrimSpace(line) == Delimiter {
			blocks = append(blocks, current)
			current = nil
			continue
		}
		current = append(current, line)
	}
	return append(blocks, current)
}

// nonBlankLines trims every line and drops the empty ones.
func nonBlankLines(block []string) []string {
	out := make([]string, 0, len(block))
	for _, line := range block {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseBlock builds a poem from the non-blank lines of one block.
// ok is false when the block has no verse lines.
func parseBlock(lines []string) (poem domain.Poem, ok bool) {
	poem.Title = lines[0]
	poem.Category = domain.DefaultCategory

	rest := lines[1:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], CategoryPrefix) {
		if category := strings.TrimSpace(strings.TrimPrefix(rest[0], CategoryPrefix)); category != "" {
			poem.Category = category
		}
		rest = rest[1:]
	}

	if len(rest) == 0 {
		return domain.Poem{}, false
	}

	poem.Verses = make([]domain.Verse, 0, (len(rest)+1)/linesPerVerse)
	for i := 0; i < len(rest); i += linesPerVerse {
		end := min(i+linesPerVerse, len(rest))
		verse := make(domain.Verse, end-i)
		copy(verse, rest[i:end])
		poem.Verses = append(poem.Verses, verse)
	}

	return poem, true
}
