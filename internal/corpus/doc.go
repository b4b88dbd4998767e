// Package corpus parses, loads and indexes the poem corpus.
//
// # Corpus text format
//
// The corpus is UTF-8 text made of blocks separated by delimiter lines. A delimiter line
// contains only "===" (surrounding whitespace allowed). No other marker is recognized.
//
//	Title of the first poem
//	@category
//	first hemistich
//	second hemistich
//	===
//	Title of the second poem
//	a lone trailing line
//
// Inside a block blank lines are ignored. The first line is the title. An optional second
// line starting with "@" names the category; without it the poem is filed under
// domain.DefaultCategory. The remaining lines are paired into two-line verses, and an odd
// last line becomes a one-line verse. Blocks with no verse lines are dropped.
//
// Poem IDs are positions among the retained poems and change whenever the text does.
package corpus
