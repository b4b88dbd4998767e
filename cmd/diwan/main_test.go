package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwanapp/diwan-server/internal/domain"
)

const testCorpus = `Night Song
@longing
the moon climbs slowly
over sleeping roofs
and the river hums
===
Desert
@travel
sand remembers every step
===
Only a title
===
Homeland
@longing
a door left open
for the ones who return
`

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "poems.txt")
	require.NoError(t, os.WriteFile(path, []byte(testCorpus), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CORPUS_SOURCE", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", "--corpus", writeCorpus(t))
	require.NoError(t, err)

	assert.Contains(t, out, "poems:       3")
	assert.Contains(t, out, "verses:      4")
	assert.Contains(t, out, "categories:  2")
	assert.Contains(t, out, "skipped:     1")
}

func TestToday_JSONIsDeterministic(t *testing.T) {
	path := writeCorpus(t)

	first, err := run(t, "today", "--corpus", path, "--tz", "UTC", "--date", "2026-03-14", "--json")
	require.NoError(t, err)
	second, err := run(t, "today", "--corpus", path, "--tz", "UTC", "--date", "2026-03-14", "--json")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var vod domain.VerseOfDay
	require.NoError(t, json.Unmarshal([]byte(first), &vod))
	assert.Equal(t, 4, vod.Total)
	assert.NotEmpty(t, vod.Verse)
}

func TestToday_BadDate(t *testing.T) {
	_, err := run(t, "today", "--corpus", writeCorpus(t), "--date", "March 14")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestSearch(t *testing.T) {
	path := writeCorpus(t)

	out, err := run(t, "search", "--corpus", path, "MOON")
	require.NoError(t, err)
	assert.Contains(t, out, "Night Song")
	assert.Contains(t, out, "1 match(es)")

	out, err = run(t, "search", "--corpus", path, "--ranked", "desert")
	require.NoError(t, err)
	assert.Contains(t, out, "Desert")
}

func TestShow(t *testing.T) {
	path := writeCorpus(t)

	out, err := run(t, "show", "--corpus", path, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 Desert")
	assert.Contains(t, out, "  sand remembers every step")

	out, err = run(t, "show", "--corpus", path, "--title", "Homeland", "--json")
	require.NoError(t, err)
	var poem domain.Poem
	require.NoError(t, json.Unmarshal([]byte(out), &poem))
	assert.Equal(t, 2, poem.ID)

	_, err = run(t, "show", "--corpus", path)
	assert.Error(t, err)

	_, err = run(t, "show", "--corpus", path, "42")
	assert.Error(t, err)
}

func TestRandomAndCategories(t *testing.T) {
	path := writeCorpus(t)

	out, err := run(t, "random", "--corpus", path)
	require.NoError(t, err)
	assert.Contains(t, out, "#")

	out, err = run(t, "categories", "--corpus", path, "--json")
	require.NoError(t, err)
	var cats []domain.CategorySummary
	require.NoError(t, json.Unmarshal([]byte(out), &cats))
	assert.Equal(t, []domain.CategorySummary{{Name: "longing", PoemCount: 2}, {Name: "travel", PoemCount: 1}}, cats)
}

func TestMissingCorpus(t *testing.T) {
	_, err := run(t, "inspect")
	assert.ErrorContains(t, err, "no corpus given")

	_, err = run(t, "inspect", "--corpus", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
