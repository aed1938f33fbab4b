package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search <query>", searchCmd.Use)
	assert.Equal(t, "Search markdown files", searchCmd.Short)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	setupTestServices(t)

	_, _, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_Executes(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := execute(t, "search", "hello", "world")

	require.NoError(t, err)
	assert.Equal(t, "hello world", env.search.query)
	assert.Equal(t, 10, env.search.opts.Limit)
	assert.Equal(t, 1, env.index.rebuilds)
	assert.Contains(t, out, "[1] Hello World (5.25)")
	assert.Contains(t, out, "a.md · 2.0 KiB")
	assert.Contains(t, out, "hello there")
}

func TestSearchCmd_LimitFlag(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "search", "-n", "25", "hello")

	require.NoError(t, err)
	assert.Equal(t, 25, env.search.opts.Limit)
}

func TestSearchCmd_ZeroLimitUsesSettings(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := execute(t, "search", "--limit", "0", "hello")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLimit, env.search.opts.Limit)
}

func TestSearchCmd_NoResults(t *testing.T) {
	env := setupTestServices(t)
	env.search.results = []domain.SearchResult{}

	out, _, err := execute(t, "search", "zzz-nonexistent")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, _, err := execute(t, "search", "--json", "hello")

	require.NoError(t, err)
	var got []searchResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "/notes/a.md", got[0].Path)
	assert.Equal(t, "a.md", got[0].RelPath)
	assert.Equal(t, 5.25, got[0].Score)
	assert.True(t, got[0].Modified.Equal(testTime))
}

func TestSearchCmd_JSON_Empty(t *testing.T) {
	env := setupTestServices(t)
	env.search.results = nil

	out, _, err := execute(t, "search", "--json", "hello")

	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestSearchCmd_QueryError(t *testing.T) {
	env := setupTestServices(t)
	env.search.results = []domain.SearchResult{}
	env.search.err = &domain.QueryError{
		Query: `"open`, Pos: 0, Reason: "unterminated phrase", Hint: `add a closing "`,
	}

	out, errOut, err := execute(t, "search", `"open`)

	require.NoError(t, err, "a malformed query is not a failure")
	assert.Contains(t, out, "No results found.")
	assert.Contains(t, errOut, "invalid query at column 1: unterminated phrase")
	assert.Contains(t, errOut, `hint: add a closing "`)
}

func TestSearchCmd_Failure(t *testing.T) {
	env := setupTestServices(t)
	env.search.err = errors.New("index unavailable")

	_, _, err := execute(t, "search", "hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed: index unavailable")
}

func TestOutputSearchTable_Age(t *testing.T) {
	results := []domain.SearchResult{{
		RelPath: "x.md", Title: "X", Size: 1, ModTime: testTime.Add(-3 * time.Hour),
	}}
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	require.NoError(t, outputSearchTable(cmd, results, testTime))

	assert.Contains(t, buf.String(), "x.md · 1 B · 3 hours ago")
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"), "empty snippets are omitted")
}
