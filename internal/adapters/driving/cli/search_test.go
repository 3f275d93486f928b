package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ogechifaith-analytics/chunckingagent/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [term]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	searcher := &fakeSearcher{entries: []domain.IndexEntry{
		{
			ID:              "report_chunk_000",
			DocumentName:    "report",
			PageNumber:      2,
			ChunkText:       "[PATIENT_NAME] presented with chest pain.",
			MedicalEntities: []string{"chest pain"},
		},
	}}
	cleanup := setupTestServices(nil, nil, searcher)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "chest pain"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "chest pain", searcher.gotTerm)
	assert.Equal(t, 10, searcher.gotLim)
	assert.Contains(t, buf.String(), "report (page 2)")
	assert.Contains(t, buf.String(), "[PATIENT_NAME] presented with chest pain.")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices(nil, nil, &fakeSearcher{})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "absent"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}
