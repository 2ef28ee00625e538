package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplore_Session(t *testing.T) {
	cfgPath, _ := setupDataDir(t)

	cmd := &ExploreCommand{
		globals: globalsFor(cfgPath),
		version: "test",
		in:      strings.NewReader("chicagoo\nchicago\nall\nmonday\nyes\nno\n"),
	}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Invalid city.")
	assert.Contains(t, output, "Most common day of week: Monday")
	assert.Contains(t, output, "Showing rows 0 to 2:")
	assert.Contains(t, output, "No more data to display.")
	assert.Contains(t, output, "Thank you for exploring US bikeshare data! Goodbye.")
}

func TestExplore_MissingDatasetThenQuit(t *testing.T) {
	cfgPath, _ := setupDataDir(t)

	cmd := &ExploreCommand{
		globals: globalsFor(cfgPath),
		in:      strings.NewReader("new york city\nall\nall\nno\n"),
	}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)

	assert.Contains(t, output, "Error: Data file for New York City not found.")
	assert.Contains(t, output, "Goodbye!")
}

func TestExplore_EndOfInput(t *testing.T) {
	cfgPath, _ := setupDataDir(t)

	cmd := &ExploreCommand{globals: globalsFor(cfgPath), in: strings.NewReader("")}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Goodbye!")
}

func TestExplore_DatasetWithoutDemographics(t *testing.T) {
	cfgPath, _ := setupDataDir(t)

	cmd := &ExploreCommand{
		globals: globalsFor(cfgPath),
		in:      strings.NewReader("washington\nall\nall\nyes\nno\n"),
	}

	var err error
	output := captureOutput(t, func() {
		err = cmd.Execute(nil)
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Would you like to see 5 lines of raw data?")
	assert.Contains(t, output, "Showing rows 0 to 2:")
	assert.Contains(t, output, "User Type data is not available.")
}
