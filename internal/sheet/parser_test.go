package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetRows() [][]string {
	return [][]string{
		{"", "", "", "intestazione", "01/02", "02/02"},
		{"", "", "", "Saldato TGT", "1000", "1200,50"},
		{"", "", "", "saldato cy", "950", ""},
		{"", "", "", "", "", ""},
		{"", "", "", "wo tgt", "30", "n/d"},
	}
}

func TestParseFindsMarkerCaseInsensitive(t *testing.T) {
	m, err := Parse(sheetRows(), "2025-02")
	require.NoError(t, err)

	assert.Equal(t, "2025-02", m.Period)
	require.NotEmpty(t, m.Metrics)
	assert.Equal(t, "Saldato TGT", m.Metrics[0].Name)
}

func TestParseMarkerNotFound(t *testing.T) {
	rows := [][]string{
		{"", "", "", "altro", "1"},
		{"", "", "", "ancora altro", "2"},
	}
	_, err := Parse(rows, "2025-02")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestParseGeneratesOneHeaderPerDay(t *testing.T) {
	m, err := Parse(sheetRows(), "2025-02")
	require.NoError(t, err)

	require.Len(t, m.DateHeaders, 28)
	assert.Equal(t, "01/02/2025", m.DateHeaders[0])
	assert.Equal(t, "28/02/2025", m.DateHeaders[27])
}

func TestParseLeapYearHeaders(t *testing.T) {
	m, err := Parse(sheetRows(), "2024-02")
	require.NoError(t, err)

	require.Len(t, m.DateHeaders, 29)
	assert.Equal(t, "29/02/2024", m.DateHeaders[28])
}

func TestParseKeepsInteriorSpacers(t *testing.T) {
	m, err := Parse(sheetRows(), "2025-02")
	require.NoError(t, err)

	// Saldato TGT, saldato cy, spacer, wo tgt
	require.Len(t, m.Metrics, 4)
	assert.True(t, m.Metrics[2].Blank())
	assert.Equal(t, "wo tgt", m.Metrics[3].Name)
}

func TestParseTrimsTrailingSpacers(t *testing.T) {
	rows := [][]string{
		{"", "", "", "Saldato TGT", "1000"},
		{"", "", "", "", ""},
		{"", "", "", "", ""},
	}
	m, err := Parse(rows, "2025-02")
	require.NoError(t, err)

	require.Len(t, m.Metrics, 1)
	assert.Equal(t, "Saldato TGT", m.Metrics[0].Name)
}

func TestParseNumberFormats(t *testing.T) {
	m, err := Parse(sheetRows(), "2025-02")
	require.NoError(t, err)

	saldato := m.Metrics[0]
	require.NotNil(t, saldato.Values[0])
	assert.Equal(t, 1000.0, *saldato.Values[0])

	// Comma decimal separator
	require.NotNil(t, saldato.Values[1])
	assert.Equal(t, 1200.5, *saldato.Values[1])

	// Blank and non-numeric cells decode to nil
	cy := m.Metrics[1]
	assert.Nil(t, cy.Values[1])
	wo := m.Metrics[3]
	assert.Nil(t, wo.Values[1])
}

func TestParseBadPeriod(t *testing.T) {
	_, err := Parse(sheetRows(), "febbraio")
	assert.Error(t, err)
}
