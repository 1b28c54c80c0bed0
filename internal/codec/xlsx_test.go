package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ottica-backend/internal/models"
	"ottica-backend/internal/sheet"
)

func f(v float64) *float64 { return &v }

func TestMonthlySheetRoundTrip(t *testing.T) {
	original := &models.MonthlySheet{
		Period:      "2025-02",
		DateHeaders: []string{"01/02/2025", "02/02/2025"},
		Metrics: []models.Metric{
			{Name: "Saldato TGT", Values: []*float64{f(1000), f(1200.5)}},
			{Name: "saldato cy", Values: []*float64{f(950), nil}},
			{Name: "", Values: []*float64{nil, nil}},
			{Name: "wo tgt", Values: []*float64{f(30), f(25)}},
		},
	}

	data, err := EncodeMonthlySheet(original)
	require.NoError(t, err)

	rows, err := DecodeRows(data)
	require.NoError(t, err)

	parsed, err := sheet.Parse(rows, "2025-02")
	require.NoError(t, err)

	require.Len(t, parsed.Metrics, 4)
	assert.Equal(t, "Saldato TGT", parsed.Metrics[0].Name)
	assert.Equal(t, 1200.5, *parsed.Metrics[0].Values[1])
	assert.Nil(t, parsed.Metrics[1].Values[1])
	assert.True(t, parsed.Metrics[2].Blank())
	assert.Equal(t, 25.0, *parsed.Metrics[3].Values[1])
}

func TestDecodeRowsRejectsGarbage(t *testing.T) {
	_, err := DecodeRows([]byte("non sono un file excel"))
	assert.Error(t, err)
}

func TestEncodeTableXLSX(t *testing.T) {
	data, err := EncodeTableXLSX(
		[]string{"Data", "Cliente"},
		[][]string{{"01/03/2025", "Rossi"}, {"02/03/2025", "Bianchi"}},
	)
	require.NoError(t, err)

	rows, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Data", "Cliente"}, rows[0])
	assert.Equal(t, "Rossi", rows[1][1])
}

func TestEncodeTablePDF(t *testing.T) {
	pdf, err := EncodeTablePDF(
		"Archivio Ordini Consegnati",
		[]string{"Data", "Cliente"},
		[][]string{{"01/03/2025", "Rossi"}},
	)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 0)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
