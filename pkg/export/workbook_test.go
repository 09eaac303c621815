package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteAndReadRows(t *testing.T) {
	data, err := Write(
		Sheet{
			Name:    "Sessions",
			Headers: []string{"Cashier", "Sales"},
			Rows: [][]interface{}{
				{"ana@cafe.test", 120.5},
				{"", ""},
				{"ben@cafe.test", 80},
			},
			Widths: map[string]float64{"A": 28},
		},
		Sheet{Name: "Totals", Headers: []string{"Gross"}, Rows: [][]interface{}{{200.5}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sessions", "Totals"}, f.GetSheetList())
	v, err := f.GetCellValue("Totals", "A2")
	require.NoError(t, err)
	assert.Equal(t, "200.5", v)
	require.NoError(t, f.Close())

	rows, err := ReadRows(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Cashier", "Sales"}, rows[0])
	assert.Equal(t, "ben@cafe.test", rows[2][0])
}

func TestReadRows_Empty(t *testing.T) {
	data, err := Write(Sheet{Name: "Empty"})
	require.NoError(t, err)

	_, err = ReadRows(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrEmptyWorkbook)
}

func TestHeaderIndexAndCell(t *testing.T) {
	idx := HeaderIndex([]string{" Name ", "PRICE"})
	assert.Equal(t, 0, idx["name"])
	assert.Equal(t, 1, idx["price"])

	assert.Equal(t, "x", Cell([]string{"x"}, 0))
	assert.Equal(t, "", Cell([]string{"x"}, 3))
	assert.Equal(t, "", Cell([]string{"x"}, -1))
}
