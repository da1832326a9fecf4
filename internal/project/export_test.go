package project

import (
	"bytes"
	"testing"

	"craftforge/internal/api"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWritePaymentsXLSX(t *testing.T) {
	t.Parallel()
	p := &api.Project{Areas: []api.Area{{ID: "a1", Name: "Mutfak"}}}
	payments := []api.Payment{
		{ID: "p1", AreaID: "a1", Amount: dec("1500.50"), PaymentDate: "2026-08-30", PaymentMethod: api.PaymentNakit, Notes: "kapora"},
		{ID: "p2", AreaID: "missing", Amount: dec("200"), PaymentDate: "2026-08-31", PaymentMethod: api.PaymentKrediKarti},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePaymentsXLSX(&buf, p, payments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Tahsilatlar")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, []string{"Alan", "Tutar", "Tarih", "Yöntem", "Not"}, rows[0])
	require.Equal(t, "Mutfak", rows[1][0])
	require.Equal(t, "1500.5", rows[1][1])
	require.Equal(t, "Nakit", rows[1][3])
	require.Equal(t, "kapora", rows[1][4])

	// unknown area renders a dash
	require.Equal(t, "-", rows[2][0])
	require.Equal(t, "Kredi Kartı", rows[2][3])
}
