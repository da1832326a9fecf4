package project

import (
	"fmt"
	"io"

	"craftforge/internal/api"

	"github.com/xuri/excelize/v2"
)

const paymentsSheet = "Tahsilatlar"

var paymentHeaders = []string{"Alan", "Tutar", "Tarih", "Yöntem", "Not"}

// WritePaymentsXLSX writes the payments worksheet for a project. Area names
// come from the project; a payment on an unknown area renders "-".
func WritePaymentsXLSX(w io.Writer, p *api.Project, payments []api.Payment) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), paymentsSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	for col, h := range paymentHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(paymentsSheet, cell, h); err != nil {
			return fmt.Errorf("export: header: %w", err)
		}
	}

	areaNames := make(map[string]string)
	if p != nil {
		for _, a := range p.Areas {
			areaNames[a.ID] = a.Name
		}
	}

	for i, pay := range payments {
		name := areaNames[pay.AreaID]
		if name == "" {
			name = "-"
		}
		amount, _ := pay.Amount.Float64()
		row := []any{name, amount, pay.PaymentDate, methodLabel(pay.PaymentMethod), pay.Notes}
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(paymentsSheet, cell, val); err != nil {
				return fmt.Errorf("export: row %d: %w", i+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

func methodLabel(method string) string {
	switch method {
	case api.PaymentNakit:
		return "Nakit"
	case api.PaymentHavale:
		return "Havale"
	case api.PaymentKrediKarti:
		return "Kredi Kartı"
	default:
		return method
	}
}
