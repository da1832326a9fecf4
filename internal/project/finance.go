package project

import (
	"craftforge/internal/api"

	"github.com/shopspring/decimal"
)

// Totals is the money rollup shown on the detail header.
type Totals struct {
	Agreed    decimal.Decimal
	Collected decimal.Decimal
	Remaining decimal.Decimal
}

// ProjectTotals sums agreed prices across areas and collected amounts across
// payments. All arithmetic stays in decimal; floats never touch money.
func ProjectTotals(p *api.Project, payments []api.Payment) Totals {
	var t Totals
	if p != nil {
		for _, a := range p.Areas {
			t.Agreed = t.Agreed.Add(a.AgreedPrice)
		}
	}
	for _, pay := range payments {
		t.Collected = t.Collected.Add(pay.Amount)
	}
	t.Remaining = t.Agreed.Sub(t.Collected)
	return t
}

// CollectedByArea rolls payments up per area id.
func CollectedByArea(p *api.Project, payments []api.Payment) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	if p != nil {
		for _, a := range p.Areas {
			out[a.ID] = decimal.Zero
		}
	}
	for _, pay := range payments {
		out[pay.AreaID] = out[pay.AreaID].Add(pay.Amount)
	}
	return out
}

// AreaRemaining returns what is still owed on one area.
func AreaRemaining(area api.Area, payments []api.Payment) decimal.Decimal {
	collected := decimal.Zero
	for _, pay := range payments {
		if pay.AreaID == area.ID {
			collected = collected.Add(pay.Amount)
		}
	}
	return area.AgreedPrice.Sub(collected)
}
