package project

import (
	"testing"

	"craftforge/internal/api"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestProjectTotals(t *testing.T) {
	t.Parallel()
	p := &api.Project{Areas: []api.Area{
		{ID: "a1", AgreedPrice: dec("15000.50")},
		{ID: "a2", AgreedPrice: dec("4999.50")},
	}}
	payments := []api.Payment{
		{ID: "p1", AreaID: "a1", Amount: dec("5000")},
		{ID: "p2", AreaID: "a2", Amount: dec("0.75")},
	}

	got := ProjectTotals(p, payments)
	if !got.Agreed.Equal(dec("20000")) {
		t.Fatalf("Agreed = %s, want 20000", got.Agreed)
	}
	if !got.Collected.Equal(dec("5000.75")) {
		t.Fatalf("Collected = %s, want 5000.75", got.Collected)
	}
	if !got.Remaining.Equal(dec("14999.25")) {
		t.Fatalf("Remaining = %s, want 14999.25", got.Remaining)
	}
}

func TestProjectTotalsEmpty(t *testing.T) {
	t.Parallel()
	got := ProjectTotals(nil, nil)
	if !got.Agreed.IsZero() || !got.Collected.IsZero() || !got.Remaining.IsZero() {
		t.Fatalf("want all zero, got %+v", got)
	}
}

func TestCollectedByArea(t *testing.T) {
	t.Parallel()
	p := &api.Project{Areas: []api.Area{{ID: "a1"}, {ID: "a2"}}}
	payments := []api.Payment{
		{AreaID: "a1", Amount: dec("100")},
		{AreaID: "a1", Amount: dec("250")},
	}

	got := CollectedByArea(p, payments)
	if !got["a1"].Equal(dec("350")) {
		t.Fatalf("a1 = %s, want 350", got["a1"])
	}
	if !got["a2"].IsZero() {
		t.Fatalf("a2 = %s, want 0", got["a2"])
	}
}

func TestAreaRemaining(t *testing.T) {
	t.Parallel()
	area := api.Area{ID: "a1", AgreedPrice: dec("1000")}
	payments := []api.Payment{
		{AreaID: "a1", Amount: dec("400")},
		{AreaID: "other", Amount: dec("999")},
	}
	if got := AreaRemaining(area, payments); !got.Equal(dec("600")) {
		t.Fatalf("remaining = %s, want 600", got)
	}
}
