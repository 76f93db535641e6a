package pricing_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/pricing"
)

func phaseForm() *form.Group {
	var children []form.Child
	for _, phase := range pricing.Phases() {
		children = append(children, form.Named(phase.String(), form.NewField(false)))
	}
	return form.NewGroup(children)
}

func TestTotal(t *testing.T) {
	prices := pricing.DefaultPrices()
	cases := []struct {
		name string
		sel  pricing.Selection
		want int64
	}{
		{name: "none", sel: pricing.Selection{}, want: 0},
		{name: "phase1 and phase4", sel: pricing.Selection{pricing.Phase1: true, pricing.Phase4: true}, want: 122630},
		{name: "explicit false", sel: pricing.Selection{pricing.Phase1: false, pricing.Phase5: true}, want: 204699},
		{
			name: "all",
			sel: pricing.Selection{
				pricing.Phase1: true, pricing.Phase2: true, pricing.Phase3: true,
				pricing.Phase4: true, pricing.Phase5: true, pricing.Phase6: true,
			},
			want: 3*46048 + 76582 + 204699 + 128499,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pricing.Total(tc.sel, prices); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestTotalDoesNotAccumulate(t *testing.T) {
	root := phaseForm()
	_ = root.Patch(map[string]any{"phase1": true, "phase4": true})

	prices := pricing.DefaultPrices()
	first := pricing.Total(pricing.SelectionFrom(root), prices)
	second := pricing.Total(pricing.SelectionFrom(root), prices)
	if first != 122630 || second != first {
		t.Fatalf("expected 122630 twice, got %d then %d", first, second)
	}

	_ = root.Patch(map[string]any{"phase4": false})
	if got := pricing.Total(pricing.SelectionFrom(root), prices); got != 46048 {
		t.Fatalf("expected total to follow current flags, got %d", got)
	}
}

func TestSelectionFromTreatsMissingAsFalse(t *testing.T) {
	root := form.NewGroup([]form.Child{
		form.Named("phase1", form.NewField(true)),
		form.Named("phase2", form.NewField("yes")),
		form.Named("phase3", form.NewField(nil)),
	})
	sel := pricing.SelectionFrom(root)
	if diff := cmp.Diff([]pricing.Phase{pricing.Phase1}, sel.Selected()); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if got := pricing.SelectionFrom(nil); len(got) != 0 {
		t.Fatalf("nil tree should select nothing")
	}
}

func TestBreakdown(t *testing.T) {
	sel := pricing.Selection{pricing.Phase6: true, pricing.Phase2: true}
	table := pricing.DefaultPrices().Merge(pricing.PriceTable{pricing.Phase6: 1000})
	want := []pricing.LineItem{
		{Phase: pricing.Phase2, Name: "phase2", Price: 46048},
		{Phase: pricing.Phase6, Name: "phase6", Price: 1000},
	}
	if diff := cmp.Diff(want, pricing.Breakdown(sel, table)); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
	if pricing.DefaultPrices()[pricing.Phase6] != 128499 {
		t.Fatalf("Merge must not modify the receiver")
	}
}

func TestParsePhase(t *testing.T) {
	for _, input := range []string{"phase4", "Phase4", " 4 "} {
		got, err := pricing.ParsePhase(input)
		if err != nil || got != pricing.Phase4 {
			t.Fatalf("ParsePhase(%q) = %v, %v", input, got, err)
		}
	}
	for _, input := range []string{"phase7", "phase0", "rating", ""} {
		if _, err := pricing.ParsePhase(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
