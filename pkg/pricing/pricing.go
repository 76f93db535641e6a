// Package pricing totals the selected project phases against a price table.
// Totals are computed from scratch on every call; nothing is cached.
package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Phase identifies one selectable project phase.
type Phase int

const (
	Phase1 Phase = iota + 1
	Phase2
	Phase3
	Phase4
	Phase5
	Phase6
)

// Phases lists every phase in order.
func Phases() []Phase {
	return []Phase{Phase1, Phase2, Phase3, Phase4, Phase5, Phase6}
}

// String returns the control name for the phase, for example "phase4".
func (p Phase) String() string {
	return "phase" + strconv.Itoa(int(p))
}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return p >= Phase1 && p <= Phase6
}

// ParsePhase accepts "phase4", "4" or "Phase4".
func ParsePhase(name string) (Phase, error) {
	trimmed := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "phase")
	n, err := strconv.Atoi(trimmed)
	if err != nil || !Phase(n).Valid() {
		return 0, fmt.Errorf("pricing: unknown phase %q", name)
	}
	return Phase(n), nil
}

// PriceTable maps each phase to its price in whole currency units.
type PriceTable map[Phase]int64

// DefaultPrices returns the standard price list.
func DefaultPrices() PriceTable {
	return PriceTable{
		Phase1: 46048,
		Phase2: 46048,
		Phase3: 46048,
		Phase4: 76582,
		Phase5: 204699,
		Phase6: 128499,
	}
}

// Merge returns a copy of t with overrides applied.
func (t PriceTable) Merge(overrides PriceTable) PriceTable {
	out := make(PriceTable, len(t)+len(overrides))
	for phase, price := range t {
		out[phase] = price
	}
	for phase, price := range overrides {
		out[phase] = price
	}
	return out
}

// Selection records which phases are chosen. Missing phases are unselected.
type Selection map[Phase]bool

// SelectionFrom reads the phase flags from a form tree. A missing flag or a
// non-boolean value counts as unselected.
func SelectionFrom(root form.Control) Selection {
	sel := make(Selection, len(Phases()))
	if root == nil {
		return sel
	}
	for _, phase := range Phases() {
		c := root.Get(phase.String())
		if c == nil {
			continue
		}
		if on, ok := c.Value().(bool); ok && on {
			sel[phase] = true
		}
	}
	return sel
}

// Selected returns the chosen phases in order.
func (s Selection) Selected() []Phase {
	var out []Phase
	for _, phase := range Phases() {
		if s[phase] {
			out = append(out, phase)
		}
	}
	return out
}

// LineItem is one selected phase and its price.
type LineItem struct {
	Phase Phase  `json:"-" yaml:"-"`
	Name  string `json:"phase" yaml:"phase"`
	Price int64  `json:"price" yaml:"price"`
}

// Breakdown lists the selected phases with their prices, in phase order.
// Phases without a price contribute zero.
func Breakdown(sel Selection, table PriceTable) []LineItem {
	phases := sel.Selected()
	items := make([]LineItem, 0, len(phases))
	for _, phase := range phases {
		items = append(items, LineItem{Phase: phase, Name: phase.String(), Price: table[phase]})
	}
	return items
}

// Total sums the prices of the selected phases.
func Total(sel Selection, table PriceTable) int64 {
	var total int64
	for _, item := range Breakdown(sel, table) {
		total += item.Price
	}
	return total
}
