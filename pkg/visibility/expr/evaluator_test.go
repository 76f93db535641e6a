package expr

import (
	"testing"

	"github.com/goliatone/go-formstate/pkg/visibility"
)

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"phase2":       true,
		"phase3":       false,
		"notification": "text",
		"rating":       int64(4),
		"emailGroup": map[string]any{
			"email": "jack@torchwood.com",
		},
		"addresses": []any{
			map[string]any{"city": "Cardiff Bay"},
		},
	}
	ctx := visibility.Context{Values: values, Extras: map[string]any{"admin": "true"}}

	cases := []struct {
		rule string
		want bool
	}{
		{"", true},
		{"phase2", true},
		{"phase3", false},
		{"!phase3", true},
		{"missing", false},
		{"phase2 == true", true},
		{"phase3 != false", false},
		{`notification == "text"`, true},
		{"notification == 'email'", false},
		{"notification == text", true},
		{"rating == 4", true},
		{"rating != 4.5", true},
		{"missing == null", true},
		{"rating == nil", false},
		{`emailGroup.email != ""`, true},
		{`addresses.0.city == "Cardiff Bay"`, true},
		{"addresses.3.city", false},
		{"phase3 || phase2 && rating == 4", true},
		{"(phase3 || phase2) && !phase2", false},
		{"extras.admin == true", true},
	}
	eval := New()
	for _, tc := range cases {
		got, err := eval.Eval("p2_addon_1", tc.rule, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestEvaluatorRejectsMalformedRules(t *testing.T) {
	t.Parallel()

	eval := New()
	for _, rule := range []string{
		"phase2 = true",
		"phase2 & phase3",
		"(phase2",
		"phase2 ==",
		`notification == "text`,
		"== true",
		"phase2 phase3",
	} {
		if err := eval.Check(rule); err == nil {
			t.Fatalf("expected %q to be rejected", rule)
		}
		if _, err := eval.Eval("x", rule, visibility.Context{}); err == nil {
			t.Fatalf("expected Eval(%q) to fail", rule)
		}
	}
}

func TestEvaluatorCachesCompiledRules(t *testing.T) {
	t.Parallel()

	eval := New()
	ctx := visibility.Context{Values: map[string]any{"phase1": true}}
	for i := 0; i < 3; i++ {
		if ok, err := eval.Eval("p1_addon_1", "phase1", ctx); err != nil || !ok {
			t.Fatalf("Eval = %v, %v", ok, err)
		}
	}
	if len(eval.cache) != 1 {
		t.Fatalf("expected one cached rule, got %d", len(eval.cache))
	}
}
