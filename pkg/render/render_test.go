package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validators"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestMessagesSkipsUnknownKeys(t *testing.T) {
	got := render.Messages([]string{"required", "mystery", "email", "required"}, render.EmailMessages())
	want := []string{"Please enter your email address.", "Please enter a valid email address."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := render.Messages([]string{"required"}, nil); got != nil {
		t.Fatalf("nil translator should produce no messages, got %v", got)
	}
}

func TestMessagesForMissingHandler(t *testing.T) {
	got := render.MessagesFor("es", []string{"range"}, stubTranslator{}, func(locale, key string, _ []any, err error) string {
		return locale + ":" + key
	})
	if diff := cmp.Diff([]string{"es:range"}, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageTableMerge(t *testing.T) {
	base := render.EmailMessages()
	merged := base.Merge(map[string]string{"email": "Bad address", "required": " "})
	want := render.MessageTable{"email": "Bad address"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["required"] == "" {
		t.Fatalf("Merge must not modify the receiver")
	}
}

func sampleTree() *form.Group {
	return form.NewGroup([]form.Child{
		form.Named("firstName", form.NewField("", validators.Required, validators.MinLength(3))),
		form.Named("emailGroup", form.NewGroup([]form.Child{
			form.Named("email", form.NewField("", validators.Required, validators.Email)),
			form.Named("confirmEmail", form.NewField("", validators.Required)),
		}, validators.Match("email", "confirmEmail"))),
	}, form.ValidatorFunc(func(form.Control) form.Errors { return form.Errors{"locked": true} }))
}

func TestMapErrors(t *testing.T) {
	root := sampleTree()
	root.Get("emailGroup.email").(*form.Field).SetValue("jack@")
	root.Get("emailGroup.confirmEmail").(*form.Field).SetValue("jack@torchwood.com")

	table := render.DefaultMessages().Merge(map[string]string{"locked": "Form is locked."})
	all := render.MapErrors(form.Snapshot(root), table)
	wantFields := map[string][]string{
		"firstName":        {"This field is required."},
		"emailGroup":       {"The confirmation does not match."},
		"emailGroup.email": {"Please enter a valid email address."},
	}
	if diff := cmp.Diff(wantFields, all.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Form is locked."}, all.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	visible := render.MapErrors(form.Snapshot(root), table, render.OnlyInteracted())
	if _, ok := visible.Fields["firstName"]; ok {
		t.Fatalf("pristine firstName should be hidden, got %v", visible.Fields)
	}
	if _, ok := visible.Fields["emailGroup.email"]; !ok {
		t.Fatalf("edited email should be visible, got %v", visible.Fields)
	}
}

func TestErrorMappingMerge(t *testing.T) {
	base := render.ErrorMapping{
		Fields: map[string][]string{"firstName": {"Too short"}},
		Form:   []string{"Locked"},
	}
	merged := base.Merge(map[string][]string{
		"firstName": {" Too short ", "Taken"},
		"":          {"Server unavailable"},
		"zip":       {"  "},
	}, "Locked")

	wantFields := map[string][]string{"firstName": {"Too short", "Taken"}}
	if diff := cmp.Diff(wantFields, merged.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Locked", "Server unavailable"}, merged.Form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
	if len(base.Fields["firstName"]) != 1 {
		t.Fatalf("Merge must not modify the receiver")
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOptionsFeedbackDefaults(t *testing.T) {
	root := sampleTree()
	root.Field("firstName").SetValue("Ja")

	got := render.RenderOptions{}.Feedback(form.Snapshot(root))
	want := map[string][]string{"firstName": {"The value is too short."}}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeMarkup(t *testing.T) {
	cases := map[string]string{
		"  Type it <strong>again</strong>.  ":   "Type it <strong>again</strong>.",
		"<script>alert(1)</script>Harkness":     "Harkness",
		`<em onclick="x()">hi</em>`:             "<em>hi</em>",
		`<a href="javascript:alert(1)">x</a>`:   "x",
		`<a href="https://example.com">doc</a>`: `<a href="https://example.com" rel="nofollow">doc</a>`,
		"":                                      "",
	}
	for input, want := range cases {
		if got := render.SanitizeMarkup(input); got != want {
			t.Fatalf("SanitizeMarkup(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"firstName":     "First Name",
		"confirmEmail":  "Confirm Email",
		"p1_addon_2":    "P1 Addon 2",
		"card1Expanded": "Card 1 Expanded",
		"street1":       "Street 1",
		"zip":           "Zip",
		"":              "",
	}
	for input, want := range cases {
		if got := render.Humanize(input); got != want {
			t.Fatalf("Humanize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestApplySubset(t *testing.T) {
	snap := form.Snapshot(sampleTree())
	got := render.ApplySubset(snap, []string{"emailGroup.email", "nope"})
	if len(got.Children) != 1 || got.Children[0].Name != "emailGroup" {
		t.Fatalf("unexpected subset %#v", got.Children)
	}
	if len(snap.Children) != 2 {
		t.Fatalf("ApplySubset must not modify its input")
	}
	if full := render.ApplySubset(snap, nil); len(full.Children) != 2 {
		t.Fatalf("empty subset should keep everything")
	}
}

func TestSortedHiddenFields(t *testing.T) {
	got := render.SortedHiddenFields(map[string]string{" session ": "abc", "_csrf": "t0k3n", "": "x"})
	want := []render.HiddenField{{Name: "_csrf", Value: "t0k3n"}, {Name: "session", Value: "abc"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.NodeView, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(namedRenderer("text"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := registry.Register(namedRenderer("html")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(namedRenderer("html")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected ErrDuplicateRenderer, got %v", err)
	}
	if err := registry.Register(namedRenderer(" ")); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if diff := cmp.Diff([]string{"html", "text"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected ErrUnknownRenderer, got %v", err)
	}

	out, err := registry.Render(context.Background(), " text ", form.Snapshot(sampleTree()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(render.Output{Body: []byte("text"), ContentType: "text/plain"}, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	if _, err := render.NewRegistry(namedRenderer("a"), namedRenderer("a")); !errors.Is(err, render.ErrDuplicateRenderer) {
		t.Fatalf("expected constructor to reject duplicates, got %v", err)
	}
}
