package binder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/binder"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validators"
)

func contactForm() (*form.Group, *form.Field, *form.Field) {
	notification := form.NewField("email")
	phone := form.NewField("")
	root := form.NewGroup([]form.Child{
		form.Named("phone", phone),
		form.Named("notification", notification),
	})
	return root, notification, phone
}

func TestTextModeRequiresPhoneImmediately(t *testing.T) {
	root, notification, phone := contactForm()
	b := binder.Bind(notification, phone, binder.RequiredWhen("text"))
	defer b.Close()

	if !phone.Valid() || !root.Valid() {
		t.Fatalf("email mode should leave phone optional")
	}

	notification.SetValue("text")
	if !phone.HasError(validators.KeyRequired) {
		t.Fatalf("expected phone required right after switching to text, got %v", phone.ErrorKeys())
	}
	if phone.Dirty() || phone.Touched() {
		t.Fatalf("phone should fail without any interaction")
	}
	if root.Valid() {
		t.Fatalf("root must reflect the phone failure")
	}

	phone.SetValue("555-0100")
	if !root.Valid() {
		t.Fatalf("expected valid once phone is filled")
	}

	phone.SetValue("")
	notification.SetValue("email")
	if len(phone.Validators()) != 0 {
		t.Fatalf("expected validators cleared, got %d", len(phone.Validators()))
	}
	if !phone.Valid() || !root.Valid() {
		t.Fatalf("phone should be valid regardless of value once cleared")
	}
}

func TestBindAppliesInitialValue(t *testing.T) {
	phone := form.NewField("")
	notification := form.NewField("text")
	b := binder.Bind(notification, phone, binder.RequiredWhen("text"))
	if phone.Valid() {
		t.Fatalf("initial text mode should require phone")
	}
	if b.Applied() != 1 {
		t.Fatalf("expected one application at bind time, got %d", b.Applied())
	}
}

func TestCloseStopsReacting(t *testing.T) {
	_, notification, phone := contactForm()
	var events []int
	b := binder.Bind(notification, phone, binder.RequiredWhen("text"),
		binder.WithName("phone"),
		binder.OnApply(func(name string, attached int) {
			if name != "phone" {
				t.Fatalf("unexpected binder name %q", name)
			}
			events = append(events, attached)
		}),
	)

	notification.SetValue("text")
	b.Close()
	b.Close()
	notification.SetValue("email")

	if b.Active() {
		t.Fatalf("expected binder inactive after Close")
	}
	if !phone.HasError(validators.KeyRequired) {
		t.Fatalf("closed binder should leave the last validators in place")
	}
	if diff := cmp.Diff([]int{0, 1}, events); diff != "" {
		t.Fatalf("applications mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredWhenIgnoresOtherValues(t *testing.T) {
	rule := binder.RequiredWhen("text", "sms")
	for _, value := range []any{"email", "", nil, 42, "TEXT"} {
		if got := rule(value); len(got) != 0 {
			t.Fatalf("value %v should not attach validators", value)
		}
	}
	if got := rule("sms"); len(got) != 1 {
		t.Fatalf("expected required for sms, got %d validators", len(got))
	}
}

func TestBindNilInputs(t *testing.T) {
	b := binder.Bind(nil, form.NewField(""), binder.RequiredWhen("text"))
	if b.Active() || b.Applied() != 0 {
		t.Fatalf("nil source should produce an inert binder")
	}
	b.Close()
}
