package customer

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/pricing"
	"github.com/goliatone/go-formstate/pkg/validators"
	"github.com/goliatone/go-formstate/pkg/visibility"
)

// Control names used by the customer form.
const (
	FieldFirstName    = "firstName"
	FieldCompany      = "company"
	FieldLastName     = "lastName"
	FieldEmailGroup   = "emailGroup"
	FieldEmail        = "email"
	FieldConfirmEmail = "confirmEmail"
	FieldPhone        = "phone"
	FieldNotification = "notification"
	FieldRating       = "rating"
	FieldSendCatalog  = "sendCatalog"
	FieldAddresses    = "addresses"

	PathEmail        = FieldEmailGroup + "." + FieldEmail
	PathConfirmEmail = FieldEmailGroup + "." + FieldConfirmEmail
)

// Address control names.
const (
	FieldAddressType = "addressType"
	FieldStreet1     = "street1"
	FieldStreet2     = "street2"
	FieldCity        = "city"
	FieldState       = "state"
	FieldZip         = "zip"
)

// Notification channels.
const (
	NotifyEmail = "email"
	NotifyText  = "text"
)

// Address types.
const (
	AddressHome = "home"
	AddressWork = "work"
)

// Cards is the number of expandable phase cards.
const Cards = 6

// addonCounts lists how many add-on flags each phase offers.
var addonCounts = map[pricing.Phase]int{
	pricing.Phase1: 5,
	pricing.Phase2: 7,
	pricing.Phase3: 3,
	pricing.Phase4: 5,
	pricing.Phase5: 13,
	pricing.Phase6: 7,
}

// AddonName returns the control name of add-on n of phase p, e.g. "p2_addon_7".
func AddonName(p pricing.Phase, n int) string {
	return fmt.Sprintf("p%d_addon_%d", int(p), n)
}

// Addons lists the add-on control names of phase p.
func Addons(p pricing.Phase) []string {
	names := make([]string, 0, addonCounts[p])
	for n := 1; n <= addonCounts[p]; n++ {
		names = append(names, AddonName(p, n))
	}
	return names
}

// Visibility shows the add-ons of a phase only while that phase is selected.
func Visibility() visibility.Rules {
	rules := visibility.Rules{}
	for _, phase := range pricing.Phases() {
		for _, name := range Addons(phase) {
			rules[name] = phase.String()
		}
	}
	return rules
}

// CardName returns the control name of the expansion flag for card n.
func CardName(n int) string {
	return fmt.Sprintf("card%dExpanded", n)
}

// NewAddress builds an empty home address entry.
func NewAddress() *form.Group {
	return form.NewGroup([]form.Child{
		form.Named(FieldAddressType, form.NewField(AddressHome)),
		form.Named(FieldStreet1, form.NewField("", validators.Required)),
		form.Named(FieldStreet2, form.NewField("")),
		form.Named(FieldCity, form.NewField("")),
		form.Named(FieldState, form.NewField("")),
		form.Named(FieldZip, form.NewField("")),
	})
}

// NewForm builds the customer form tree with a single empty address.
func NewForm() *form.Group {
	children := []form.Child{
		form.Named(FieldFirstName, form.NewField("", validators.Required, validators.MinLength(3))),
		form.Named(FieldCompany, form.NewField("", validators.Required, validators.MinLength(3))),
		form.Named(FieldLastName, form.NewField("", validators.Required, validators.MaxLength(50))),
		form.Named(FieldEmailGroup, form.NewGroup([]form.Child{
			form.Named(FieldEmail, form.NewField("", validators.Required, validators.Email)),
			form.Named(FieldConfirmEmail, form.NewField("", validators.Required)),
		}, validators.Match(FieldEmail, FieldConfirmEmail))),
		form.Named(FieldPhone, form.NewField("")),
		form.Named(FieldNotification, form.NewField(NotifyEmail)),
		form.Named(FieldRating, form.NewField(nil, validators.Range(1, 5))),
		form.Named(FieldSendCatalog, form.NewField(true)),
	}
	for _, phase := range pricing.Phases() {
		children = append(children, form.Named(phase.String(), form.NewField(false)))
	}
	for _, phase := range pricing.Phases() {
		for _, name := range Addons(phase) {
			children = append(children, form.Named(name, form.NewField(false)))
		}
	}
	for n := 1; n <= Cards; n++ {
		children = append(children, form.Named(CardName(n), form.NewField(false)))
	}
	children = append(children, form.Named(FieldAddresses, form.NewArray(NewAddress, NewAddress())))
	return form.NewGroup(children)
}

// TestData is the sample customer used by PopulateTestData.
func TestData() (map[string]any, []map[string]any) {
	values := map[string]any{
		FieldFirstName: "Jack",
		FieldLastName:  "Harkness",
		FieldEmailGroup: map[string]any{
			FieldEmail:        "jack@torchwood.com",
			FieldConfirmEmail: "jack@torchwood.com",
		},
	}
	addresses := []map[string]any{{
		FieldAddressType: AddressWork,
		FieldStreet1:     "Mermaid Quay",
		FieldStreet2:     "",
		FieldCity:        "Cardiff Bay",
		FieldState:       "CA",
		FieldZip:         "",
	}}
	return values, addresses
}
