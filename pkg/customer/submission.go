package customer

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/pricing"
)

// Submission is what Save returns: the full value of the tree and the price
// of the selected phases.
type Submission struct {
	Value     map[string]any     `json:"value" yaml:"value"`
	Total     int64              `json:"total" yaml:"total"`
	Breakdown []pricing.LineItem `json:"breakdown" yaml:"breakdown"`
	Status    form.Status        `json:"status" yaml:"status"`
}

// Valid reports whether the form was valid when it was saved.
func (s Submission) Valid() bool { return s.Status == form.StatusValid }

// Customer is the typed view of a submission value.
type Customer struct {
	FirstName    string    `mapstructure:"firstName" json:"firstName" yaml:"firstName"`
	Company      string    `mapstructure:"company" json:"company" yaml:"company"`
	LastName     string    `mapstructure:"lastName" json:"lastName" yaml:"lastName"`
	Email        Email     `mapstructure:"emailGroup" json:"emailGroup" yaml:"emailGroup"`
	Phone        string    `mapstructure:"phone" json:"phone" yaml:"phone"`
	Notification string    `mapstructure:"notification" json:"notification" yaml:"notification"`
	Rating       *int      `mapstructure:"rating" json:"rating,omitempty" yaml:"rating,omitempty"`
	SendCatalog  bool      `mapstructure:"sendCatalog" json:"sendCatalog" yaml:"sendCatalog"`
	Addresses    []Address `mapstructure:"addresses" json:"addresses" yaml:"addresses"`

	// Phases lists the selected phase names, filled from the breakdown.
	Phases []string `json:"phases" yaml:"phases"`
	// Flags keeps the add-on and card flags keyed by control name.
	Flags map[string]any `mapstructure:",remain" json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Email is the email/confirmation pair.
type Email struct {
	Email        string `mapstructure:"email" json:"email" yaml:"email"`
	ConfirmEmail string `mapstructure:"confirmEmail" json:"confirmEmail" yaml:"confirmEmail"`
}

// Address is one postal address entry.
type Address struct {
	AddressType string `mapstructure:"addressType" json:"addressType" yaml:"addressType"`
	Street1     string `mapstructure:"street1" json:"street1" yaml:"street1"`
	Street2     string `mapstructure:"street2" json:"street2" yaml:"street2"`
	City        string `mapstructure:"city" json:"city" yaml:"city"`
	State       string `mapstructure:"state" json:"state" yaml:"state"`
	Zip         string `mapstructure:"zip" json:"zip" yaml:"zip"`
}

// Decode converts the submission value into a Customer. Scalar values are
// converted weakly, so a rating entered as "4" decodes to 4.
func (s Submission) Decode() (Customer, error) {
	var out Customer
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return Customer{}, err
	}
	if err := decoder.Decode(s.Value); err != nil {
		return Customer{}, fmt.Errorf("customer: decode submission: %w", err)
	}
	for _, phase := range pricing.Phases() {
		delete(out.Flags, phase.String())
	}
	for _, item := range s.Breakdown {
		out.Phases = append(out.Phases, item.Name)
	}
	return out, nil
}
