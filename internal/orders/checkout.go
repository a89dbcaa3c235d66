package orders

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CheckoutState tracks one checkout attempt: Idle → Validating → Submitting → Done | Failed.
type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateValidating CheckoutState = "validating"
	StateSubmitting CheckoutState = "submitting"
	StateDone       CheckoutState = "done"
	StateFailed     CheckoutState = "failed"
)

// CheckoutInput is the shipping form. Field order is the order rules are
// reported in.
type CheckoutInput struct {
	FullName string `json:"fullName" validate:"min=1,max=100"`
	Phone    string `json:"phone" validate:"min=10,max=15"`
	Address  string `json:"address" validate:"min=10,max=200"`
	City     string `json:"city" validate:"min=2,max=50"`
	State    string `json:"state" validate:"min=2,max=50"`
	Pincode  string `json:"pincode" validate:"len=6"`
	Notes    string `json:"notes" validate:"max=500"`
}

func (in CheckoutInput) ShippingAddress() ShippingAddress {
	return ShippingAddress{
		FullName: in.FullName,
		Phone:    in.Phone,
		Address:  in.Address,
		City:     in.City,
		State:    in.State,
		Pincode:  in.Pincode,
	}
}

// ValidationError carries the message of the first rule that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldText struct {
	label    string
	tooShort string
}

var checkoutFields = map[string]fieldText{
	"FullName": {"Full name", "Full name is required"},
	"Phone":    {"Phone", "Valid phone number required"},
	"Address":  {"Address", "Address is required"},
	"City":     {"City", "City is required"},
	"State":    {"State", "State is required"},
	"Pincode":  {"Pincode", "Valid pincode required"},
	"Notes":    {"Notes", ""},
}

// Validate returns nil or a *ValidationError for the first failing field.
func (in CheckoutInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	text := checkoutFields[fe.StructField()]
	msg := text.tooShort
	if fe.Tag() == "max" {
		msg = fmt.Sprintf("%s must be at most %s characters", text.label, fe.Param())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
