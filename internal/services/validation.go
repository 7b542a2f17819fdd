package services

import (
	"errors"
	"math"
	"strings"

	"inventory/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	nameRules     = "notblank,max=100"
	quantityRules = "gte=0"
	priceRules    = "finite,gte=0"
)

var violationMessages = map[string]string{
	"Name.notblank": "Name cannot be empty",
	"Name.max":      "Name cannot exceed 100 characters",
	"Quantity.gte":  "Quantity cannot be negative",
	"Price.finite":  "Price must be a finite number",
	"Price.gte":     "Price cannot be negative",
}

// ProductValidator checks product fields. Every rule runs, so all violations
// are reported together.
type ProductValidator struct {
	validate *validator.Validate
}

// NewProductValidator creates a ProductValidator with the notblank and finite rules registered.
func NewProductValidator() *ProductValidator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// gte passes +Inf, which the JSON encoder cannot write back out.
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	})
	return &ProductValidator{validate: v}
}

// Validate returns the violations of a create request, empty if none.
func (pv *ProductValidator) Validate(input models.ProductInput) []string {
	return violations("", pv.validate.Struct(input))
}

// ValidateName checks a single name value.
func (pv *ProductValidator) ValidateName(name string) []string {
	return violations("Name", pv.validate.Var(name, nameRules))
}

// ValidateQuantity checks a single quantity value.
func (pv *ProductValidator) ValidateQuantity(quantity int) []string {
	return violations("Quantity", pv.validate.Var(quantity, quantityRules))
}

// ValidatePrice checks a single price value.
func (pv *ProductValidator) ValidatePrice(price float64) []string {
	return violations("Price", pv.validate.Var(price, priceRules))
}

// ValidateUpdate checks every field set on u.
func (pv *ProductValidator) ValidateUpdate(u models.ProductUpdate) []string {
	var out []string
	if u.Name != nil {
		out = append(out, pv.ValidateName(*u.Name)...)
	}
	if u.Quantity != nil {
		out = append(out, pv.ValidateQuantity(*u.Quantity)...)
	}
	if u.Price != nil {
		out = append(out, pv.ValidatePrice(*u.Price)...)
	}
	return out
}

// violations turns validator output into messages. field overrides the field
// name, which validator leaves empty for Var checks.
func violations(field string, err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		msg, ok := violationMessages[name+"."+fe.Tag()]
		if !ok {
			msg = name + " is invalid"
		}
		out = append(out, msg)
	}
	return out
}
