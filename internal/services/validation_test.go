package services_test

import (
	"math"
	"strings"
	"testing"

	"inventory/internal/models"
	"inventory/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestProductValidator_Validate(t *testing.T) {
	pv := services.NewProductValidator()

	tests := []struct {
		name  string
		input models.ProductInput
		want  []string
	}{
		{"valid", models.ProductInput{Name: "Mouse", Quantity: 5, Price: 19.99}, nil},
		{"zero quantity and price", models.ProductInput{Name: "Mouse"}, nil},
		{"padded name", models.ProductInput{Name: " Mouse ", Quantity: 1, Price: 1}, nil},
		{"empty name", models.ProductInput{Name: "", Quantity: 1, Price: 1}, []string{"Name cannot be empty"}},
		{"whitespace name", models.ProductInput{Name: " \t ", Quantity: 1, Price: 1}, []string{"Name cannot be empty"}},
		{"long name", models.ProductInput{Name: strings.Repeat("x", 101), Quantity: 1, Price: 1}, []string{"Name cannot exceed 100 characters"}},
		{"negative quantity", models.ProductInput{Name: "Mouse", Quantity: -1, Price: 1}, []string{"Quantity cannot be negative"}},
		{"negative price", models.ProductInput{Name: "Mouse", Quantity: 1, Price: -0.01}, []string{"Price cannot be negative"}},
		{"infinite price", models.ProductInput{Name: "Mouse", Quantity: 1, Price: math.Inf(1)}, []string{"Price must be a finite number"}},
		{"negative infinite price", models.ProductInput{Name: "Mouse", Quantity: 1, Price: math.Inf(-1)}, []string{"Price must be a finite number"}},
		{"NaN price", models.ProductInput{Name: "Mouse", Quantity: 1, Price: math.NaN()}, []string{"Price must be a finite number"}},
		{
			"everything wrong",
			models.ProductInput{Name: "", Quantity: -3, Price: -5},
			[]string{"Name cannot be empty", "Quantity cannot be negative", "Price cannot be negative"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pv.Validate(tt.input)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProductValidator_ValidateUpdate(t *testing.T) {
	pv := services.NewProductValidator()

	assert.Empty(t, pv.ValidateUpdate(models.ProductUpdate{}))
	assert.Empty(t, pv.ValidateUpdate(models.ProductUpdate{Quantity: intPtr(0), Price: floatPtr(0)}))
	assert.Equal(t,
		[]string{"Name cannot be empty", "Price cannot be negative"},
		pv.ValidateUpdate(models.ProductUpdate{Name: strPtr("  "), Quantity: intPtr(2), Price: floatPtr(-1)}),
	)
}

func TestProductValidator_SingleFields(t *testing.T) {
	pv := services.NewProductValidator()

	assert.Empty(t, pv.ValidateName("Keyboard"))
	assert.Equal(t, []string{"Name cannot be empty"}, pv.ValidateName(""))
	assert.Empty(t, pv.ValidateQuantity(0))
	assert.Equal(t, []string{"Quantity cannot be negative"}, pv.ValidateQuantity(-1))
	assert.Empty(t, pv.ValidatePrice(0))
	assert.Equal(t, []string{"Price cannot be negative"}, pv.ValidatePrice(-1))
	assert.Equal(t, []string{"Price must be a finite number"}, pv.ValidatePrice(math.Inf(1)))
	assert.Equal(t, []string{"Price must be a finite number"}, pv.ValidatePrice(math.NaN()))
}

func TestValidationErrorMessage(t *testing.T) {
	err := &services.ValidationError{Violations: []string{"Name cannot be empty", "Price cannot be negative"}}
	assert.Equal(t, "validation failed: Name cannot be empty; Price cannot be negative", err.Error())
	assert.True(t, services.IsValidationError(err))
	assert.False(t, services.IsNotFound(err))
}
