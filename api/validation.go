package api

import (
	"strings"
)

// Validator provides centralized validation for request payloads before they
// go on the wire. The rules and messages mirror the server's constraints, so
// a locally rejected payload fails the same way a server-rejected one would,
// just without the round trip.
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// rejected builds the local counterpart of a server-side validation failure.
// StatusCode is zero because no request was sent.
func rejected(message string) error {
	return &APIError{Message: message, kind: ErrValidationRejected}
}

// ValidateRegistration checks a registration payload.
func (v *Validator) ValidateRegistration(req RegisterRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	if req.Password == "" {
		return rejected("Password is required")
	}
	if len(req.Password) < 8 {
		return rejected("Password must be at least 8 characters")
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return rejected("Full name is required")
	}
	if len(fullName) < 2 || len(fullName) > 100 {
		return rejected("Full name must be between 2 and 100 characters")
	}

	return nil
}

// ValidateLogin checks login credentials for presence.
func (v *Validator) ValidateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return rejected("Password is required")
	}
	return nil
}

// ValidateProduct checks a product create/update payload.
func (v *Validator) ValidateProduct(req ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return rejected("Product name is required")
	}
	if len(name) > 500 {
		return rejected("Product name cannot exceed 500 characters")
	}

	if req.Price <= 0 {
		return rejected("Price must be positive")
	}
	if req.StockQuantity < 0 {
		return rejected("Stock quantity cannot be negative")
	}

	if strings.TrimSpace(req.SKU) == "" {
		return rejected("SKU is required")
	}
	if len(req.SKU) > 100 {
		return rejected("SKU cannot exceed 100 characters")
	}

	if len(req.ImageURL) > 500 {
		return rejected("Image URL cannot exceed 500 characters")
	}

	return nil
}

// ValidateReview checks a review payload.
func (v *Validator) ValidateReview(req ReviewRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return rejected("Rating must be between 1 and 5")
	}
	if strings.TrimSpace(req.Title) == "" {
		return rejected("Title is required")
	}
	if strings.TrimSpace(req.Comment) == "" {
		return rejected("Comment is required")
	}
	return nil
}

// ValidateOrder checks an order payload.
func (v *Validator) ValidateOrder(req OrderRequest) error {
	if len(req.ShippingAddress) == 0 {
		return rejected("Shipping address is required")
	}
	return nil
}

// ValidateCartItem checks an add-to-cart payload.
func (v *Validator) ValidateCartItem(req CartItemRequest) error {
	if strings.TrimSpace(req.ProductID) == "" {
		return rejected("Product is required")
	}
	if req.Quantity < 1 {
		return rejected("Quantity must be at least 1")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return rejected("Email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return rejected("Email must be a valid email address")
	}
	return nil
}
