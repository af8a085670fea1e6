package domain

import "errors"

// DefaultCategory is assigned when a product is created without a category.
const DefaultCategory = "electronics"

var ErrProductNotFound = errors.New("product not found")
var ErrValidation = errors.New("validation failed")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// Product is a sellable item in the catalog. The ID is assigned by the store
// on creation and never changes afterwards. Seller is an unvalidated
// reference to a User id; ownership is recorded, not enforced.
type Product struct {
	ID          string  `json:"id" bson:"_id,omitempty"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64 `json:"price" bson:"price"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
	Category    string  `json:"category" bson:"category"`
	Seller      string  `json:"seller,omitempty" bson:"seller,omitempty"`
}
