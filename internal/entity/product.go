package entity

import "fmt"

// DateLayout is the calendar-date format used for DateAdded and ExpiryDate.
// Dates are stored as text and parsed lazily; an unparsable date is not an
// error at the product level, only at the point of use (reports).
const DateLayout = "2006-01-02"

// Product is a sellable item. Products are shared by reference: the catalog,
// carts and committed orders all point at the same instance, so a stock debit
// made by a cart is immediately visible everywhere. Identity is pointer
// identity; there is no separate key field.
type Product struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"availableQuantity"`
	DateAdded     string  `json:"dateAdded"`
	ExpiryDate    string  `json:"expiryDate"`
	Rating        float64 `json:"rating"`
	RatingCount   int     `json:"ratingCount"`
	PurchaseCount int     `json:"purchaseCount"`
}

// RecordPurchase bumps the purchase counter. Called once per product included
// in a committed order, regardless of the reserved quantity.
func (p *Product) RecordPurchase() {
	p.PurchaseCount++
}

func (p *Product) String() string {
	return fmt.Sprintf("Produs{nume=%q, pret=%v, cantitate=%d, rating=%v, ratinguri=%d, cumparari=%d}",
		p.Name, p.Price, p.Quantity, p.Rating, p.RatingCount, p.PurchaseCount)
}

// Capabilities describes what a given view of a product may do with it.
// The admin card can edit and delete, the user card can rate and purchase;
// both render the same underlying product.
type Capabilities struct {
	CanEditDelete   bool `json:"canEditDelete"`
	CanRatePurchase bool `json:"canRatePurchase"`
}

func AdminCapabilities() Capabilities {
	return Capabilities{CanEditDelete: true}
}

func UserCapabilities() Capabilities {
	return Capabilities{CanRatePurchase: true}
}
