package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hamadpass/khodarji-backend/pkg/enums"
)

func init() {
	// Storefront clients expect plain JSON numbers for money and quantities.
	decimal.MarshalJSONWithoutQuotes = true
}

// LocalizedString carries the English and Arabic renderings of a label.
type LocalizedString struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// In returns the rendering for the requested language, falling back to English.
func (s LocalizedString) In(lang enums.Language) string {
	if lang == enums.LanguageArabic && s.Ar != "" {
		return s.Ar
	}
	return s.En
}

// Product is a sellable catalog entry. Once referenced by an order line the
// order keeps its own copy; the catalog record stays freely editable.
type Product struct {
	ID          string                `json:"id"`
	Name        LocalizedString       `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Image       string                `json:"image"`
	Unit        string                `json:"unit"`
	Organic     bool                  `json:"organic"`
	Description *LocalizedString      `json:"description,omitempty"`
}

// CartItem is a product plus the quantity selected for it.
type CartItem struct {
	Product
	Quantity decimal.Decimal `json:"quantity"`
}

// Order is a frozen receipt: items, subtotal, fee and total are fixed at
// creation time and never recomputed from live catalog state.
type Order struct {
	ID            string            `json:"id"`
	CustomerPhone string            `json:"customerPhone"`
	Items         []CartItem        `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	DeliveryFee   decimal.Decimal   `json:"deliveryFee"`
	Total         decimal.Decimal   `json:"total"`
	Status        enums.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// User is a phone-keyed identity record. Phones are unique; users are created
// lazily on first identification and never deleted.
type User struct {
	ID    string         `json:"id"`
	Phone string         `json:"phone"`
	Role  enums.UserRole `json:"role"`
}
