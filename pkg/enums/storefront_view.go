package enums

// StorefrontView names the section a session is currently looking at.
type StorefrontView string

const (
	StorefrontViewHome   StorefrontView = "home"
	StorefrontViewAdmin  StorefrontView = "admin"
	StorefrontViewOrders StorefrontView = "orders"
)

// IsValid reports whether the value is a known StorefrontView.
func (v StorefrontView) IsValid() bool {
	switch v {
	case StorefrontViewHome, StorefrontViewAdmin, StorefrontViewOrders:
		return true
	}
	return false
}
