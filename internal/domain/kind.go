package domain

import "strings"

// Kind separates the food and drink id spaces. A menu item and a drink
// may share an id, so every product reference carries its kind.
type Kind string

const (
	KindFood  Kind = "food"
	KindDrink Kind = "drink"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindFood || k == KindDrink
}

// ParseKind accepts the kind names used in URLs ("food", "drink", and the
// plural forms "foods", "drinks", "menu").
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "food", "foods", "menu", "menu_items":
		return KindFood, true
	case "drink", "drinks":
		return KindDrink, true
	default:
		return "", false
	}
}
