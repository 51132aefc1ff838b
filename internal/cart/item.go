package cart

import "temo/internal/domain"

// ItemFromProduct builds the cart input for a catalogue product. The price
// is captured once here; later catalogue edits do not touch existing lines.
func ItemFromProduct(p domain.Product) Item {
	return Item{
		ProductID:   p.ID,
		Name:        p.NameAr,
		Description: p.DescriptionAr,
		UnitPrice:   p.Price.InexactFloat64(),
		Variant:     p.Size,
		ImageRef:    p.ImageURL,
	}
}
