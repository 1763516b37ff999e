package models

// ProductTag is one (product, tag) association. A pair appears at most once.
type ProductTag struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_product_tags_pair"`
	TagID     uint `gorm:"not null;uniqueIndex:idx_product_tags_pair;index"`
}

func (pt *ProductTag) TableName() string {
	return "product_tags"
}

// DiffProductTags compares the current join rows of a product with the
// requested tag ids. It returns the tag ids that need a new join row, in
// request order and without duplicates, and the ids of the join rows whose
// tag is no longer requested.
func DiffProductTags(current []ProductTag, requested []uint) (newTagIDs []uint, staleRowIDs []uint) {
	have := make(map[uint]struct{}, len(current))
	for _, pt := range current {
		have[pt.TagID] = struct{}{}
	}

	want := make(map[uint]struct{}, len(requested))
	for _, tagID := range requested {
		if _, seen := want[tagID]; seen {
			continue
		}
		want[tagID] = struct{}{}
		if _, ok := have[tagID]; !ok {
			newTagIDs = append(newTagIDs, tagID)
		}
	}

	for _, pt := range current {
		if _, ok := want[pt.TagID]; !ok {
			staleRowIDs = append(staleRowIDs, pt.ID)
		}
	}

	return newTagIDs, staleRowIDs
}

// joinRows builds one join row per distinct tag id for the given product.
func joinRows(productID uint, tagIDs []uint) []ProductTag {
	rows := make([]ProductTag, 0, len(tagIDs))
	seen := make(map[uint]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, ok := seen[tagID]; ok {
			continue
		}
		seen[tagID] = struct{}{}
		rows = append(rows, ProductTag{ProductID: productID, TagID: tagID})
	}
	return rows
}
