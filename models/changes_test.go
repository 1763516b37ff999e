package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProductChangesColumns(t *testing.T) {
	name := "Cargo Shorts"
	price := decimal.RequireFromString("29.99")
	stock := 0
	categoryID := uint(2)
	tagIDs := []uint{1}

	t.Run("All fields set", func(t *testing.T) {
		changes := ProductChanges{
			ProductName: &name,
			Price:       &price,
			Stock:       &stock,
			CategoryID:  &categoryID,
			TagIDs:      &tagIDs,
		}

		assert.Equal(t, map[string]any{
			"product_name": "Cargo Shorts",
			"price":        price,
			"stock":        0,
			"category_id":  uint(2),
		}, changes.Columns())
	})

	t.Run("Cleared category is set to null", func(t *testing.T) {
		changes := ProductChanges{CategoryID: &categoryID, ClearCategory: true}
		assert.Equal(t, map[string]any{"category_id": nil}, changes.Columns())
	})

	t.Run("Only tags set", func(t *testing.T) {
		changes := ProductChanges{TagIDs: &tagIDs}
		assert.Empty(t, changes.Columns())
	})
}

func TestCategoryAndTagChangesColumns(t *testing.T) {
	name := "Hats"

	assert.Equal(t, map[string]any{"category_name": "Hats"}, CategoryChanges{CategoryName: &name}.Columns())
	assert.Empty(t, CategoryChanges{}.Columns())

	assert.Equal(t, map[string]any{"tag_name": "Hats"}, TagChanges{TagName: &name}.Columns())
	assert.Empty(t, TagChanges{}.Columns())
}
