package models

// Category groups products. A category owns its products only through
// products.category_id; nothing cascades when it changes.
type Category struct {
	ID           uint      `gorm:"primaryKey"`
	CategoryName string    `gorm:"not null"`
	Products     []Product `gorm:"foreignKey:CategoryID"`
}

func (c *Category) TableName() string {
	return "categories"
}

// CategoryChanges holds the fields of a category update. Nil fields are left
// untouched.
type CategoryChanges struct {
	CategoryName *string
}

// Columns returns the column assignments for the fields that are set.
func (c CategoryChanges) Columns() map[string]any {
	cols := map[string]any{}
	if c.CategoryName != nil {
		cols["category_name"] = *c.CategoryName
	}
	return cols
}
