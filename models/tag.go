package models

// Tag labels products through the product_tags join table.
type Tag struct {
	ID       uint      `gorm:"primaryKey"`
	TagName  string
	Products []Product `gorm:"many2many:product_tags"`
}

func (t *Tag) TableName() string {
	return "tags"
}

// TagChanges holds the fields of a tag update. Nil fields are left untouched.
type TagChanges struct {
	TagName *string
}

// Columns returns the column assignments for the fields that are set.
func (c TagChanges) Columns() map[string]any {
	cols := map[string]any{}
	if c.TagName != nil {
		cols["tag_name"] = *c.TagName
	}
	return cols
}
