package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Setup registers ProductTag as the join model of the product/tag
// many-to-many association. It must run before any query on db touches
// Product.Tags or Tag.Products.
func Setup(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Product{}, "Tags", &ProductTag{}); err != nil {
		return fmt.Errorf("setup product tags join table: %w", err)
	}
	if err := db.SetupJoinTable(&Tag{}, "Products", &ProductTag{}); err != nil {
		return fmt.Errorf("setup tag products join table: %w", err)
	}
	return nil
}

// AutoMigrate creates or extends the four catalog tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Category{},
		&Product{},
		&Tag{},
		&ProductTag{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// TableNames lists the catalog tables, join table last.
func TableNames() []string {
	return []string{
		(&Category{}).TableName(),
		(&Product{}).TableName(),
		(&Tag{}).TableName(),
		(&ProductTag{}).TableName(),
	}
}

// updateByID applies cols to the row with the given id and reports how many
// rows matched. With no columns to set it only counts the matching rows, so
// the result still answers whether the row exists.
func updateByID(tx *gorm.DB, model any, id uint, cols map[string]any) (int64, error) {
	if len(cols) == 0 {
		var n int64
		if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
			return 0, err
		}
		return n, nil
	}

	res := tx.Model(model).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
