package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func preloadProductRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id")
		})
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := preloadProductRelations(r.db.WithContext(ctx)).
		Order("products.id").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

func (r *ProductsRepository) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := preloadProductRelations(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &product, nil
}

// CreateProduct inserts product and links it to every distinct tag in
// tagIDs. Both inserts commit together or not at all.
func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		if len(tagIDs) == 0 {
			return nil
		}
		if err := insertProductTags(tx, product.ID, tagIDs); err != nil {
			return fmt.Errorf("link product %d to tags: %w", product.ID, err)
		}
		return nil
	})
}

// UpdateProduct applies changes to one product. When changes.TagIDs is set
// the product's join rows are reconciled with it: missing pairs are inserted
// and pairs no longer requested are deleted. Everything runs in one
// transaction; ErrProductNotFound is returned before any tag work happens.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, id uint, changes ProductChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := updateByID(tx, &Product{}, id, changes.Columns())
		if err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}
		if n == 0 {
			return ErrProductNotFound
		}

		if changes.TagIDs == nil {
			return nil
		}
		if err := syncProductTags(tx, id, *changes.TagIDs); err != nil {
			return fmt.Errorf("sync tags of product %d: %w", id, err)
		}
		return nil
	})
}

// DeleteProduct removes one product row. Its join rows are left in place.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetProductTags returns the join rows of one product ordered by id.
func (r *ProductsRepository) GetProductTags(ctx context.Context, productID uint) ([]ProductTag, error) {
	var rows []ProductTag
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find tags of product %d: %w", productID, err)
	}
	return rows, nil
}

func syncProductTags(tx *gorm.DB, productID uint, tagIDs []uint) error {
	var current []ProductTag
	if err := tx.Where("product_id = ?", productID).Find(&current).Error; err != nil {
		return fmt.Errorf("find current product tags: %w", err)
	}

	newTagIDs, staleRowIDs := DiffProductTags(current, tagIDs)

	if len(staleRowIDs) > 0 {
		if err := tx.Delete(&ProductTag{}, staleRowIDs).Error; err != nil {
			return fmt.Errorf("delete stale product tags: %w", err)
		}
	}
	if len(newTagIDs) > 0 {
		if err := insertProductTags(tx, productID, newTagIDs); err != nil {
			return err
		}
	}
	return nil
}

func insertProductTags(tx *gorm.DB, productID uint, tagIDs []uint) error {
	rows := joinRows(productID, tagIDs)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert product tags: %w", err)
	}
	return nil
}
