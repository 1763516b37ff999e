package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrCategoryNotFound is returned when no category matches an id.
var ErrCategoryNotFound = errors.New("category not found")

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

func preloadCategoryProducts(db *gorm.DB) *gorm.DB {
	return db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("products.id")
	})
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := preloadCategoryProducts(r.db.WithContext(ctx)).
		Order("categories.id").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	return categories, nil
}

func (r *CategoriesRepository) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := preloadCategoryProducts(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category %d: %w", id, err)
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	if err := r.db.WithContext(ctx).Omit("Products").Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory applies changes to one category and returns the number of
// rows matched, or ErrCategoryNotFound when there were none.
func (r *CategoriesRepository) UpdateCategory(ctx context.Context, id uint, changes CategoryChanges) (int64, error) {
	n, err := updateByID(r.db.WithContext(ctx), &Category{}, id, changes.Columns())
	if err != nil {
		return 0, fmt.Errorf("update category %d: %w", id, err)
	}
	if n == 0 {
		return 0, ErrCategoryNotFound
	}
	return n, nil
}

func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
