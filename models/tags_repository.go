package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrTagNotFound is returned when no tag matches an id.
var ErrTagNotFound = errors.New("tag not found")

type TagsRepository struct {
	db *gorm.DB
}

func NewTagsRepository(db *gorm.DB) *TagsRepository {
	return &TagsRepository{
		db: db,
	}
}

func preloadTagProducts(db *gorm.DB) *gorm.DB {
	return db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Order("products.id")
	})
}

func (r *TagsRepository) GetAllTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := preloadTagProducts(r.db.WithContext(ctx)).
		Order("tags.id").
		Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	return tags, nil
}

func (r *TagsRepository) GetTag(ctx context.Context, id uint) (*Tag, error) {
	var tag Tag
	if err := preloadTagProducts(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag %d: %w", id, err)
	}
	return &tag, nil
}

func (r *TagsRepository) CreateTag(ctx context.Context, tag *Tag) error {
	if err := r.db.WithContext(ctx).Omit("Products").Create(tag).Error; err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// UpdateTag applies changes to one tag and returns the number of rows
// matched, or ErrTagNotFound when there were none.
func (r *TagsRepository) UpdateTag(ctx context.Context, id uint, changes TagChanges) (int64, error) {
	n, err := updateByID(r.db.WithContext(ctx), &Tag{}, id, changes.Columns())
	if err != nil {
		return 0, fmt.Errorf("update tag %d: %w", id, err)
	}
	if n == 0 {
		return 0, ErrTagNotFound
	}
	return n, nil
}

func (r *TagsRepository) DeleteTag(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Tag{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete tag %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTagNotFound
	}
	return nil
}
