package categories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mytheresa/ecommerce-back-end/app/api"
	"github.com/mytheresa/ecommerce-back-end/models"
)

type CategoryResponse struct {
	ID           uint              `json:"id"`
	CategoryName string            `json:"category_name"`
	Products     []ProductResponse `json:"products"`
}

type ProductResponse struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *uint           `json:"category_id"`
}

type UpdateResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id uint, changes models.CategoryChanges) (int64, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	repo   CategoryProvider
	logger *slog.Logger
}

func NewCategoryHandler(r CategoryProvider, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		repo:   r,
		logger: logger.With(slog.String("handler", "categories")),
	}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	// An empty table is reported as not found.
	if len(categories) == 0 {
		api.MessageResponse(w, http.StatusNotFound, "No categories found")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toCategoryResponse(c)
	}

	api.OKResponse(w, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No category found")
		return
	}

	category, err := h.repo.GetCategory(r.Context(), id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No category found")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, toCategoryResponse(*category))
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CategoryName string `json:"category_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	category := &models.Category{
		CategoryName: input.CategoryName,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, toCategoryResponse(*category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No category found with this id")
		return
	}

	var input struct {
		CategoryName *string `json:"category_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	n, err := h.repo.UpdateCategory(r.Context(), id, models.CategoryChanges{
		CategoryName: input.CategoryName,
	})
	if errors.Is(err, models.ErrCategoryNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No category found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, UpdateResponse{RowsAffected: n})
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No category found with this id")
		return
	}

	err := h.repo.DeleteCategory(r.Context(), id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No category found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.MessageResponse(w, http.StatusOK, "Category deleted successfully")
}

func toCategoryResponse(c models.Category) CategoryResponse {
	products := make([]ProductResponse, len(c.Products))
	for i, p := range c.Products {
		products[i] = ProductResponse{
			ID:          p.ID,
			ProductName: p.ProductName,
			Price:       p.Price,
			Stock:       p.Stock,
			CategoryID:  p.CategoryID,
		}
	}

	return CategoryResponse{
		ID:           c.ID,
		CategoryName: c.CategoryName,
		Products:     products,
	}
}
