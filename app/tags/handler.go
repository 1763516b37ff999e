package tags

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

type TagResponse struct {
	ID       uint              `json:"id"`
	TagName  string            `json:"tag_name"`
	Products []ProductResponse `json:"products"`
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

type TagProvider interface {
	GetAllTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	UpdateTag(ctx context.Context, id uint, changes models.TagChanges) (int64, error)
	DeleteTag(ctx context.Context, id uint) error
}

type TagHandler struct {
	repo   TagProvider
	logger *slog.Logger
}

func NewTagHandler(r TagProvider, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		repo:   r,
		logger: logger.With(slog.String("handler", "tags")),
	}
}

func (h *TagHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	tags, err := h.repo.GetAllTags(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	response := make([]TagResponse, len(tags))
	for i, t := range tags {
		response[i] = toTagResponse(t)
	}

	api.OKResponse(w, response)
}

func (h *TagHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No tag found with this id")
		return
	}

	tag, err := h.repo.GetTag(r.Context(), id)
	if errors.Is(err, models.ErrTagNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No tag found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, toTagResponse(*tag))
}

func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	tag := &models.Tag{TagName: input.TagName}
	if err := h.repo.CreateTag(r.Context(), tag); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, toTagResponse(*tag))
}

func (h *TagHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No tag found with this id")
		return
	}

	var input struct {
		TagName *string `json:"tag_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	n, err := h.repo.UpdateTag(r.Context(), id, models.TagChanges{TagName: input.TagName})
	if errors.Is(err, models.ErrTagNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No tag found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, UpdateResponse{RowsAffected: n})
}

func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No tag found with this id")
		return
	}

	err := h.repo.DeleteTag(r.Context(), id)
	if errors.Is(err, models.ErrTagNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No tag found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.MessageResponse(w, http.StatusOK, "Tag deleted successfully")
}

func toTagResponse(t models.Tag) TagResponse {
	products := make([]ProductResponse, len(t.Products))
	for i, p := range t.Products {
		products[i] = ProductResponse{
			ID:          p.ID,
			ProductName: p.ProductName,
			Price:       p.Price,
			Stock:       p.Stock,
			CategoryID:  p.CategoryID,
		}
	}

	return TagResponse{
		ID:       t.ID,
		TagName:  t.TagName,
		Products: products,
	}
}
