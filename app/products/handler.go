package products

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

type Category struct {
	CategoryName string `json:"category_name"`
}

type Tag struct {
	TagName string `json:"tag_name"`
}

// Product is the listing shape of a product, with its category and tags.
type Product struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    *Category       `json:"category"`
	Tags        []Tag           `json:"tags"`
}

// ProductRow is a product as stored, returned after a create.
type ProductRow struct {
	ID          uint            `json:"id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *uint           `json:"category_id"`
}

type ProductProvider interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product, tagIDs []uint) error
	UpdateProduct(ctx context.Context, id uint, changes models.ProductChanges) error
	DeleteProduct(ctx context.Context, id uint) error
}

// productInput is the body of create and update requests. Absent fields stay
// nil so an update only touches what the client sent.
type productInput struct {
	ProductName *string          `json:"product_name"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  nullableID       `json:"category_id"`
	TagIDs      *[]uint          `json:"tagIds"`
}

// nullableID tells an absent id apart from an explicit null.
type nullableID struct {
	Set bool
	ID  *uint
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.ID)
}

type ProductHandler struct {
	repo   ProductProvider
	logger *slog.Logger
}

func NewProductHandler(r ProductProvider, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		repo:   r,
		logger: logger.With(slog.String("handler", "products")),
	}
}

func (h *ProductHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.GetAllProducts(r.Context())
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	api.OKResponse(w, products)
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No product found with this id")
		return
	}

	product, err := h.repo.GetProduct(r.Context(), id)
	if errors.Is(err, models.ErrProductNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No product found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.OKResponse(w, toProduct(*product))
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	product := &models.Product{
		CategoryID: input.CategoryID.ID,
		Stock:      models.DefaultStock,
	}
	if input.ProductName != nil {
		product.ProductName = *input.ProductName
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	var tagIDs []uint
	if input.TagIDs != nil {
		tagIDs = *input.TagIDs
	}

	if err := h.repo.CreateProduct(r.Context(), product, tagIDs); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	api.OKResponse(w, ProductRow{
		ID:          product.ID,
		ProductName: product.ProductName,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
	})
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No product found with this id")
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	err := h.repo.UpdateProduct(r.Context(), id, models.ProductChanges{
		ProductName:   input.ProductName,
		Price:         input.Price,
		Stock:         input.Stock,
		CategoryID:    input.CategoryID.ID,
		ClearCategory: input.CategoryID.Set && input.CategoryID.ID == nil,
		TagIDs:        input.TagIDs,
	})
	if errors.Is(err, models.ErrProductNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No product found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	api.MessageResponse(w, http.StatusOK, "Product updated successfully")
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r)
	if !ok {
		api.MessageResponse(w, http.StatusNotFound, "No product found with this id")
		return
	}

	err := h.repo.DeleteProduct(r.Context(), id)
	if errors.Is(err, models.ErrProductNotFound) {
		api.MessageResponse(w, http.StatusNotFound, "No product found with this id")
		return
	}
	if err != nil {
		api.ErrorResponse(w, r, h.logger, http.StatusInternalServerError, err)
		return
	}

	api.MessageResponse(w, http.StatusOK, "Product deleted successfully")
}

func toProduct(p models.Product) Product {
	var category *Category
	if p.Category != nil {
		category = &Category{CategoryName: p.Category.CategoryName}
	}

	tags := make([]Tag, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = Tag{TagName: t.TagName}
	}

	return Product{
		ID:          p.ID,
		ProductName: p.ProductName,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    category,
		Tags:        tags,
	}
}
