package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fitness/internal/interfaces"
	"fitness/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ErrImagesDisabled is returned by UploadImage when no image store is configured.
var ErrImagesDisabled = errors.New("image uploads are not configured")

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type ProductService struct {
	products  interfaces.ProductRepository
	sanitizer Sanitizer
	images    ImageStore
	logger    *slog.Logger
	v         *validator.Validate
}

// NewProductService wires the catalog. images may be nil.
func NewProductService(products interfaces.ProductRepository, sanitizer Sanitizer, images ImageStore, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		products:  products,
		sanitizer: sanitizer,
		images:    images,
		logger:    logger,
		v:         NewValidator(),
	}
}

func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func productNotFound() error {
	return &NotFoundError{Resource: "product", Message: "product not found"}
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	p := &models.Product{
		ID:                    uuid.NewString(),
		Category:              strings.TrimSpace(req.Category),
		ProductName:           strings.TrimSpace(req.ProductName),
		Price:                 req.Price,
		Description:           s.sanitizer.Sanitize(req.Description),
		Stock:                 req.Stock,
		ProductType:           req.ProductType,
		Image:                 req.Image,
		DurationInHoursPerDay: req.DurationInHoursPerDay,
		DurationInDays:        req.DurationInDays,
		Quantity:              req.Quantity,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", "product_id", p.ID, "category", p.Category)
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	filter.Limit, filter.Offset = Page(filter.Limit, filter.Offset)
	return s.products.List(ctx, filter)
}

func (s *ProductService) Update(ctx context.Context, id string, req models.UpdateProductRequest) (*models.Product, error) {
	if req.Empty() {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if err := s.v.Struct(req); err != nil {
		return nil, ValidationErrorFrom(err)
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(p)
	p.Description = s.sanitizer.Sanitize(p.Description)
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a product. Products that appear on orders cannot be deleted and
// yield *interfaces.DeletionBlockedError.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return productNotFound()
		}
		return err
	}
	s.logger.Info("product deleted", "product_id", id)
	return nil
}

// UploadImage stores the image and points the product at it.
func (s *ProductService) UploadImage(ctx context.Context, id string, filename string, contentType string, body io.Reader) (*models.Product, error) {
	if s.images == nil {
		return nil, ErrImagesDisabled
	}
	if !allowedImageTypes[contentType] {
		return nil, &ValidationError{Field: "image", Message: fmt.Sprintf("unsupported content type %q", contentType)}
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Put(ctx, productImageKey(p.ID, uuid.NewString(), filename), contentType, body)
	if err != nil {
		return nil, err
	}
	p.Image = url
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
