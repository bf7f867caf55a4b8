package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lockwise/lockshop-backend/pkg/db/models"
	"github.com/lockwise/lockshop-backend/pkg/enums"
	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
)

const (
	minProperties = 1
	maxProperties = 30
)

// Service exposes catalog management and browsing operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error
	HardDeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListInput) (*ProductList, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if err := validateCatalogFields(input.Category, input.Tags, input.Properties, input.Price.IsNegative(), input.Stock); err != nil {
		return nil, err
	}

	slug, err := UniqueSlug(ctx, name, s.repo.SlugExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve slug")
	}

	product := &models.Product{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		Category:    input.Category,
		Tags:        pq.StringArray(input.Tags),
		Properties:  pq.StringArray(input.Properties),
		ImageURLs:   pq.StringArray(input.ImageURLs),
		Color:       input.Color,
		Price:       input.Price,
		Stock:       input.Stock,
		IsSelling:   input.IsSelling,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return FromModel(created), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		if name != product.Name {
			// Slug follows the name on every rename.
			slug, err := UniqueSlug(ctx, name, func(ctx context.Context, candidate string) (bool, error) {
				if candidate == product.Slug {
					return false, nil
				}
				return s.repo.SlugExists(ctx, candidate)
			})
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve slug")
			}
			product.Name = name
			product.Slug = slug
		}
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(*input.Tags)
	}
	if input.Properties != nil {
		product.Properties = pq.StringArray(*input.Properties)
	}
	if input.ImageURLs != nil {
		product.ImageURLs = pq.StringArray(*input.ImageURLs)
	}
	if input.Color != nil {
		product.Color = input.Color
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.IsSelling != nil {
		product.IsSelling = *input.IsSelling
	}

	if err := validateCatalogFields(product.Category, product.Tags, product.Properties, product.Price.IsNegative(), product.Stock); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return FromModel(saved), nil
}

func (s *service) SoftDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "soft delete product")
	}
	return nil
}

func (s *service) HardDeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.HardDelete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hard delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID, includeHidden bool) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !includeHidden && !product.Visible() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListInput) (*ProductList, error) {
	list, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func validateCatalogFields(category enums.ProductCategory, tags []string, properties []string, negativePrice bool, stock int) error {
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product category")
	}
	if len(tags) > enums.MaxProductTags {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d tags are allowed", enums.MaxProductTags))
	}
	for _, tag := range tags {
		if _, err := enums.ParseProductTag(tag); err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid product tag %q", tag))
		}
	}
	if len(properties) < minProperties || len(properties) > maxProperties {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("properties must contain between %d and %d entries", minProperties, maxProperties))
	}
	if negativePrice {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}
