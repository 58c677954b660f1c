package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

// MaxProductPrice is the highest price a product or size may carry.
var MaxProductPrice = decimal.NewFromInt(1000)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	SortOrder   int
	IsActive    *bool
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
	Price       decimal.Decimal
	ImageURL    string
	Ingredients []string
	Sizes       []model.SizeVariant
	IsAvailable *bool
	IsFeatured  bool
}

// CatalogService manages the menu.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*model.Product, error)
	SetProductAvailability(ctx context.Context, id uuid.UUID, available bool) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	SeedSampleMenu(ctx context.Context) (bool, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) CreateCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	category := &model.Category{IsActive: true}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*model.Category, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory refuses to orphan products: they must be moved or deleted first.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	products, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if products > 0 {
		return fmt.Errorf("%w: %d product(s) reference it", apperrors.ErrCategoryInUse, products)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (s *catalogService) findCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func applyCategoryInput(category *model.Category, input CategoryInput) error {
	name := sanitizeText(input.Name, maxNameLength)
	if name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidProduct)
	}
	category.Name = name
	category.Description = sanitizeText(input.Description, maxDescriptionLength)
	category.ImageURL = sanitizeText(input.ImageURL, maxURLLength)
	category.SortOrder = input.SortOrder
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	return nil
}

// ListProducts lists available products only.
func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, err := s.productRepo.ListAvailable(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*model.Product, error) {
	product := &model.Product{IsAvailable: true}
	if err := s.applyProductInput(ctx, product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces every writable field of an existing product.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProductInput(ctx, product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *catalogService) SetProductAvailability(ctx context.Context, id uuid.UUID, available bool) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.SetAvailability(ctx, id, available); err != nil {
		return nil, fmt.Errorf("set product availability: %w", err)
	}
	product.IsAvailable = available
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (s *catalogService) applyProductInput(ctx context.Context, product *model.Product, input ProductInput) error {
	name := sanitizeText(input.Name, maxNameLength)
	if name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrInvalidProduct)
	}
	if err := validatePrice("price", input.Price); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(input.Sizes))
	sizes := make([]model.SizeVariant, 0, len(input.Sizes))
	for _, size := range input.Sizes {
		sizeName := sanitizeText(size.Name, maxNameLength)
		if sizeName == "" {
			return fmt.Errorf("%w: size name is required", apperrors.ErrInvalidProduct)
		}
		if _, dup := seen[sizeName]; dup {
			return fmt.Errorf("%w: duplicate size %q", apperrors.ErrInvalidProduct, sizeName)
		}
		seen[sizeName] = struct{}{}
		if err := validatePrice("size "+sizeName, size.Price); err != nil {
			return err
		}
		sizes = append(sizes, model.SizeVariant{Name: sizeName, Price: size.Price})
	}

	if _, err := s.findCategory(ctx, input.CategoryID); err != nil {
		return err
	}

	ingredients := make([]string, 0, len(input.Ingredients))
	for _, ingredient := range input.Ingredients {
		if v := sanitizeText(ingredient, maxNameLength); v != "" {
			ingredients = append(ingredients, v)
		}
	}

	product.Name = name
	product.Description = sanitizeText(input.Description, maxDescriptionLength)
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.ImageURL = sanitizeText(input.ImageURL, maxURLLength)
	product.Ingredients = ingredients
	product.Sizes = sizes
	product.IsFeatured = input.IsFeatured
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	return nil
}

func validatePrice(field string, p decimal.Decimal) error {
	if !p.IsPositive() || p.GreaterThan(MaxProductPrice) {
		return fmt.Errorf("%w: %s must be greater than 0 and at most %s", apperrors.ErrInvalidProduct, field, MaxProductPrice)
	}
	return nil
}

// SeedSampleMenu inserts the sample menu into an empty catalog.
// It reports false when categories already exist.
func (s *catalogService) SeedSampleMenu(ctx context.Context) (bool, error) {
	count, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	categories := sampleCategories()
	for i := range categories {
		categories[i].ID = uuid.New()
	}
	if err := s.categoryRepo.CreateBatch(ctx, categories); err != nil {
		return false, fmt.Errorf("seed categories: %w", err)
	}

	products := sampleProducts(categories[0], categories[1])
	if err := s.productRepo.CreateBatch(ctx, products); err != nil {
		return false, fmt.Errorf("seed products: %w", err)
	}

	s.logger.InfoContext(ctx, "sample menu seeded",
		slog.Int("categories", len(categories)),
		slog.Int("products", len(products)),
	)
	return true, nil
}
