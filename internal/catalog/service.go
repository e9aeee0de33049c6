package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/validate"
)

// ProductForm carries the admin product create/update input.
type ProductForm struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Stock       int      `json:"stock"`
	ImageURLs   []string `json:"imageUrls"`
}

// Validate checks every field and returns all failures at once.
func (f ProductForm) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}

	if msg := validate.ProductName(f.Name); msg != "" {
		errs["name"] = msg
	}
	if !f.Category.Valid() {
		errs["category"] = fmt.Sprintf("Le type doit être parmi: %s, %s, %s", CategoryHomme, CategoryFemme, CategoryMixte)
	}
	if msg := validate.Price(f.Price); msg != "" {
		errs["price"] = msg
	}
	if msg := validate.Stock(f.Stock); msg != "" {
		errs["stock"] = msg
	}
	if msg := validate.Description(f.Description); msg != "" {
		errs["description"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, search string, category Category) ([]Product, error) {
	if category != "" && !category.Valid() {
		// An unknown filter value matches nothing rather than erroring;
		// the storefront sends "Tous" for no filter, which is dropped upstream.
		return []Product{}, nil
	}
	products, err := s.repo.List(ctx, strings.TrimSpace(search), category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (*Product, error) {
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	p := &Product{
		Name:        strings.TrimSpace(form.Name),
		Category:    form.Category,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
	}
	for _, url := range form.ImageURLs {
		p.Images = append(p.Images, Image{URL: url})
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("name", p.Name).Msg("create product failed")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, form ProductForm) (*Product, error) {
	if errs := form.Validate(); errs != nil {
		return nil, errs
	}

	p := &Product{
		ID:          id,
		Name:        strings.TrimSpace(form.Name),
		Category:    form.Category,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AdjustStock(ctx context.Context, id string, delta int) error {
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Service) AddImage(ctx context.Context, productID, url string) (*Image, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("image url is required")
	}
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.AddImage(ctx, productID, url)
}

func (s *Service) RemoveImage(ctx context.Context, imageID string) error {
	return s.repo.RemoveImage(ctx, imageID)
}

func (s *Service) ListLowStock(ctx context.Context, threshold int) ([]Product, error) {
	return s.repo.ListLowStock(ctx, threshold)
}
