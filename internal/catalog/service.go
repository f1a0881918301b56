package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
	"github.com/zmarties-lab/storefront-api/internal/core/storage"
	"github.com/zmarties-lab/storefront-api/internal/media"
)

var (
	// ErrInvalidProduct marks validation errors that should return HTTP 400.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrUploadFailed marks blob-store failures that should return HTTP 500.
	ErrUploadFailed = errors.New("media upload failed")
)

// Service manages the product catalog. Writes upload media first and
// persist last, so a failed upload never leaves a product pointing at
// URLs that do not exist.
type Service struct {
	store storage.ProductStore
	blobs media.Store
	nowFn func() time.Time
	idFn  func() string
}

// NewService wires the catalog's dependencies.
func NewService(store storage.ProductStore, blobs media.Store) *Service {
	if store == nil {
		panic("catalog: store must not be nil")
	}
	if blobs == nil {
		panic("catalog: blob store must not be nil")
	}
	return &Service{
		store: store,
		blobs: blobs,
		nowFn: time.Now,
		idFn:  func() string { return uuid.New().String() },
	}
}

// Create validates the request, uploads its media and persists the product.
func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*v1.Product, error) {
	if len(req.Images) == 0 {
		return nil, invalidf("at least one image is required")
	}

	now := s.nowFn()
	product := v1.Product{
		ID:        s.idFn(),
		Name:      req.Name,
		Category:  req.Category,
		Price:     req.Price,
		Rate:      req.Rate,
		Flavour:   req.Flavour,
		CreatedAt: now,
		UpdatedAt: now,
	}

	urls, videoURL, err := s.uploadMedia(ctx, req.Images, req.Video)
	if err != nil {
		return nil, err
	}
	product.Images = urls
	product.Video = videoURL

	if err := product.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	if err := s.store.CreateProduct(ctx, &product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	slog.Info("Product created",
		"id", product.ID,
		"category", product.Category,
		"images", len(product.Images))

	return &product, nil
}

// Get returns one product. Missing ids surface as storage.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*v1.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// List returns products newest first. category filters when non-empty and
// must be a known category.
func (s *Service) List(ctx context.Context, category string) ([]v1.Product, error) {
	if category != "" && !v1.ValidCategory(category) {
		return nil, invalidf("invalid category %q", category)
	}

	products, err := s.store.ListProducts(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []v1.Product{}
	}
	return products, nil
}

// Update replaces the mutable fields of an existing product. New media
// replaces the stored URLs wholesale; a request without images keeps them.
func (s *Service) Update(ctx context.Context, id string, req UpdateProductRequest) (*v1.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Category = req.Category
	product.Price = req.Price
	product.Rate = req.Rate
	product.Flavour = req.Flavour
	product.UpdatedAt = s.nowFn()

	if len(req.Images) > 0 || len(req.Video) > 0 {
		urls, videoURL, err := s.uploadMedia(ctx, req.Images, req.Video)
		if err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			product.Images = urls
		}
		if videoURL != "" {
			product.Video = videoURL
		}
	}

	if err := product.Validate(); err != nil {
		return nil, invalidf("%v", err)
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

// Delete removes a product. Missing ids surface as storage.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	slog.Info("Product deleted", "id", id)
	return nil
}

// Dashboard returns catalog totals for the admin console.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.store.CountProductsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &DashboardStats{
		TotalProducts: total,
		ByCategory:    counts,
	}, nil
}

func (s *Service) uploadMedia(ctx context.Context, images [][]byte, video []byte) ([]string, string, error) {
	urls := make([]string, 0, len(images))
	for i, data := range images {
		if err := media.CheckSize(data, media.KindImage); err != nil {
			return nil, "", invalidf("image %d: %v", i+1, err)
		}

		url, err := s.blobs.Upload(ctx, data, media.KindImage)
		if err != nil {
			return nil, "", uploadFailedf("image %d: %v", i+1, err)
		}
		urls = append(urls, url)
	}

	var videoURL string
	if len(video) > 0 {
		if err := media.CheckSize(video, media.KindVideo); err != nil {
			return nil, "", invalidf("video: %v", err)
		}

		url, err := s.blobs.Upload(ctx, video, media.KindVideo)
		if err != nil {
			return nil, "", uploadFailedf("video: %v", err)
		}
		videoURL = url
	}

	return urls, videoURL, nil
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidProduct, fmt.Sprintf(format, args...))
}

func uploadFailedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUploadFailed, fmt.Sprintf(format, args...))
}
