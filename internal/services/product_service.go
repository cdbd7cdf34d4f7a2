package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"farmmarket/internal/caching"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/google/uuid"
)

const (
	productCacheTTL     = 15 * time.Minute
	productImageBucket  = "product-images"
	defaultProductImage = "https://developers.elementor.com/docs/assets/img/elementor-placeholder-image.png"
)

// PromotionOutcome reports what happened to the seller's role after a product
// was created.
type PromotionOutcome int

const (
	// PromotionSkipped means the seller already held Farmer or higher.
	PromotionSkipped PromotionOutcome = iota
	// PromotionApplied means the seller was promoted from Registered to Farmer.
	PromotionApplied
	// PromotionFailed means the product exists but the role update did not
	// take; the product is never rolled back for this.
	PromotionFailed
)

// CreateProductResult separates the primary effect (the product row) from the
// best-effort role promotion, so callers can tell full success from degraded
// success.
type CreateProductResult struct {
	Product      *models.Product
	Promotion    PromotionOutcome
	PromotionErr error
}

type ProductService interface {
	Create(ctx context.Context, product *models.Product) (*CreateProductResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error
	GetImageURL(ctx context.Context, productID uuid.UUID, expiry time.Duration) (string, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	minioSvc     MinioService
	cacheSvc     caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository, minioSvc MinioService, cacheSvc caching.CacheService) ProductService {
	return &productService{
		productRepo:  productRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		minioSvc:     minioSvc,
		cacheSvc:     cacheSvc,
	}
}

func (s *productService) Create(ctx context.Context, product *models.Product) (*CreateProductResult, error) {
	if product.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", repositories.ErrValidation)
	}
	if product.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", repositories.ErrValidation)
	}

	// Seller and category must exist before the insert; neither is enforced
	// by a database foreign key here.
	user, err := s.userRepo.GetByID(ctx, product.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("user: %w", repositories.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, product.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("category: %w", repositories.ErrNotFound)
		}
		return nil, err
	}

	if product.Image == "" {
		product.Image = defaultProductImage
	}
	product.ID = uuid.New()
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	result := &CreateProductResult{Product: product, Promotion: PromotionSkipped}
	if user.Role == models.RoleRegistered {
		if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleFarmer); err != nil {
			// The product stays; promotion is best effort.
			log.Printf("product %s created, but promoting user %s failed: %v", product.ID, user.ID, err)
			result.Promotion = PromotionFailed
			result.PromotionErr = err
		} else {
			result.Promotion = PromotionApplied
		}
	}
	return result, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheSvc.GetProduct(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("product cache read for %s: %v", id, err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheSvc.SetProduct(ctx, product, productCacheTTL); err != nil {
		log.Printf("product cache write for %s: %v", id, err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, limit, offset)
}

func (s *productService) ListByCategory(ctx context.Context, categoryID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.ListByCategory(ctx, categoryID, limit, offset)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, update *models.ProductUpdate) error {
	if err := s.productRepo.UpdateFields(ctx, id, update); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteProduct(ctx, id); err != nil {
		log.Printf("product cache invalidation for %s: %v", id, err)
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	// Stored objects go away with the row; externally hosted images are not
	// ours to remove. Object cleanup is best effort once the row is gone.
	if !externalImage(product.Image) {
		if err := s.minioSvc.DeleteImage(ctx, productImageBucket, product.Image); err != nil {
			log.Printf("product image cleanup for %s: %v", id, err)
		}
	}
	if err := s.cacheSvc.DeleteProduct(ctx, id); err != nil {
		log.Printf("product cache invalidation for %s: %v", id, err)
	}
	return nil
}

func (s *productService) UploadImage(ctx context.Context, productID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}
	if err := s.minioSvc.EnsureBucketExists(ctx, productImageBucket); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	objectName := path.Join(productID.String(), filename)
	if err := s.minioSvc.UploadImage(ctx, productImageBucket, objectName, reader, size, contentType); err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	update := &models.ProductUpdate{Image: &objectName}
	if err := s.productRepo.UpdateFields(ctx, productID, update); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteProduct(ctx, productID); err != nil {
		log.Printf("product cache invalidation for %s: %v", productID, err)
	}
	return nil
}

func (s *productService) GetImageURL(ctx context.Context, productID uuid.UUID, expiry time.Duration) (string, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}
	// Externally hosted images (including the placeholder) are returned as is.
	if externalImage(product.Image) {
		return product.Image, nil
	}
	return s.minioSvc.GetPresignedURL(ctx, productImageBucket, product.Image, expiry)
}

// externalImage reports whether the image value is not one of our stored
// object names: empty, the placeholder, or any http(s) URL.
func externalImage(image string) bool {
	return image == "" || image == defaultProductImage || strings.HasPrefix(image, "http")
}
