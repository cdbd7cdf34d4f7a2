package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService fronts the read paths that are hot and invalidation-friendly:
// single products and materialized category subtrees. A cache miss is (nil,
// nil), never an error.
type CacheService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	GetHierarchy(ctx context.Context, categoryID uuid.UUID) (*models.CategoryNode, error)
	SetHierarchy(ctx context.Context, node *models.CategoryNode, ttl time.Duration) error
	// InvalidateHierarchies drops every cached subtree. Category mutations
	// can change any ancestor's materialization, so invalidation is global.
	InvalidateHierarchies(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, addr)
	}

	return &redisCacheService{client: client}
}

func productKey(productID uuid.UUID) string {
	return fmt.Sprintf("farmmarket:product:%s", productID.String())
}

func hierarchyKey(categoryID uuid.UUID) string {
	return fmt.Sprintf("farmmarket:hierarchy:%s", categoryID.String())
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	data, err := r.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, productKey(product.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, productKey(productID)).Err()
}

func (r *redisCacheService) GetHierarchy(ctx context.Context, categoryID uuid.UUID) (*models.CategoryNode, error) {
	data, err := r.client.Get(ctx, hierarchyKey(categoryID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var node models.CategoryNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

func (r *redisCacheService) SetHierarchy(ctx context.Context, node *models.CategoryNode, ttl time.Duration) error {
	data, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, hierarchyKey(node.ID), data, ttl).Err()
}

func (r *redisCacheService) InvalidateHierarchies(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "farmmarket:hierarchy:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
