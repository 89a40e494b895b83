package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"pawpals/internal/domain"
	productrepo "pawpals/internal/repository/product"
)

const (
	notFoundMarker = "notfound"
	listIndexKey   = "products:lists"
)

// Products is a read-through Redis cache in front of the product repository.
// Redis failures are logged and the call falls through to the repository.
type Products struct {
	repo        productrepo.Repository
	redis       *redis.Client
	ttl         time.Duration
	notFoundTTL time.Duration
	logger      *log.Logger
}

func NewProducts(repo productrepo.Repository, client *redis.Client, logger *log.Logger) *Products {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Products{
		repo:        repo,
		redis:       client,
		ttl:         5 * time.Minute,
		notFoundTTL: time.Minute,
		logger:      logger,
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func listKey(f domain.ProductFilter) string {
	cat, price := "-", "-"
	if f.CategoryID != nil {
		cat = fmt.Sprint(*f.CategoryID)
	}
	if f.MaxPrice != nil {
		price = f.MaxPrice.String()
	}
	return fmt.Sprintf("products:list:%s:%s:%s", cat, price, f.Query)
}

func (c *Products) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)
	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, domain.ErrNotFound
		}
		var p domain.Product
		decErr := json.Unmarshal(data, &p)
		if decErr == nil {
			return &p, nil
		}
		c.logger.Printf("product cache: decode key=%s error=%v", key, decErr)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Printf("product cache: get key=%s error=%v", key, err)
	}

	p, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, c.notFoundTTL).Err(); setErr != nil {
				c.logger.Printf("product cache: set notfound key=%s error=%v", key, setErr)
			}
		}
		return nil, err
	}
	c.store(ctx, key, p)
	return p, nil
}

func (c *Products) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	key := listKey(filter)
	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var products []domain.Product
		decErr := json.Unmarshal(data, &products)
		if decErr == nil {
			return products, nil
		}
		c.logger.Printf("product cache: decode key=%s error=%v", key, decErr)
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Printf("product cache: get key=%s error=%v", key, err)
	}

	products, err := c.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if c.store(ctx, key, products) {
		if err := c.redis.SAdd(ctx, listIndexKey, key).Err(); err != nil {
			c.logger.Printf("product cache: index key=%s error=%v", key, err)
		}
	}
	return products, nil
}

// Upsert writes through and drops every cached view of the product.
func (c *Products) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	saved, err := c.repo.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, saved.ID)
	return saved, nil
}

// Invalidate removes the given products and all cached listings.
func (c *Products) Invalidate(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	lists, err := c.redis.SMembers(ctx, listIndexKey).Result()
	if err != nil {
		c.logger.Printf("product cache: list index error=%v", err)
	}
	keys = append(keys, lists...)
	keys = append(keys, listIndexKey)
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Printf("product cache: invalidate keys=%v error=%v", keys, err)
	}
}

func (c *Products) store(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Printf("product cache: encode key=%s error=%v", key, err)
		return false
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Printf("product cache: set key=%s error=%v", key, err)
		return false
	}
	return true
}
