package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/apperr"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/model"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/product"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/product/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/cache"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/search"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/uploader"
)

const productIndex = "products"

const productMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"price": { "type": "double" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo     product.Repository
	cache    *cache.RedisClient
	es       *search.Client
	uploader *uploader.Uploader
	folder   string
	logger   logger.Logger
}

// Cache, search, and uploader are optional; a nil client disables the feature.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, up *uploader.Uploader, folder string, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:     repo,
		cache:    cache,
		es:       es,
		uploader: up,
		folder:   folder,
		logger:   log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if strings.TrimSpace(input.SKU) == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	if input.Price.IsNegative() || input.CostPrice.IsNegative() {
		return nil, apperr.Wrap(apperr.ErrValidation, "prices must not be negative")
	}

	unique, err := uc.repo.IsSKUUnique(ctx, input.SKU, 0)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperr.Wrap(apperr.ErrConflict, "sku %q already exists", input.SKU)
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:  model.BaseModel{CreatedAt: now, UpdatedAt: now},
		CategoryID: input.CategoryID,
		SKU:        strings.TrimSpace(input.SKU),
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		CostPrice:  input.CostPrice,
		IsActive:   true,
	}
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %d not found", id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey := uc.listCacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var cached struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		cached := struct {
			Products []model.Product
			Count    int
		}{products, count}
		if data, err := json.Marshal(cached); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "sku", "description"},
			},
		},
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
		q["from"] = (filters.Page - 1) * filters.PageSize
	}

	res, err := uc.es.Search(ctx, productIndex, q)
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			if p.ID == 0 {
				if id, err := strconv.ParseInt(hit.ID, 10, 64); err == nil {
					p.ID = id
				}
			}
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %d not found", input.ID)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperr.Wrap(apperr.ErrValidation, "price must not be negative")
	}

	if p.SKU != input.SKU {
		unique, err := uc.repo.IsSKUUnique(ctx, input.SKU, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperr.Wrap(apperr.ErrConflict, "sku %q already exists", input.SKU)
		}
	}

	p.SKU = strings.TrimSpace(input.SKU)
	p.Name = strings.TrimSpace(input.Name)
	p.CategoryID = input.CategoryID
	p.Price = input.Price
	p.IsActive = input.IsActive
	if input.Description != "" {
		desc := input.Description
		p.Description = &desc
	} else {
		p.Description = nil
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // already gone
	}

	if err := uc.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	go uc.invalidateListCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productIndex, strconv.FormatInt(id, 10)); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) UploadImage(ctx context.Context, id int64, file multipart.File) (*model.Product, error) {
	if uc.uploader == nil {
		return nil, apperr.Wrap(apperr.ErrValidation, "image uploads are not configured")
	}

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "product %d not found", id)
	}

	result, err := uc.uploader.UploadImage(ctx, file, uc.folder)
	if err != nil {
		return nil, err
	}

	// Previous image is replaced, not accumulated.
	if p.ImagePublicID != nil {
		if err := uc.uploader.DeleteImage(ctx, *p.ImagePublicID); err != nil {
			uc.logger.Warn("failed to delete previous image", zap.Error(err))
		}
	}

	if err := uc.repo.UpdateImage(ctx, id, result.SecureURL, result.PublicID); err != nil {
		return nil, err
	}
	p.ImageURL = &result.SecureURL
	p.ImagePublicID = &result.PublicID

	go uc.invalidateListCache(context.Background())
	return p, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, productIndex, productMapping)

	if err := uc.es.Index(ctx, productIndex, strconv.FormatInt(p.ID, 10), p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func (uc *productUseCase) listCacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data))
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}
