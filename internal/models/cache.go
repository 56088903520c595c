package models

import (
	"errors"
	"sync"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// categoryCache holds categories by ID and by name.
//
// Category lookups happen for every transaction that is created, since the
// category name is stored on the transaction.
var categoryCache = struct {
	sync.Mutex
	cache *ristretto.Cache
}{}

func initCategoryCache() {
	categoryCache.Lock()
	defer categoryCache.Unlock()

	if categoryCache.cache != nil {
		// Each connection can point to a different database
		categoryCache.cache.Clear()
		return
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     1000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Error().Err(err).Msg("category cache disabled")
		return
	}

	categoryCache.cache = cache
}

func categoryIDKey(id uuid.UUID) string {
	return "category:id:" + id.String()
}

func categoryNameKey(name string) string {
	return "category:name:" + name
}

func cacheCategory(c Category) {
	if categoryCache.cache == nil {
		return
	}

	categoryCache.cache.Set(categoryIDKey(c.ID), c, 1)
	categoryCache.cache.Set(categoryNameKey(c.Name), c, 1)
	categoryCache.cache.Wait()
}

func uncacheCategory(c Category) {
	if categoryCache.cache == nil {
		return
	}

	categoryCache.cache.Del(categoryIDKey(c.ID))
	categoryCache.cache.Del(categoryNameKey(c.Name))
}

func cachedCategory(key string) (Category, bool) {
	if categoryCache.cache == nil {
		return Category{}, false
	}

	v, ok := categoryCache.cache.Get(key)
	if !ok {
		return Category{}, false
	}

	c, ok := v.(Category)
	return c, ok
}

// CategoryByID returns the category with the ID, using the cache if possible.
func CategoryByID(db *gorm.DB, id uuid.UUID) (Category, error) {
	if c, ok := cachedCategory(categoryIDKey(id)); ok {
		return c, nil
	}

	var category Category
	err := db.First(&category, "id = ?", id).Error
	if err != nil {
		return Category{}, err
	}

	cacheCategory(category)
	return category, nil
}

// CategoryByName returns the category with the name, using the cache if possible.
//
// ok is false if no category with that name exists.
func CategoryByName(db *gorm.DB, name string) (category Category, ok bool, err error) {
	name = NormalizeCategoryName(name)
	if c, ok := cachedCategory(categoryNameKey(name)); ok {
		return c, true, nil
	}

	err = db.Where(&Category{Name: name}).First(&category).Error
	if errors.Is(err, ErrResourceNotFound) {
		return Category{}, false, nil
	} else if err != nil {
		return Category{}, false, err
	}

	cacheCategory(category)
	return category, true, nil
}
