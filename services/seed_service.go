package services

import (
	"context"
	_ "embed"
	"fmt"

	"eterna_server/database"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/catalog.yaml
var catalogFixture []byte

type CatalogFixture struct {
	Categories []FixtureCategory `yaml:"categories"`
	Products   []FixtureProduct  `yaml:"products"`
}

type FixtureCategory struct {
	Name          string   `yaml:"name"`
	SubCategories []string `yaml:"sub_categories"`
}

type FixtureProduct struct {
	Title       string         `yaml:"title"`
	Category    string         `yaml:"category"`
	SubCategory string         `yaml:"sub_category"`
	Image       string         `yaml:"image"`
	Gallery     []string       `yaml:"gallery"`
	ExternalURL string         `yaml:"external_url"`
	Specs       map[string]any `yaml:"specs"`
	Description string         `yaml:"description"`
}

func LoadCatalogFixture(data []byte) (*CatalogFixture, error) {
	var fixture CatalogFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse catalog fixture: %w", err)
	}
	return &fixture, nil
}

type SeedService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
	fixture      []byte
}

func NewSeedService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *SeedService {
	return &SeedService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
		fixture:      catalogFixture,
	}
}

// Seed replaces the whole catalog with the development fixture in one transaction
func (ss *SeedService) Seed(ctx context.Context) (*structs.SeedResult, error) {
	fixture, err := LoadCatalogFixture(ss.fixture)
	if err != nil {
		return nil, err
	}

	result, err := database.TransactionWithResult(ctx, ss.db, func(ctx context.Context, tx bun.Tx) (*structs.SeedResult, error) {
		if err := wipeCatalog(ctx, tx); err != nil {
			return nil, err
		}

		categories, err := database.Query[tables.Category](tx).InsertMany(ctx, FixtureCategories(fixture))
		if err != nil {
			return nil, fmt.Errorf("failed to insert categories: %w", err)
		}

		var subs []tables.SubCategory
		for i, c := range categories {
			for _, name := range fixture.Categories[i].SubCategories {
				subs = append(subs, tables.SubCategory{CategoryID: c.ID, Name: name})
			}
		}
		subs, err = database.Query[tables.SubCategory](tx).InsertMany(ctx, subs)
		if err != nil {
			return nil, fmt.Errorf("failed to insert sub-categories: %w", err)
		}

		names := make(map[int64]string, len(categories))
		for _, c := range categories {
			names[c.ID] = c.Name
		}
		subIDs := make(map[string]int64, len(subs))
		for _, s := range subs {
			subIDs[scopedKey(names[s.CategoryID], s.Name)] = s.ID
		}

		products, skipped := FixtureProducts(fixture, subIDs)
		for _, key := range skipped {
			ss.logger.Warn("Skipping fixture product with unknown sub-category", gecho.Field("key", key))
		}

		products, err = database.Query[tables.Product](tx).InsertMany(ctx, products)
		if err != nil {
			return nil, fmt.Errorf("failed to insert products: %w", err)
		}

		return &structs.SeedResult{
			Categories:    len(categories),
			SubCategories: len(subs),
			Products:      len(products),
			Skipped:       skipped,
		}, nil
	})
	if err != nil {
		ss.logger.Error("Catalog seed failed", gecho.Field("error", err))
		return nil, err
	}

	if err := ss.cacheService.InvalidateCatalog(); err != nil {
		ss.logger.Warn("Failed to invalidate catalog cache after seed", gecho.Field("error", err))
	}

	ss.logger.Info("Catalog seeded",
		gecho.Field("categories", result.Categories),
		gecho.Field("sub_categories", result.SubCategories),
		gecho.Field("products", result.Products),
	)
	return result, nil
}

func wipeCatalog(ctx context.Context, tx bun.Tx) error {
	if _, err := database.Query[tables.Product](tx).WhereRaw("TRUE").Delete(ctx); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	if _, err := database.Query[tables.SubCategory](tx).WhereRaw("TRUE").Delete(ctx); err != nil {
		return fmt.Errorf("failed to clear sub-categories: %w", err)
	}
	if _, err := database.Query[tables.Category](tx).WhereRaw("TRUE").Delete(ctx); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}
	return nil
}

// FixtureCategories numbers the fixture categories from 1 in file order
func FixtureCategories(fixture *CatalogFixture) []tables.Category {
	out := make([]tables.Category, 0, len(fixture.Categories))
	for i, c := range fixture.Categories {
		out = append(out, tables.Category{Name: c.Name, Order: i + 1})
	}
	return out
}

// FixtureProducts maps fixture products onto inserted sub-category ids. Products
// whose category and sub-category pair is unknown are returned as skipped keys.
func FixtureProducts(fixture *CatalogFixture, subIDs map[string]int64) ([]tables.Product, []string) {
	var products []tables.Product
	var skipped []string

	for _, p := range fixture.Products {
		subID, ok := subIDs[scopedKey(p.Category, p.SubCategory)]
		if !ok {
			skipped = append(skipped, p.Category+":"+p.SubCategory)
			continue
		}

		images := p.Gallery
		if len(images) == 0 && p.Image != "" {
			images = []string{p.Image}
		}
		if images == nil {
			images = []string{}
		}

		products = append(products, tables.Product{
			ID:          uuid.New(),
			SubID:       &subID,
			Name:        p.Title,
			ImgURLs:     images,
			ExternalURL: p.ExternalURL,
			Description: p.Description,
			Specs:       tables.SpecsFromMap(p.Specs),
		})
	}

	return products, skipped
}
