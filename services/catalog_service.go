package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"eterna_server/database"
	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CatalogService serves the read side of the catalog: the category tree and
// product views, cached in Redis.
type CatalogService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewCatalogService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *CatalogService {
	return &CatalogService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// ListCategoryTree returns categories by display order, each with its sub-categories by id
func (cs *CatalogService) ListCategoryTree(ctx context.Context) ([]tables.Category, error) {
	if cached, err := cs.cacheService.GetCategoryTree(); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		cs.logger.Warn("Failed to read category tree from cache", gecho.Field("error", err))
	}

	tree, err := database.Query[tables.Category](cs.db).
		Relation("SubCategories", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.id ASC")
		}).
		OrderBy("order", database.ASC).
		OrderBy("id", database.ASC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load category tree: %w", lib.MapPgError(err))
	}

	for i := range tree {
		tree[i].SubCategories = SortSubCategories(tree[i].SubCategories)
	}

	if err := cs.cacheService.SetCategoryTree(tree); err != nil {
		cs.logger.Warn("Failed to cache category tree", gecho.Field("error", err))
	}

	return tree, nil
}

// SortSubCategories orders sub-categories by ascending id
func SortSubCategories(subs []*tables.SubCategory) []*tables.SubCategory {
	out := slices.Clone(subs)
	slices.SortStableFunc(out, func(a, b *tables.SubCategory) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// ListProductViews returns every product newest first with its public display fields
func (cs *CatalogService) ListProductViews(ctx context.Context) ([]structs.ProductView, error) {
	if cached, err := cs.cacheService.GetProductViews(); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		cs.logger.Warn("Failed to read product views from cache", gecho.Field("error", err))
	}

	products, err := cs.listProducts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]structs.ProductView, 0, len(products))
	for i := range products {
		views = append(views, ToProductView(&products[i], lib.PublicPrice))
	}

	if err := cs.cacheService.SetProductViews(views); err != nil {
		cs.logger.Warn("Failed to cache product views", gecho.Field("error", err))
	}

	return views, nil
}

// ListDashboard returns the admin product list for a category tab; "" and "All" show everything
func (cs *CatalogService) ListDashboard(ctx context.Context, category string) ([]structs.ProductView, error) {
	products, err := cs.listProducts(ctx)
	if err != nil {
		return nil, err
	}

	showAll := category == "" || category == structs.AllCategoriesAdmin

	views := make([]structs.ProductView, 0, len(products))
	for i := range products {
		view := ToProductView(&products[i], lib.AdminPrice)
		if showAll || view.Category == category {
			views = append(views, view)
		}
	}
	return views, nil
}

// GetProductView returns one product's detail view
func (cs *CatalogService) GetProductView(ctx context.Context, id string) (*structs.ProductView, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, lib.ErrNotFound
	}

	product, err := database.Query[tables.Product](cs.db).
		Relation("SubCategory.Category").
		Where("id", productID).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", lib.MapPgError(err))
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	view := ToProductView(product, lib.PublicPrice)
	return &view, nil
}

func (cs *CatalogService) listProducts(ctx context.Context) ([]tables.Product, error) {
	products, err := database.Query[tables.Product](cs.db).
		Relation("SubCategory.Category").
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", lib.MapPgError(err))
	}
	return products, nil
}

// ToProductView maps a stored product, with its relations loaded, to the display shape
func ToProductView(p *tables.Product, priceCtx lib.PriceContext) structs.ProductView {
	category := p.CategoryName()
	if category == "" {
		category = structs.UncategorizedName
	}

	subCategory := p.SubCategoryName()
	if subCategory == "" {
		subCategory = structs.UncategorizedName
	}

	gallery := p.ImgURLs
	if gallery == nil {
		gallery = []string{}
	}

	return structs.ProductView{
		ID:          p.ID.String(),
		Title:       p.Name,
		Category:    category,
		SubCategory: subCategory,
		SubID:       p.SubID,
		Image:       p.PrimaryImage(),
		Gallery:     gallery,
		ExternalURL: p.ExternalURL,
		Price:       lib.FormatLegacyPrice(p.Specs.Price.Raw(), priceCtx),
		Specs: structs.ProductSpecsView{
			ModelNo:  p.Specs.ModelNo,
			Material: p.Specs.Material,
			Size:     p.Specs.Size,
			Color:    p.Specs.Color,
		},
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// FilterProducts applies the storefront filter. The "전체" category or an empty
// one keeps every product; the search term matches title, description and model
// number without regard to case.
func FilterProducts(views []structs.ProductView, filter structs.CatalogFilter) []structs.ProductView {
	category := strings.TrimSpace(filter.Category)
	subCategory := strings.TrimSpace(filter.SubCategory)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]structs.ProductView, 0, len(views))
	for _, v := range views {
		if category != "" && category != structs.AllCategories {
			if v.Category != category {
				continue
			}
			if subCategory != "" && v.SubCategory != subCategory {
				continue
			}
		}

		if search != "" && !matchesSearch(v, search) {
			continue
		}

		out = append(out, v)
	}
	return out
}

func matchesSearch(v structs.ProductView, search string) bool {
	return strings.Contains(strings.ToLower(v.Title), search) ||
		strings.Contains(strings.ToLower(v.Description), search) ||
		strings.Contains(strings.ToLower(v.Specs.ModelNo), search)
}
