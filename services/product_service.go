package services

import (
	"context"
	"fmt"
	"strings"

	"eterna_server/database"
	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const (
	msgProductNameRequired     = "상품명을 입력해주세요."
	msgCategorySelectionNeeded = "카테고리와 하위 카테고리를 모두 선택해주세요."
	msgSubCategoryMissingFmt   = "하위 카테고리 \"%s\" 정보를 데이터베이스에서 찾을 수 없습니다. 페이지를 새로고침 해주세요."
)

// productColumns are the columns an edit may change; id and created_at never move.
var productColumns = []string{"sub_id", "name", "img_urls", "external_url", "description", "specs"}

// subCategoryFinder is the by-name lookup used when the editor's tree is stale
type subCategoryFinder interface {
	FindSubCategoryByName(ctx context.Context, name string) (*tables.SubCategory, error)
}

type ProductService struct {
	logger        *gecho.Logger
	db            *database.DB
	cache         catalogInvalidator
	subCategories subCategoryFinder
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService, categoryService *CategoryService) *ProductService {
	return &ProductService{
		logger:        logger,
		db:            db,
		cache:         cacheService,
		subCategories: categoryService,
	}
}

// SubCategoryIndex resolves sub-category names to ids from a category tree.
// A name under the selected category wins over the same name elsewhere.
type SubCategoryIndex struct {
	scoped map[string]int64
	byName map[string]int64
}

// BuildSubCategoryIndex indexes the tree; for a repeated name the first one in tree order is kept
func BuildSubCategoryIndex(tree []tables.Category) SubCategoryIndex {
	idx := SubCategoryIndex{
		scoped: make(map[string]int64),
		byName: make(map[string]int64),
	}

	for _, category := range tree {
		for _, sub := range category.SubCategories {
			if sub == nil {
				continue
			}
			if _, ok := idx.scoped[scopedKey(category.Name, sub.Name)]; !ok {
				idx.scoped[scopedKey(category.Name, sub.Name)] = sub.ID
			}
			if _, ok := idx.byName[sub.Name]; !ok {
				idx.byName[sub.Name] = sub.ID
			}
		}
	}
	return idx
}

func (idx SubCategoryIndex) Lookup(category, name string) (int64, bool) {
	if id, ok := idx.scoped[scopedKey(category, name)]; ok {
		return id, true
	}
	id, ok := idx.byName[name]
	return id, ok
}

func scopedKey(category, sub string) string {
	return category + "\x00" + sub
}

// ValidateProductForm checks the editor's required fields. It performs no I/O.
func ValidateProductForm(form *structs.ProductForm) error {
	if form == nil || strings.TrimSpace(form.Name) == "" {
		return lib.NewUserError(msgProductNameRequired)
	}
	if form.Category == "" || form.SubCategory == "" {
		return lib.NewUserError(msgCategorySelectionNeeded)
	}
	return nil
}

// BuildProduct turns a validated form into the stored row. The separately
// edited price is merged into the specs, which is the only place it is kept.
func BuildProduct(form *structs.ProductForm, subID int64) *tables.Product {
	specs := tables.SpecsFromMap(form.Specs)
	specs.Price = tables.NewPrice(form.Price)

	images := form.ImgURLs
	if images == nil {
		images = []string{}
	}

	return &tables.Product{
		SubID:       &subID,
		Name:        strings.TrimSpace(form.Name),
		ImgURLs:     images,
		ExternalURL: strings.TrimSpace(form.ExternalURL),
		Description: form.Description,
		Specs:       specs,
	}
}

// SubmitProduct validates, resolves the sub-category and inserts or updates the product
func (ps *ProductService) SubmitProduct(ctx context.Context, form *structs.ProductForm, index SubCategoryIndex) (*tables.Product, error) {
	if err := ValidateProductForm(form); err != nil {
		return nil, err
	}

	subID, err := ps.resolveSubCategory(ctx, form, index)
	if err != nil {
		return nil, err
	}

	product := BuildProduct(form, subID)

	if form.ID == "" {
		product.ID = uuid.New()
		created, err := database.Query[tables.Product](ps.db).Insert(ctx, product)
		if err != nil {
			return nil, fmt.Errorf("failed to create product: %w", lib.MapPgError(err))
		}

		ps.logger.Info("Product created", gecho.Field("id", created.ID), gecho.Field("sub_id", subID))
		invalidateCatalog(ps.cache)
		return created, nil
	}

	productID, err := uuid.Parse(form.ID)
	if err != nil {
		return nil, lib.ErrNotFound
	}
	product.ID = productID

	affected, err := database.Query[tables.Product](ps.db).
		Select(productColumns...).
		Update(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return nil, lib.ErrNotFound
	}

	ps.logger.Info("Product updated", gecho.Field("id", product.ID), gecho.Field("sub_id", subID))
	invalidateCatalog(ps.cache)
	return product, nil
}

// resolveSubCategory uses the editor's tree first and falls back to one
// lookup by name, which covers a tree loaded before the sub-category existed.
func (ps *ProductService) resolveSubCategory(ctx context.Context, form *structs.ProductForm, index SubCategoryIndex) (int64, error) {
	if id, ok := index.Lookup(form.Category, form.SubCategory); ok {
		return id, nil
	}

	ps.logger.Warn("Sub-category not in editor tree, looking it up by name",
		gecho.Field("category", form.Category),
		gecho.Field("sub_category", form.SubCategory),
	)

	sub, err := ps.subCategories.FindSubCategoryByName(ctx, form.SubCategory)
	if err != nil {
		return 0, err
	}
	if sub == nil {
		return 0, lib.NewUserError(fmt.Sprintf(msgSubCategoryMissingFmt, form.SubCategory))
	}
	return sub.ID, nil
}

// GetProduct loads a product with its sub-category and category for the editor
func (ps *ProductService) GetProduct(ctx context.Context, id string) (*tables.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, lib.ErrNotFound
	}

	product, err := database.Query[tables.Product](ps.db).
		Relation("SubCategory.Category").
		Where("id", productID).
		First(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", lib.MapPgError(err))
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// UpdateImages replaces a product's ordered image list
func (ps *ProductService) UpdateImages(ctx context.Context, id string, images []string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return lib.ErrNotFound
	}

	affected, err := database.Query[tables.Product](ps.db).
		Where("id", productID).
		Update(ctx, map[string]any{"img_urls": pgdialect.Array(images)})
	if err != nil {
		return fmt.Errorf("failed to update product images: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	invalidateCatalog(ps.cache)
	return nil
}

// DeleteProduct removes a product once the admin confirmed. Its images stay in storage.
func (ps *ProductService) DeleteProduct(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return lib.ErrConfirmationRequired
	}

	productID, err := uuid.Parse(id)
	if err != nil {
		return lib.ErrNotFound
	}

	affected, err := database.DeleteByID[tables.Product](ctx, ps.db, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", lib.MapPgError(err))
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	ps.logger.Info("Product deleted", gecho.Field("id", productID))
	invalidateCatalog(ps.cache)
	return nil
}
