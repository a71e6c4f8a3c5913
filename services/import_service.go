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
)

const (
	defaultImportCategory    = "Uncategorized"
	defaultImportSubCategory = "General"
	defaultImportTitle       = "No Title"
)

// importAliases lists, per field, the spreadsheet headers that may carry it.
// The first present and non-empty column wins.
var importAliases = map[string][]string{
	"category":     {"category", "Category", "카테고리"},
	"sub_category": {"subCategory", "SubCategory", "brand", "브랜드"},
	"title":        {"title", "Title", "상품명"},
	"description":  {"full_text", "description", "Description", "상품설명"},
	"external_url": {"external_url", "detail_url", "link", "Link"},
	"images":       {"image_files", "image_url", "image", "Image"},
	"brand":        {"brand", "브랜드"},
	"price":        {"price_raw", "price", "가격"},
}

// ImportRecord is one spreadsheet row normalized onto catalog fields
type ImportRecord struct {
	Category    string
	SubCategory string
	Title       string
	Description string
	ExternalURL string
	Images      []string
	Brand       string
	Price       string
}

// ResolveImportRecord reads a row through the alias lists and applies defaults
func ResolveImportRecord(header []string, row []string) ImportRecord {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, ok := columns[h]; !ok {
			columns[h] = i
		}
	}

	field := func(name string) string {
		for _, alias := range importAliases[name] {
			i, ok := columns[alias]
			if !ok || i >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
		return ""
	}

	rec := ImportRecord{
		Category:    orDefault(field("category"), defaultImportCategory),
		SubCategory: orDefault(field("sub_category"), defaultImportSubCategory),
		Title:       orDefault(field("title"), defaultImportTitle),
		Description: field("description"),
		ExternalURL: field("external_url"),
		Brand:       field("brand"),
		Price:       field("price"),
		Images:      []string{},
	}

	for _, img := range strings.Split(field("images"), ",") {
		if img = strings.TrimSpace(img); img != "" {
			rec.Images = append(rec.Images, img)
		}
	}

	return rec
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Product converts the record into a row under the given sub-category
func (rec ImportRecord) Product(subID int64) *tables.Product {
	specs := tables.ProductSpecs{Price: tables.NewPrice(rec.Price)}
	if rec.Brand != "" {
		specs.Attributes = map[string]any{"brand": rec.Brand}
	}

	return &tables.Product{
		ID:          uuid.New(),
		SubID:       &subID,
		Name:        rec.Title,
		ImgURLs:     rec.Images,
		ExternalURL: rec.ExternalURL,
		Description: rec.Description,
		Specs:       specs,
	}
}

type ImportService struct {
	logger          *gecho.Logger
	db              *database.DB
	cacheService    *CacheService
	categoryService *CategoryService
}

func NewImportService(logger *gecho.Logger, db *database.DB, cacheService *CacheService, categoryService *CategoryService) *ImportService {
	return &ImportService{
		logger:          logger,
		db:              db,
		cacheService:    cacheService,
		categoryService: categoryService,
	}
}

// ImportRows inserts one product per row, creating missing categories and
// sub-categories on the way. A failing row is logged and skipped.
func (is *ImportService) ImportRows(ctx context.Context, header []string, rows [][]string) (*structs.ImportResult, error) {
	if len(header) == 0 {
		return nil, lib.NewUserError("the sheet has no header row")
	}

	result := &structs.ImportResult{}
	categories := make(map[string]int64)
	subCategories := make(map[string]int64)

	for i, row := range rows {
		rec := ResolveImportRecord(header, row)

		subID, err := is.ensureSubCategory(ctx, rec, categories, subCategories)
		if err == nil {
			_, err = database.Query[tables.Product](is.db).Insert(ctx, rec.Product(subID))
		}
		if err != nil {
			is.logger.Warn("Skipping import row",
				gecho.Field("row", i+2),
				gecho.Field("title", rec.Title),
				gecho.Field("error", err),
			)
			result.Skipped++
			continue
		}
		result.Imported++
	}

	invalidateCatalog(is.cacheService)
	is.logger.Info("Import finished", gecho.Field("imported", result.Imported), gecho.Field("skipped", result.Skipped))
	return result, nil
}

func (is *ImportService) ensureSubCategory(ctx context.Context, rec ImportRecord, categories, subCategories map[string]int64) (int64, error) {
	key := scopedKey(rec.Category, rec.SubCategory)
	if id, ok := subCategories[key]; ok {
		return id, nil
	}

	categoryID, ok := categories[rec.Category]
	if !ok {
		category, err := database.Query[tables.Category](is.db).Where("name", rec.Category).First(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to look up category: %w", err)
		}
		if category == nil {
			if category, err = is.categoryService.AddCategory(ctx, rec.Category); err != nil {
				return 0, err
			}
		}
		categoryID = category.ID
		categories[rec.Category] = categoryID
	}

	sub, err := database.Query[tables.SubCategory](is.db).
		Where("category_id", categoryID).
		Where("name", rec.SubCategory).
		First(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to look up sub-category: %w", err)
	}
	if sub == nil {
		if sub, err = is.categoryService.AddSubCategory(ctx, categoryID, rec.SubCategory); err != nil {
			return 0, err
		}
	}

	subCategories[key] = sub.ID
	return sub.ID, nil
}
