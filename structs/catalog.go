package structs

import (
	"time"

	"eterna_server/structs/tables"
)

// AllCategories is the virtual category that disables category filtering.
const AllCategories = "전체"

// AllCategoriesAdmin is the dashboard's equivalent tab.
const AllCategoriesAdmin = "All"

// UncategorizedName is shown when a product's sub-category or category can no longer be resolved.
const UncategorizedName = "Uncategorized"

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

// CatalogFilter carries the storefront's per-request browsing state.
type CatalogFilter struct {
	Category    string `json:"category,omitempty"`
	SubCategory string `json:"subCategory,omitempty"`
	Search      string `json:"search,omitempty"`
}

type ProductSpecsView struct {
	ModelNo  string `json:"modelNo"`
	Material string `json:"material"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// ProductView is the storefront shape of a product with derived names and display price.
type ProductView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	SubCategory string           `json:"subCategory"`
	SubID       *int64           `json:"subId,omitempty"`
	Image       string           `json:"image"`
	Gallery     []string         `json:"gallery"`
	ExternalURL string           `json:"externalUrl"`
	Price       string           `json:"price"`
	Specs       ProductSpecsView `json:"specs"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ProductForm is the admin editor's submission. Price is tracked apart from the
// other specs and merged into them on save.
type ProductForm struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	SubCategory string         `json:"sub_category"`
	Description string         `json:"description"`
	ExternalURL string         `json:"external_url" validate:"omitempty,url"`
	ImgURLs     []string       `json:"img_urls"`
	Price       any            `json:"price"`
	Specs       map[string]any `json:"specs"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type MoveCategoryRequest struct {
	Direction MoveDirection `json:"direction" validate:"required,oneof=up down"`
}

// CategoryMoveResult reports the list after a move. Moved is false for edge no-ops.
type CategoryMoveResult struct {
	Moved      bool              `json:"moved"`
	Categories []tables.Category `json:"categories"`
}
