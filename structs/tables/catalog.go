package tables

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	tableName     struct{}       `bun:"table:categories,alias:c"`
	ID            int64          `bun:"id,pk,autoincrement" json:"id"`
	Name          string         `bun:"name,notnull" json:"name"`
	Order         int            `bun:"order,notnull" json:"order"` // display position, ascending
	CreatedAt     time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	SubCategories []*SubCategory `bun:"rel:has-many,join:id=category_id" json:"sub_categories,omitempty"`
}

type SubCategory struct {
	tableName  struct{}  `bun:"table:sub_categories,alias:sc"`
	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	CategoryID int64     `bun:"category_id,notnull" json:"category_id"`
	Name       string    `bun:"name,notnull" json:"name"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	Category   *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
}

type Product struct {
	tableName   struct{}     `bun:"table:products,alias:p"`
	ID          uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	SubID       *int64       `bun:"sub_id" json:"sub_id"` // NULL once the sub-category is deleted
	Name        string       `bun:"name,notnull" json:"name"`
	ImgURLs     []string     `bun:"img_urls,array" json:"img_urls"` // index 0 is the primary image
	ExternalURL string       `bun:"external_url" json:"external_url"`
	Description string       `bun:"description" json:"description"`
	Specs       ProductSpecs `bun:"specs,type:jsonb" json:"specs"`
	CreatedAt   time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	SubCategory *SubCategory `bun:"rel:belongs-to,join:sub_id=id" json:"sub_category,omitempty"`
}

// PrimaryImage returns img_urls[0] or "".
func (p *Product) PrimaryImage() string {
	if len(p.ImgURLs) == 0 {
		return ""
	}
	return p.ImgURLs[0]
}

// CategoryName resolves the derived category name, "" when the chain is broken.
func (p *Product) CategoryName() string {
	if p.SubCategory == nil || p.SubCategory.Category == nil {
		return ""
	}
	return p.SubCategory.Category.Name
}

func (p *Product) SubCategoryName() string {
	if p.SubCategory == nil {
		return ""
	}
	return p.SubCategory.Name
}
