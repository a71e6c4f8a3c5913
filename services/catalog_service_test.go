package services

import (
	"encoding/json"
	"testing"
	"time"

	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func sampleViews() []structs.ProductView {
	return []structs.ProductView{
		{Title: "클래식 레더 토트백", Category: "가방", SubCategory: "토트백", Specs: structs.ProductSpecsView{ModelNo: "ET-TB-001"}},
		{Title: "빈티지 퀼팅 숄더백", Category: "가방", SubCategory: "숄더백", Description: "램스킨 퀼팅"},
		{Title: "클래식 장지갑", Category: "지갑", SubCategory: "장지갑", Specs: structs.ProductSpecsView{ModelNo: "ET-LW-001"}},
	}
}

func titles(views []structs.ProductView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}

func TestFilterProductsAllCategories(t *testing.T) {
	require.Len(t, FilterProducts(sampleViews(), structs.CatalogFilter{}), 3)
	require.Len(t, FilterProducts(sampleViews(), structs.CatalogFilter{Category: structs.AllCategories}), 3)
	require.Len(t, FilterProducts(sampleViews(), structs.CatalogFilter{Category: structs.AllCategories, SubCategory: "토트백"}), 3)
}

func TestFilterProductsByCategoryAndSubCategory(t *testing.T) {
	out := FilterProducts(sampleViews(), structs.CatalogFilter{Category: "가방"})
	require.Equal(t, []string{"클래식 레더 토트백", "빈티지 퀼팅 숄더백"}, titles(out))

	out = FilterProducts(sampleViews(), structs.CatalogFilter{Category: "가방", SubCategory: "숄더백"})
	require.Equal(t, []string{"빈티지 퀼팅 숄더백"}, titles(out))

	out = FilterProducts(sampleViews(), structs.CatalogFilter{Category: "시계"})
	require.Empty(t, out)
}

func TestFilterProductsSearch(t *testing.T) {
	out := FilterProducts(sampleViews(), structs.CatalogFilter{Search: "et-lw"})
	require.Equal(t, []string{"클래식 장지갑"}, titles(out))

	out = FilterProducts(sampleViews(), structs.CatalogFilter{Search: "  클래식 "})
	require.Equal(t, []string{"클래식 레더 토트백", "클래식 장지갑"}, titles(out))

	out = FilterProducts(sampleViews(), structs.CatalogFilter{Category: "가방", Search: "램스킨"})
	require.Equal(t, []string{"빈티지 퀼팅 숄더백"}, titles(out))
}

func TestToProductViewDerivesNames(t *testing.T) {
	subID := int64(4)
	var specs tables.ProductSpecs
	require.NoError(t, json.Unmarshal([]byte(`{"price":"1,250","modelNo":"ET-TB-001","color":"블랙"}`), &specs))

	p := &tables.Product{
		ID:          uuid.New(),
		SubID:       &subID,
		Name:        "클래식 레더 토트백",
		ImgURLs:     []string{"a.jpg", "b.jpg"},
		Specs:       specs,
		CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		SubCategory: &tables.SubCategory{ID: subID, Name: "토트백", Category: &tables.Category{Name: "가방"}},
	}

	view := ToProductView(p, lib.PublicPrice)
	require.Equal(t, "가방", view.Category)
	require.Equal(t, "토트백", view.SubCategory)
	require.Equal(t, "a.jpg", view.Image)
	require.Equal(t, []string{"a.jpg", "b.jpg"}, view.Gallery)
	require.Equal(t, "1,250,000원", view.Price)
	require.Equal(t, "ET-TB-001", view.Specs.ModelNo)
	require.Equal(t, "블랙", view.Specs.Color)
}

func TestToProductViewWithoutSubCategory(t *testing.T) {
	view := ToProductView(&tables.Product{ID: uuid.New(), Name: "고아 상품"}, lib.PublicPrice)
	require.Equal(t, structs.UncategorizedName, view.Category)
	require.Equal(t, structs.UncategorizedName, view.SubCategory)
	require.Equal(t, "", view.Image)
	require.NotNil(t, view.Gallery)
}

func TestSortSubCategoriesByID(t *testing.T) {
	subs := []*tables.SubCategory{{ID: 7, Name: "c"}, {ID: 2, Name: "a"}, {ID: 5, Name: "b"}}

	sorted := SortSubCategories(subs)
	require.Equal(t, int64(2), sorted[0].ID)
	require.Equal(t, int64(5), sorted[1].ID)
	require.Equal(t, int64(7), sorted[2].ID)
	require.Equal(t, int64(7), subs[0].ID)
}
