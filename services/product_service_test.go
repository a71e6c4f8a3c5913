package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"eterna_server/config"

	"eterna_server/lib"
	"eterna_server/structs"
	"eterna_server/structs/tables"

	"github.com/stretchr/testify/require"
)

func sampleTree() []tables.Category {
	return []tables.Category{
		{ID: 1, Name: "가방", SubCategories: []*tables.SubCategory{{ID: 11, Name: "토트백"}, {ID: 12, Name: "기타"}}},
		{ID: 2, Name: "지갑", SubCategories: []*tables.SubCategory{{ID: 21, Name: "장지갑"}, {ID: 22, Name: "기타"}}},
	}
}

func TestSubCategoryIndexPrefersSelectedCategory(t *testing.T) {
	idx := BuildSubCategoryIndex(sampleTree())

	id, ok := idx.Lookup("지갑", "기타")
	require.True(t, ok)
	require.Equal(t, int64(22), id)

	id, ok = idx.Lookup("가방", "기타")
	require.True(t, ok)
	require.Equal(t, int64(12), id)
}

func TestSubCategoryIndexFallsBackToName(t *testing.T) {
	idx := BuildSubCategoryIndex(sampleTree())

	id, ok := idx.Lookup("시계", "장지갑")
	require.True(t, ok)
	require.Equal(t, int64(21), id)

	_, ok = idx.Lookup("가방", "클러치")
	require.False(t, ok)
}

func TestValidateProductForm(t *testing.T) {
	err := ValidateProductForm(&structs.ProductForm{Name: "   ", Category: "가방", SubCategory: "토트백"})
	var userErr *lib.UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, msgProductNameRequired, userErr.Error())

	err = ValidateProductForm(&structs.ProductForm{Name: "토트백", Category: "가방"})
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, msgCategorySelectionNeeded, userErr.Error())

	require.NoError(t, ValidateProductForm(&structs.ProductForm{Name: "토트백", Category: "가방", SubCategory: "토트백"}))
}

func TestBuildProductMergesPriceIntoSpecs(t *testing.T) {
	form := &structs.ProductForm{
		Name:        "  클래식 레더 토트백 ",
		Category:    "가방",
		SubCategory: "토트백",
		Price:       "1250",
		Specs:       map[string]any{"modelNo": "ET-TB-001", "price": "stale", "brand": "ETERNA"},
	}

	p := BuildProduct(form, 11)
	require.Equal(t, "클래식 레더 토트백", p.Name)
	require.Equal(t, int64(11), *p.SubID)
	require.NotNil(t, p.ImgURLs)

	data, err := json.Marshal(p.Specs)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	require.Equal(t, "1250", flat["price"])
	require.Equal(t, "ET-TB-001", flat["modelNo"])
	require.Equal(t, "ETERNA", flat["brand"])
}

func TestBuildProductBlankPriceIsOmitted(t *testing.T) {
	p := BuildProduct(&structs.ProductForm{Name: "a", Category: "b", SubCategory: "c", Price: " "}, 1)
	require.True(t, p.Specs.Price.IsZero())
}

type stubSubCategoryFinder struct {
	sub   *tables.SubCategory
	err   error
	calls []string
}

func (f *stubSubCategoryFinder) FindSubCategoryByName(ctx context.Context, name string) (*tables.SubCategory, error) {
	f.calls = append(f.calls, name)
	return f.sub, f.err
}

func newTestProductService(finder *stubSubCategoryFinder) (*ProductService, *countingInvalidator) {
	cache := &countingInvalidator{}
	return &ProductService{logger: config.NewLogger(false), cache: cache, subCategories: finder}, cache
}

func TestSubmitProductValidatesBeforeAnyLookup(t *testing.T) {
	finder := &stubSubCategoryFinder{}
	ps, cache := newTestProductService(finder)

	_, err := ps.SubmitProduct(context.Background(), &structs.ProductForm{Name: "Bag", Category: "Bags"}, SubCategoryIndex{})

	var userErr *lib.UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, msgCategorySelectionNeeded, userErr.Error())
	require.Empty(t, finder.calls)
	require.Zero(t, cache.calls)
}

func TestSubmitProductAsksToRefreshWhenSubCategoryIsGone(t *testing.T) {
	finder := &stubSubCategoryFinder{}
	ps, cache := newTestProductService(finder)

	form := &structs.ProductForm{Name: "미니 클러치", Category: "가방", SubCategory: "클러치"}
	_, err := ps.SubmitProduct(context.Background(), form, BuildSubCategoryIndex(sampleTree()))

	var userErr *lib.UserError
	require.ErrorAs(t, err, &userErr)
	require.Equal(t, fmt.Sprintf(msgSubCategoryMissingFmt, "클러치"), userErr.Error())
	require.Contains(t, userErr.Error(), "새로고침")
	require.Equal(t, []string{"클러치"}, finder.calls)
	require.Zero(t, cache.calls)
}

func TestResolveSubCategoryFallsBackToLookup(t *testing.T) {
	form := &structs.ProductForm{Name: "미니 클러치", Category: "가방", SubCategory: "클러치"}

	finder := &stubSubCategoryFinder{sub: &tables.SubCategory{ID: 77, Name: "클러치"}}
	ps, _ := newTestProductService(finder)

	id, err := ps.resolveSubCategory(context.Background(), form, BuildSubCategoryIndex(sampleTree()))
	require.NoError(t, err)
	require.Equal(t, int64(77), id)

	// a hit in the tree never reaches the lookup
	form.SubCategory = "토트백"
	id, err = ps.resolveSubCategory(context.Background(), form, BuildSubCategoryIndex(sampleTree()))
	require.NoError(t, err)
	require.Equal(t, int64(11), id)
	require.Len(t, finder.calls, 1)

	failing := &stubSubCategoryFinder{err: errors.New("database down")}
	ps, _ = newTestProductService(failing)
	form.SubCategory = "클러치"
	_, err = ps.resolveSubCategory(context.Background(), form, BuildSubCategoryIndex(sampleTree()))
	require.EqualError(t, err, "database down")
}
