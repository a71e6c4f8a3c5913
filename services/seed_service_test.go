package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedFixtureParses(t *testing.T) {
	fixture, err := LoadCatalogFixture(catalogFixture)
	require.NoError(t, err)
	require.NotEmpty(t, fixture.Categories)
	require.NotEmpty(t, fixture.Products)

	categories := FixtureCategories(fixture)
	for i, c := range categories {
		require.Equal(t, i+1, c.Order)
	}
}

func TestFixtureProductsSkipsUnknownSubCategories(t *testing.T) {
	fixture, err := LoadCatalogFixture([]byte(`
categories:
  - name: 가방
    sub_categories: [토트백]
products:
  - title: 토트
    category: 가방
    sub_category: 토트백
    image: https://img.example.com/a.jpg
    specs:
      modelNo: ET-TB-001
      price: 1250
  - title: 갤러리 토트
    category: 가방
    sub_category: 토트백
    image: https://img.example.com/cover.jpg
    gallery: [https://img.example.com/1.jpg, https://img.example.com/2.jpg]
  - title: 고아
    category: 가방
    sub_category: 클러치
`))
	require.NoError(t, err)

	products, skipped := FixtureProducts(fixture, map[string]int64{scopedKey("가방", "토트백"): 7})
	require.Len(t, products, 2)
	require.Equal(t, []string{"가방:클러치"}, skipped)

	require.Equal(t, int64(7), *products[0].SubID)
	require.Equal(t, []string{"https://img.example.com/a.jpg"}, products[0].ImgURLs)
	require.Equal(t, "ET-TB-001", products[0].Specs.ModelNo)
	require.False(t, products[0].Specs.Price.IsZero())

	require.Equal(t, []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"}, products[1].ImgURLs)
	require.NotEqual(t, products[0].ID, products[1].ID)
}
