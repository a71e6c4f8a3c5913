package tables

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductSpecsReadsLegacyObject(t *testing.T) {
	var specs ProductSpecs
	err := json.Unmarshal([]byte(`{"price":1250,"modelNo":"ET-TB-001","color":"코냑 브라운","brand":"ETERNA"}`), &specs)
	require.NoError(t, err)

	require.Equal(t, json.Number("1250"), specs.Price.Raw())
	require.Equal(t, "ET-TB-001", specs.ModelNo)
	require.Equal(t, "코냑 브라운", specs.Color)
	require.Equal(t, "ETERNA", specs.Attributes["brand"])
}

func TestProductSpecsKeepsUnknownKeysOnWrite(t *testing.T) {
	specs := SpecsFromMap(map[string]any{"brand": "ETERNA", "size": "W35"})
	specs.Price = NewPrice("문의")

	data, err := json.Marshal(specs)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	require.Equal(t, "문의", flat["price"])
	require.Equal(t, "ETERNA", flat["brand"])
	require.Equal(t, "W35", flat["size"])
}

func TestBlankPriceIsZero(t *testing.T) {
	require.True(t, NewPrice("  ").IsZero())
	require.True(t, NewPrice(nil).IsZero())
	require.False(t, NewPrice("0").IsZero())
}

func TestProductDerivedNames(t *testing.T) {
	p := &Product{}
	require.Equal(t, "", p.PrimaryImage())
	require.Equal(t, "", p.CategoryName())

	p.ImgURLs = []string{"a.jpg", "b.jpg"}
	p.SubCategory = &SubCategory{Name: "토트백", Category: &Category{Name: "가방"}}
	require.Equal(t, "a.jpg", p.PrimaryImage())
	require.Equal(t, "가방", p.CategoryName())
	require.Equal(t, "토트백", p.SubCategoryName())
}
