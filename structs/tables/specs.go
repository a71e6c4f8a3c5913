package tables

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

const (
	specPrice    = "price"
	specModelNo  = "modelNo"
	specMaterial = "material"
	specSize     = "size"
	specColor    = "color"
)

// Price is the stored price exactly as it was written: a JSON number, a numeric
// string with or without separators, or free text such as "문의".
type Price struct {
	raw any
}

func NewPrice(v any) Price {
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return Price{}
	}
	return Price{raw: v}
}

func (p Price) Raw() any {
	return p.raw
}

func (p Price) IsZero() bool {
	return p.raw == nil
}

// ProductSpecs is the typed view of the products.specs jsonb column. It reads
// and writes the same flat object legacy rows use, with unknown keys kept in Attributes.
type ProductSpecs struct {
	Price      Price
	ModelNo    string
	Material   string
	Size       string
	Color      string
	Attributes map[string]any
}

// SpecsFromMap builds specs from an untyped bag such as an editor submission.
func SpecsFromMap(m map[string]any) ProductSpecs {
	var specs ProductSpecs
	specs.assign(m)
	return specs
}

func (s ProductSpecs) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Attributes)+5)
	maps.Copy(out, s.Attributes)

	if !s.Price.IsZero() {
		out[specPrice] = s.Price.raw
	}
	out[specModelNo] = s.ModelNo
	out[specMaterial] = s.Material
	out[specSize] = s.Size
	out[specColor] = s.Color

	return json.Marshal(out)
}

func (s *ProductSpecs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = ProductSpecs{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fmt.Errorf("invalid product specs: %w", err)
	}

	*s = ProductSpecs{}
	s.assign(m)
	return nil
}

func (s *ProductSpecs) assign(m map[string]any) {
	for key, value := range m {
		switch key {
		case specPrice:
			s.Price = NewPrice(value)
		case specModelNo:
			s.ModelNo = specString(value)
		case specMaterial:
			s.Material = specString(value)
		case specSize:
			s.Size = specString(value)
		case specColor:
			s.Color = specString(value)
		default:
			if s.Attributes == nil {
				s.Attributes = make(map[string]any)
			}
			s.Attributes[key] = value
		}
	}
}

func specString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
