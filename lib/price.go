package lib

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceContext selects the placeholder shown when a product has no price
type PriceContext int

const (
	PublicPrice PriceContext = iota
	AdminPrice
)

const (
	adminPricePlaceholder = "가격 미정"
	thousandsCutoff       = 10000
	wonSuffix             = "원"
)

var pricePrinter = message.NewPrinter(language.Korean)

func (c PriceContext) placeholder() string {
	if c == AdminPrice {
		return adminPricePlaceholder
	}
	return ""
}

// FormatLegacyPrice renders a stored price for display. Values below 10,000 are
// shorthand for thousands of won ("1250" is 1,250,000원). Anything that does not
// parse as a number, such as "문의", is returned as written.
func FormatLegacyPrice(value any, ctx PriceContext) string {
	if isFalsyPrice(value) {
		return ctx.placeholder()
	}

	raw := priceString(value)

	amount, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(raw, ",", "")), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return raw
	}

	if amount < thousandsCutoff {
		amount *= 1000
	}

	return pricePrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(3))) + wonSuffix
}

func isFalsyPrice(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case json.Number:
		f, err := v.Float64()
		return err == nil && (f == 0 || math.IsNaN(f))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer:
		return rv.IsNil() || isFalsyPrice(rv.Elem().Interface())
	}
	return false
}

func priceString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
