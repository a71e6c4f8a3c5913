package handling

import (
	"net/http"
	"strconv"
	"strings"

	"eterna_server/structs"
)

// ParseCatalogFilter reads the storefront browsing state from the query string
func ParseCatalogFilter(r *http.Request) structs.CatalogFilter {
	query := r.URL.Query()

	return structs.CatalogFilter{
		Category:    strings.TrimSpace(query.Get("category")),
		SubCategory: strings.TrimSpace(query.Get("subCategory")),
		Search:      strings.TrimSpace(query.Get("search")),
	}
}

// ParseMaxImages reads an optional image cap; missing or invalid values mean fallback
func ParseMaxImages(raw string, fallback int) int {
	if raw = strings.TrimSpace(raw); raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
