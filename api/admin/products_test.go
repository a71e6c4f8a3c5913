package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eterna_server/config"

	"github.com/stretchr/testify/require"
)

func TestSubmitProductRejectsMissingSubCategoryWithoutLoading(t *testing.T) {
	// no catalog or product service: any backend call would panic
	ar := &AdminRoutesManager{logger: config.NewLogger(false)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/products",
		strings.NewReader(`{"name":"Bag","category":"Bags","sub_category":""}`))
	ar.SubmitProduct(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "카테고리와 하위 카테고리를 모두 선택해주세요.", env.Message)
}

func TestSubmitProductRejectsBlankName(t *testing.T) {
	ar := &AdminRoutesManager{logger: config.NewLogger(false)}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/products",
		strings.NewReader(`{"name":"  ","category":"Bags","sub_category":"Totes"}`))
	ar.SubmitProduct(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
