package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type removeEnvelope struct {
	Data struct {
		Images []string `json:"images"`
	} `json:"data"`
}

func postRemove(t *testing.T, body string) (*httptest.ResponseRecorder, []string) {
	t.Helper()
	rec := httptest.NewRecorder()
	RemoveImage(rec, httptest.NewRequest(http.MethodPost, "/admin/images/remove", strings.NewReader(body)))

	var env removeEnvelope
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env.Data.Images
}

func TestRemoveImageDropsIndex(t *testing.T) {
	rec, images := postRemove(t, `{"images":["a.jpg","b.jpg","c.jpg"],"index":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"a.jpg", "c.jpg"}, images)
}

func TestRemoveImageOutOfRangeKeepsList(t *testing.T) {
	rec, images := postRemove(t, `{"images":["a.jpg"],"index":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"a.jpg"}, images)
}

func TestRemoveImageRejectsNegativeIndex(t *testing.T) {
	rec, _ := postRemove(t, `{"images":["a.jpg"],"index":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveImageRejectsUnknownFields(t *testing.T) {
	rec, _ := postRemove(t, `{"images":["a.jpg"],"index":0,"delete":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
