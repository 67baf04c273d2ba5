package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/choco-corner/internal/catalog"
)

type catalogResponse struct {
	Data []catalog.EntryView `json:"data"`
}

func TestCatalogList(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{Catalog: catalog.Default()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body catalogResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 6)

	first := body.Data[0]
	require.Equal(t, 1, first.Index)
	require.Equal(t, "dark", first.ID)
	require.Equal(t, "plain", first.Kind)
	require.Equal(t, "2.50", first.ListedPrice)

	last := body.Data[5]
	require.Equal(t, "dark-winter", last.ID)
	require.Equal(t, "Dark Chocolate (Winter Edition)", last.DisplayName)
	require.Equal(t, "limited_edition", last.Kind)
	require.Equal(t, "4.00", last.ListedPrice)
}

func TestCatalogListNotConfigured(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{})

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
