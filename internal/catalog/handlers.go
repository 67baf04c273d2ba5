package catalog

import (
	"net/http"

	"github.com/noah-isme/choco-corner/internal/common"
)

// Handler exposes the public catalog endpoint.
type Handler struct {
	catalog *Catalog
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog *Catalog
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{catalog: cfg.Catalog}
}

// EntryView is the list representation returned to the presentation layer.
type EntryView struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Info        string `json:"info"`
	Tagline     string `json:"tagline,omitempty"`
	Kind        string `json:"kind"`
	ListedPrice string `json:"listedPrice"`
	Calories    int    `json:"calories"`
}

// List handles GET /api/v1/catalog.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	entries := h.catalog.Entries()
	views := make([]EntryView, 0, len(entries))
	for i, e := range entries {
		views = append(views, EntryView{
			Index:       i + 1,
			ID:          e.ID,
			DisplayName: e.DisplayName(),
			Info:        e.Info(),
			Tagline:     e.Tagline,
			Kind:        e.Kind.String(),
			ListedPrice: e.ListedPrice().StringFixed(2),
			Calories:    e.Calories,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}
