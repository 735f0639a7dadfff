package web

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/hpungsan/pelvilog/internal/config"
	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/ops"
	"github.com/hpungsan/pelvilog/internal/record"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	loc      *record.Locale
	renderer *Renderer
}

// HandleRecords handles GET /records: one day's records and totals.
func (h *Handlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")

	summary, err := ops.DaySummary(r.Context(), h.db, h.loc, ops.DaySummaryInput{Date: day})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	list, err := ops.List(r.Context(), h.db, h.loc, ops.ListInput{
		Date:  summary.Date,
		Limit: ops.MaxListLimit,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{
			"items":   list.Items,
			"summary": summary,
		})
		return
	}

	h.renderer.renderPage(w, r, "records", RecordsPageData{
		PageData: PageData{
			Title:   "Registros " + summary.Date,
			Version: h.renderer.version,
			Nav:     "records",
		},
		Day:     summary.Date,
		Items:   list.Items,
		Summary: summary,
	})
}

// HandleDelete handles DELETE /records/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/records")
		w.WriteHeader(http.StatusOK)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	http.Redirect(w, r, "/records", http.StatusFound)
}

// HandleExport handles GET /export.csv: the selected range as a download.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := selectionParam(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	text, count, err := ops.RenderCSV(r.Context(), h.db, h.loc, sel)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ops.DefaultExportName))
	w.Header().Set("X-Record-Count", fmt.Sprint(count))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// HandleShare handles GET /share: a preview of the messaging-app text.
func (h *Handlers) HandleShare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := ops.ShareInput{
		Format: q.Get("format"),
		Range:  q.Get("range"),
		Day:    q.Get("day"),
	}

	result, err := ops.Share(r.Context(), h.db, h.loc, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	h.renderer.renderPage(w, r, "share", SharePageData{
		PageData: PageData{
			Title:   "Compartir",
			Version: h.renderer.version,
			Nav:     "share",
		},
		Share:        result,
		Range:        input.Range,
		RenderedHTML: renderShareHTML(result.Text),
	})
}

// selectionParam reads range and day query parameters.
func selectionParam(r *http.Request) (ops.Selection, error) {
	rng, err := ops.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		return ops.Selection{}, err
	}
	return ops.Selection{Range: rng, Day: r.URL.Query().Get("day")}, nil
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
