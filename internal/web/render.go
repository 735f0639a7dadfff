package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/hpungsan/pelvilog/internal/errors"
	"github.com/hpungsan/pelvilog/internal/ops"
	"github.com/hpungsan/pelvilog/internal/record"
	"github.com/hpungsan/pelvilog/internal/share"
)

// PageData is embedded by every page's template data.
type PageData struct {
	Title   string
	Version string
	Nav     string // "records" or "share"
}

// RecordsPageData is the template data for the day view.
type RecordsPageData struct {
	PageData
	Day     string
	Items   []record.Record
	Summary *ops.DaySummaryOutput
}

// SharePageData is the template data for the share preview.
type SharePageData struct {
	PageData
	Share        *ops.ShareOutput
	Range        string
	RenderedHTML template.HTML
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

var pageFiles = map[string]string{
	"records": "records.html",
	"share":   "share.html",
	"error":   "error.html",
}

// Renderer holds one parsed template set per page, each a clone of the layout.
type Renderer struct {
	pages   map[string]*template.Template
	version string
	log     *zap.Logger
}

// NewRenderer parses layout.html and every page in templateFS.
// It panics on a malformed template.
func NewRenderer(templateFS fs.FS, version string, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	funcs := template.FuncMap{
		"line":  share.Line,
		"title": func(t record.Type) string { return t.Title() },
		"emoji": func(t record.Type) string { return t.Emoji() },
	}
	layout := template.Must(template.New("layout").Funcs(funcs).ParseFS(templateFS, "layout.html"))

	r := &Renderer{
		pages:   make(map[string]*template.Template, len(pageFiles)),
		version: version,
		log:     log,
	}
	for name, file := range pageFiles {
		t := template.Must(layout.Clone())
		r.pages[name] = template.Must(t.ParseFS(templateFS, file))
	}
	return r
}

func isHTMX(req *http.Request) bool {
	return req != nil && req.Header.Get("HX-Request") == "true"
}

func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.page(w, req, http.StatusOK, name, data)
}

// page executes the named page into a buffer first so a template error
// never leaves a half-written 200. HTMX requests get only "content".
func (r *Renderer) page(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.pages[name]
	if !ok {
		r.log.Error("unknown page", zap.String("page", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if isHTMX(req) {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError answers with an HTML fragment, JSON or a full error page,
// depending on who asked.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	pErr, ok := errors.As(err)
	if !ok {
		pErr = errors.NewInternal(err)
	}
	if pErr.Code == errors.ErrInternal {
		r.log.Error("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err),
		)
	}

	switch {
	case isHTMX(req):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(pErr.Status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(pErr.Message))
	case wantsJSON(req):
		var body errorBody
		body.Error.Code = string(pErr.Code)
		body.Error.Message = pErr.Message
		body.Error.Status = pErr.Status
		renderJSON(w, pErr.Status, body)
	default:
		r.page(w, req, pErr.Status, "error", ErrorPageData{
			PageData:   PageData{Title: fmt.Sprintf("Error %d", pErr.Status), Version: r.version},
			StatusCode: pErr.Status,
			Message:    pErr.Message,
		})
	}
}

func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

var (
	shareMarkdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))
	sharePolicy   = bluemonday.UGCPolicy()
)

// renderShareHTML renders share text as markdown, one output line per input
// line, and sanitizes the result.
func renderShareHTML(text string) template.HTML {
	var out bytes.Buffer
	if err := shareMarkdown.Convert([]byte(text), &out); err != nil {
		return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(text), "\n", "<br>"))
	}
	return template.HTML(sharePolicy.SanitizeBytes(out.Bytes()))
}
