package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"psychology_station/archive"
	"psychology_station/article"
	"psychology_station/generator"
	"psychology_station/portal"
	"psychology_station/publisher"
	"psychology_station/render"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	defaultArchiveSize = 20
	maxArchiveSize     = 100
	searchTimeout      = 5 * time.Second
)

type Options struct {
	Logger    *slog.Logger
	Publisher *publisher.Publisher
	// Searcher backs /api/archive; nil disables it.
	Searcher archive.Searcher
}

type Server struct {
	portal *portal.Portal
	pub    *publisher.Publisher
	search archive.Searcher
	log    *slog.Logger
	tmpl   *template.Template

	// background generations started from the HTML form
	wg sync.WaitGroup
}

type pageData struct {
	View portal.View
}

type cardData struct {
	Article article.Article
	Active  article.Category
}

type errorResponse struct {
	Error string `json:"error"`
}

type generateReq struct {
	Topic    string `json:"topic"`
	Category string `json:"category"`
}

type articleResp struct {
	Article article.Article `json:"article"`
	Blocks  []render.Block  `json:"blocks"`
}

func New(p *portal.Portal, opts Options) (*Server, error) {
	if p == nil {
		return nil, errors.New("portal required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pub := opts.Publisher
	if pub == nil {
		var err error
		if pub, err = publisher.New(log); err != nil {
			return nil, err
		}
	}
	tmpl, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"blocks": render.Render,
		"card": func(a article.Article, active article.Category) cardData {
			return cardData{Article: a, Active: active}
		},
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Server{
		portal: p,
		pub:    pub,
		search: opts.Searcher,
		log:    log,
		tmpl:   tmpl,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerateForm)
	r.Post("/articles/close", s.handleClose)
	r.Get("/articles/{id}", s.handleSelect)
	r.Get("/articles/{id}/export", s.handleExport)

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleListArticles)
		r.Post("/articles", s.handleCreateArticle)
		r.Get("/articles/{id}", s.handleGetArticle)
		r.Get("/status", s.handleStatus)
		r.Get("/archive", s.handleArchive)
	})
	return r
}

// Wait blocks until generations started from the form have finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// --- HTML ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	category := categoryOrAll(r.URL.Query().Get("category"))
	view, ok := s.portal.ViewArticle(r.Context(), category, chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "article not found", http.StatusNotFound)
		return
	}
	s.writeIndex(w, view, http.StatusOK)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.portal.ClearSelection()
	http.Redirect(w, r, indexURL(r.FormValue("category")), http.StatusSeeOther)
}

func (s *Server) handleGenerateForm(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.FormValue("topic"))
	if topic == "" {
		http.Error(w, "topic is required", http.StatusBadRequest)
		return
	}
	category := categoryOrAll(r.FormValue("category"))

	s.wg.Add(1)
	go func(ctx context.Context) {
		defer s.wg.Done()
		// failures are already recorded as the portal alert
		_, _ = s.portal.Generate(ctx, topic, category, portal.OriginUser)
	}(context.WithoutCancel(r.Context()))

	http.Redirect(w, r, indexURL(string(category)), http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	a, ok := s.portal.Article(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "article not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+publisher.Filename(a)+`"`)
	if err := s.pub.Render(w, a); err != nil {
		s.log.Error("export article", slog.String("id", a.ID), slog.Any("err", err))
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int) {
	s.writeIndex(w, s.portal.View(r.Context(), categoryOrAll(r.URL.Query().Get("category"))), status)
}

func (s *Server) writeIndex(w http.ResponseWriter, view portal.View, status int) {
	if view.Alert != "" {
		// shown once, like a browser alert
		s.portal.DismissAlert()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "index.html.tmpl", pageData{View: view}); err != nil {
		s.log.Error("render index", slog.Any("err", err))
	}
}

// --- JSON ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	category, err := article.ParseCategory(strings.TrimSpace(r.URL.Query().Get("category")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.portal.Articles(category))
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a, ok := s.portal.Article(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, articleResp{Article: a, Blocks: render.Render(a.Content)})
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: generator.ErrEmptyTopic.Error()})
		return
	}
	category, err := article.ParseCategory(strings.TrimSpace(req.Category))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	a, err := s.portal.Generate(r.Context(), topic, category, portal.OriginUser)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: generator.ErrGenerationFailed.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, articleResp{Article: *a, Blocks: render.Render(a.Content)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.portal.Status())
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "archive search is not configured"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	size := clampInt(r.URL.Query().Get("size"), defaultArchiveSize, maxArchiveSize)
	found, err := s.search.Search(ctx, r.URL.Query().Get("q"), size)
	if err != nil {
		s.log.Error("archive search", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "archive search failed"})
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// --- Helpers ---

func categoryOrAll(raw string) article.Category {
	c, err := article.ParseCategory(strings.TrimSpace(raw))
	if err != nil {
		return article.All
	}
	return c
}

func indexURL(category string) string {
	if category == "" || category == string(article.All) {
		return "/"
	}
	return "/?category=" + url.QueryEscape(category)
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
