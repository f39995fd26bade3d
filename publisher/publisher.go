package publisher

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"psychology_station/article"
)

//go:embed export.html.tmpl
var exportTemplate string

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Publisher 把文章导出成独立 HTML 文件（完整 Markdown 渲染，仅用于导出）。
type Publisher struct {
	md     goldmark.Markdown
	tmpl   *template.Template
	logger *slog.Logger
}

type exportView struct {
	Article article.Article
	Body    template.HTML
}

func New(logger *slog.Logger) (*Publisher, error) {
	tmpl, err := template.New("export").Parse(exportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse export template: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		tmpl:   tmpl,
		logger: logger,
	}, nil
}

// MarkdownToHTML converts an article body. Raw HTML in the body is dropped.
func (p *Publisher) MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render writes a complete HTML document for a to w.
func (p *Publisher) Render(w io.Writer, a article.Article) error {
	body, err := p.MarkdownToHTML(a.Content)
	if err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	// goldmark escapes raw HTML unless WithUnsafe is set
	return p.tmpl.Execute(w, exportView{Article: a, Body: template.HTML(body)})
}

// WriteFile 导出到 dir，返回文件路径。
func (p *Publisher) WriteFile(dir string, a article.Article) (string, error) {
	if a.ID == "" {
		return "", errors.New("article id is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(a))
	var buf bytes.Buffer
	if err := p.Render(&buf, a); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	p.logger.Info("exported article", slog.String("id", a.ID), slog.String("path", path))
	return path, nil
}

// Filename is the export file name for a, safe for any file system.
func Filename(a article.Article) string {
	name := strings.Trim(unsafeFileChars.ReplaceAllString(a.ID, "-"), "-")
	if name == "" {
		name = "article"
	}
	return "psych-" + name + ".html"
}
