package publisher

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"psychology_station/article"
)

func TestMarkdownToHTML(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	html, err := p.MarkdownToHTML("## 見出し\n\n- 項目\n\n> 引用\n\n**強調**<script>alert(1)</script>")
	require.NoError(t, err)
	require.Contains(t, html, "<h2>見出し</h2>")
	require.Contains(t, html, "<li>項目</li>")
	require.Contains(t, html, "<blockquote>")
	require.Contains(t, html, "<strong>強調</strong>")
	require.NotContains(t, html, "<script>")
}

func TestRenderIncludesMetadata(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	a := article.Seed()[0]
	a.Sources = []article.GroundingSource{{Title: "参考", URL: "https://example.com/ref"}}

	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, a))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, a.Title)
	require.Contains(t, out, string(a.Category))
	require.Contains(t, out, a.ImageURL)
	require.Contains(t, out, `href="https://example.com/ref"`)
}

func TestRenderOmitsSourcesFooter(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	a := article.Seed()[1]
	a.Sources = nil
	var buf bytes.Buffer
	require.NoError(t, p.Render(&buf, a))
	require.NotContains(t, buf.String(), "ソース / 関連リンク")
}

func TestWriteFile(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := p.WriteFile(dir, article.Seed()[2])
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "psych-3.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), article.Seed()[2].Title)

	_, err = p.WriteFile(dir, article.Article{})
	require.Error(t, err)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "psych-a1b2.html", Filename(article.Article{ID: "a1b2"}))
	require.Equal(t, "psych-x-y.html", Filename(article.Article{ID: "../x/y"}))
	require.Equal(t, "psych-article.html", Filename(article.Article{ID: "／"}))
}
