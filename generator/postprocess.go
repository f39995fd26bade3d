package generator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"psychology_station/article"
)

const (
	summaryRunes  = 90
	emptyText     = "記事の生成に失敗しました。"
	createdLayout = "01/02 15:04"
)

var (
	leadingHashes = regexp.MustCompile(`^#+\s*`)
	markdownMarks = regexp.MustCompile(`[#*]`)
)

// Stamp 是 PostProcess 需要的非确定性字段，由调用方注入。
type Stamp struct {
	ID        string
	CreatedAt time.Time
	ViewCount int
}

// PostProcess 把模型原文整理成 Article。
func PostProcess(raw Completion, req article.GenerationRequest, stamp Stamp) article.Article {
	text := raw.Text
	if text == "" {
		text = emptyText
	}

	title, body := splitTitle(text)
	if title == "" {
		title = fmt.Sprintf("【心理学】%sの真実", req.Topic)
	}

	sources := raw.Sources
	if sources == nil {
		sources = []article.GroundingSource{}
	}

	return article.Article{
		ID:        stamp.ID,
		Title:     title,
		Summary:   summarize(body),
		Content:   body,
		Category:  req.Category,
		Tags:      []string{string(req.Category), req.Topic, "心理学", "メンタルヘルス"},
		ImageURL:  imageURL(req.Topic),
		CreatedAt: stamp.CreatedAt.Format(createdLayout),
		Sources:   sources,
		ViewCount: stamp.ViewCount,
	}
}

// splitTitle 取首个非空行作标题（去掉 # 和 **），其余行作正文。
func splitTitle(text string) (string, string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		title := leadingHashes.ReplaceAllString(line, "")
		title = strings.ReplaceAll(title, "**", "")
		body := strings.Join(lines[i+1:], "\n")
		return strings.TrimSpace(title), strings.TrimSpace(body)
	}
	return "", ""
}

func summarize(body string) string {
	excerpt := body
	if utf8.RuneCountInString(excerpt) > summaryRunes {
		excerpt = string([]rune(excerpt)[:summaryRunes])
	}
	return markdownMarks.ReplaceAllString(excerpt, "") + "..."
}

// imageURL 按主题长度给出确定的占位图。
func imageURL(topic string) string {
	id := (utf8.RuneCountInString(topic) * 17) % 800
	return fmt.Sprintf("https://picsum.photos/id/%d/800/450", id)
}
