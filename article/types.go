package article

import "fmt"

// Category 是固定的分类枚举。All 只用于筛选，不会挂在真实文章上。
type Category string

const (
	All      Category = "総合"
	Mental   Category = "メンタルヘルス"
	Behavior Category = "行動心理学"
	Love     Category = "恋愛心理学"
	Work     Category = "仕事・人間関係"
	Brain    Category = "脳科学"
	Social   Category = "社会心理学"
)

// Categories lists every category in navigation order, All first.
func Categories() []Category {
	return []Category{All, Mental, Behavior, Love, Work, Brain, Social}
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates raw against the enumeration. Empty input means All.
func ParseCategory(raw string) (Category, error) {
	if raw == "" {
		return All, nil
	}
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

// GroundingSource 是模型搜索增强返回的引用（标题 + URL）。
type GroundingSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Article 创建后不再修改。
type Article struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Summary   string            `json:"summary"`
	Content   string            `json:"content"`
	Category  Category          `json:"category"`
	Tags      []string          `json:"tags"`
	ImageURL  string            `json:"image_url"`
	CreatedAt string            `json:"created_at"`
	Sources   []GroundingSource `json:"sources"`
	ViewCount int               `json:"view_count"`
}

// GenerationRequest is what a user or the scheduler asks the generator for.
type GenerationRequest struct {
	Topic    string   `json:"topic"`
	Category Category `json:"category"`
}
