package generator

import (
	"fmt"
	"strings"

	"psychology_station/article"
)

// 固定采样温度，与编辑方针一起写死。
const defaultTemperature = 0.7

// Prompt 表示发送给 LLM 的一次请求。
type Prompt struct {
	System      string
	User        string
	Temperature float64
	// Search 要求供应商开启联网检索增强（仅 Gemini 支持返回引用）。
	Search bool

	Topic    string
	Category article.Category
}

const systemInstruction = `
あなたは「心理学放送局」というWebメディアのAI編集長です。
心理学、メンタルヘルス、人間関係、脳科学などのトピックについて、一般の読者が興味を持てるような、分かりやすく、かつ学術的な根拠（または一般的な説）に基づいた記事を作成してください。
**目標文字数は1500文字以上です。読み応えのある長文記事にしてください。**

以下のガイドラインに従ってください：
1. **タイトル**: 「心理学放送局」らしい、知的好奇心をくすぐるタイトル（例：「なぜ人は〜してしまうのか？」「【心理学】〜の法則とは」など）。
2. **構成**:
    - **導入**: 読者の悩みに寄り添う、または興味を惹きつける導入。
    - **心理学的な解説**: 具体的な心理効果、法則、実験結果などを挙げて解説する（例：認知的不協和、ザイアンス効果など）。専門用語は噛み砕いて説明する。
    - **実生活への応用**: その心理学をどう日常や仕事、恋愛に活かせるかのアドバイス。
    - **ネットの声・ケーススタディ**: 「あるある」と思える架空の事例や、ネット上の一般的な反応を取り入れる（会話形式など）。
    - **結論**: 前向きになれるまとめ。
3. **トーン**: 知的だが堅苦しくない。読者に気づきを与えるトーン。
4. **検索**: 最新の研究や具体的な事例をGoogle検索して情報を補強する。
`

// BuildPrompt 生成单篇文章的提示词。
func BuildPrompt(topic string, category article.Category) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("トピック: 「%s」\n", topic))
	sb.WriteString(fmt.Sprintf("カテゴリ: 「%s」\n\n", category))
	sb.WriteString("このトピックについて、心理学的な観点から深掘りし、1500文字程度の記事を作成してください。\n")
	sb.WriteString("読者が日常生活で使える具体的なテクニックや、裏付けとなる心理実験のエピソードなどを交えてください。\n")
	sb.WriteString("画像は生成不要です。\n")

	return Prompt{
		System:      systemInstruction,
		User:        sb.String(),
		Temperature: defaultTemperature,
		Search:      true,
		Topic:       topic,
		Category:    category,
	}
}
