package generator

import (
	"context"
	"strings"

	"psychology_station/article"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (Completion, error) {
	// 很简单地把主题拼接成带标题/列表/引用的文章。
	var sb strings.Builder
	sb.WriteString("# 【心理学】" + prompt.Topic + "を科学する\n\n")
	sb.WriteString("「" + prompt.Topic + "」について、" + string(prompt.Category) + "の観点から解説します。\n\n")
	sb.WriteString("## 心理学的な解説\n")
	sb.WriteString("私たちの行動の多くは無意識の習慣に支えられています。\n\n")
	sb.WriteString("### 今日からできること\n")
	sb.WriteString("- 小さく始める\n")
	sb.WriteString("- 記録をつける\n\n")
	sb.WriteString("## ネットの反応\n")
	sb.WriteString("> 「わかる、自分もそうだった」\n\n")
	sb.WriteString("## まとめ\n")
	sb.WriteString("焦らず、一歩ずつ進めていきましょう。\n")
	return Completion{
		Text: sb.String(),
		Sources: []article.GroundingSource{
			{Title: "Mock Source", URL: "https://example.com/psychology"},
		},
	}, nil
}
