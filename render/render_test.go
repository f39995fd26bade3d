package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRenderClassifiesEachLine(t *testing.T) {
	input := strings.Join([]string{
		"# タイトル",
		"## 見出し",
		"### 小見出し",
		"- 項目",
		"  - 字下げ項目",
		"> 引用",
		"",
		"   ",
		"本文です。",
	}, "\n")

	want := []Block{
		{Kind: KindTitle, Text: "タイトル"},
		{Kind: KindHeading, Text: "見出し"},
		{Kind: KindSubHeading, Text: "小見出し"},
		{Kind: KindListItem, Text: "項目"},
		{Kind: KindListItem, Text: "  字下げ項目"},
		{Kind: KindQuote, Text: " 引用"},
		{Kind: KindSpacer},
		{Kind: KindSpacer},
		{Kind: KindParagraph, Text: "本文です。"},
	}

	if diff := cmp.Diff(want, Render(input)); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderBlockCountEqualsLineCount(t *testing.T) {
	inputs := []string{
		"",
		"one line",
		"a\nb\nc",
		"\n\n\n",
		"# x\n\n- y\n> z\n",
		"trailing\r\nwindows\r\n",
	}
	for _, in := range inputs {
		got := Render(in)
		require.Len(t, got, len(strings.Split(in, "\n")), "input %q", in)
	}
}

func TestRenderHeaderPriority(t *testing.T) {
	tests := []struct {
		line string
		want Kind
	}{
		{"# a", KindTitle},
		{"## a", KindHeading},
		{"### a", KindSubHeading},
		{"#### a", KindParagraph},
		{"#a", KindParagraph},
		{"##a", KindParagraph},
		{" # a", KindParagraph},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Render(tt.line)
			require.Len(t, got, 1)
			require.Equal(t, tt.want, got[0].Kind)
		})
	}
}

func TestRenderBlankLinesAreSpacers(t *testing.T) {
	for _, line := range []string{"", " ", "\t", "  \t  ", "\r"} {
		got := Render(line)
		require.Equal(t, []Block{{Kind: KindSpacer}}, got, "line %q", line)
	}
}

func TestRenderIsCaseAndPrefixSensitive(t *testing.T) {
	got := Render("-item\n>quote\n a > b\n1. one")
	require.Equal(t, []Block{
		{Kind: KindParagraph, Text: "-item"},
		{Kind: KindQuote, Text: "quote"},
		{Kind: KindParagraph, Text: " a > b"},
		{Kind: KindParagraph, Text: "1. one"},
	}, got)
}

func TestRenderQuotesAreNeverMerged(t *testing.T) {
	got := Render("> first\n> second\n>third")
	require.Len(t, got, 3)
	for _, b := range got {
		require.Equal(t, KindQuote, b.Kind)
	}
	require.Equal(t, "third", got[2].Text)
}

func TestRenderKeepsInlineMarkup(t *testing.T) {
	got := Render("- **上方比較**: 比べる")
	require.Equal(t, "**上方比較**: 比べる", got[0].Text)
}

func TestTerminalIncludesText(t *testing.T) {
	out := Terminal(Render("# 題\n- 項目\n> 声\n本文"))
	for _, want := range []string{"題", "項目", "声", "本文", "•"} {
		require.Contains(t, out, want)
	}
}
