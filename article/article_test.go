package article_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"psychology_station/article"
)

func TestFilterAllReturnsEverythingInOrder(t *testing.T) {
	seed := article.Seed()
	got := article.Filter(seed, article.All)
	require.Equal(t, seed, got)
}

func TestFilterConcreteCategory(t *testing.T) {
	list := append(article.Seed(), article.Article{ID: "4", Category: article.Love})
	for _, c := range article.Categories()[1:] {
		got := article.Filter(list, c)
		for _, a := range got {
			require.Equal(t, c, a.Category)
		}
		want := 0
		for _, a := range list {
			if a.Category == c {
				want++
			}
		}
		require.Len(t, got, want)
	}

	love := article.Filter(list, article.Love)
	require.Len(t, love, 2)
	require.Equal(t, "2", love[0].ID)
	require.Equal(t, "4", love[1].ID)
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	seed := article.Seed()
	got := article.Filter(seed, article.All)
	got[0].Title = "changed"
	require.NotEqual(t, "changed", seed[0].Title)
}

func TestParseCategory(t *testing.T) {
	c, err := article.ParseCategory("")
	require.NoError(t, err)
	require.Equal(t, article.All, c)

	c, err = article.ParseCategory("脳科学")
	require.NoError(t, err)
	require.Equal(t, article.Brain, c)

	_, err = article.ParseCategory("physics")
	require.Error(t, err)
}

func TestCategoriesHasSevenLabels(t *testing.T) {
	require.Len(t, article.Categories(), 7)
	require.Equal(t, article.All, article.Categories()[0])
}

func TestSeedInvariants(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range article.Seed() {
		require.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		require.True(t, a.Category.Valid())
		require.NotEqual(t, article.All, a.Category)
	}
}

func TestCollectionPrependNewestFirst(t *testing.T) {
	c := article.NewCollection(article.Seed())
	c.Prepend(article.Article{ID: "new", Category: article.Mental})

	list := c.List()
	require.Len(t, list, 4)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "1", list[1].ID)

	got, ok := c.Get("new")
	require.True(t, ok)
	require.Equal(t, article.Mental, got.Category)

	_, ok = c.Get("missing")
	require.False(t, ok)
	require.Equal(t, 4, c.Len())
}
