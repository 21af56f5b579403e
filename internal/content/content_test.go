package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"marketwatch/internal/content"
)

func TestLoad_Embedded(t *testing.T) {
	t.Parallel()

	catalog := content.Load("", nil)

	topics := catalog.Topics()
	require.NotEmpty(t, topics)
	for _, topic := range topics {
		require.NotEmpty(t, topic.ID)
		require.NotEmpty(t, topic.Sections)
	}
	got, ok := catalog.Find("forex-basics")
	require.True(t, ok)
	require.Equal(t, "Currency Exchange", got.Title)
	require.Empty(t, got.VideoURL)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "topics.json")
	body := `[{"id":"a","title":"A","subtitle":"","imageUrl":"","sections":[{"title":"s","content":"c"}],"videoUrl":"https://v"},
		{"id":"a","title":"Duplicate"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	catalog := content.Load(path, nil)

	require.Len(t, catalog.Topics(), 2)
	got, ok := catalog.Find("a")
	require.True(t, ok)
	require.Equal(t, "A", got.Title)
	require.Equal(t, "https://v", got.VideoURL)
	_, ok = catalog.Find("missing")
	require.False(t, ok)
}

func TestLoad_Degrades(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	malformed := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"id":`), 0o600))

	require.Empty(t, content.Load(filepath.Join(dir, "absent.json"), nil).Topics())
	require.Empty(t, content.Load(malformed, nil).Topics())
}

func TestCatalog_Search(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "topics.json")
	body := `[
		{"id":"a","title":"Stocks","subtitle":"Owning a company","sections":[{"title":"Dividends","content":"Paid quarterly"}]},
		{"id":"b","title":"Forex","subtitle":"Currency pairs","sections":[{"title":"Rates","content":"Quoted against the base"}]},
		{"id":"c","title":"Grain","subtitle":"","sections":[{"title":"Wheat","content":"Priced per BUSHEL"}]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	catalog := content.Load(path, nil)

	ids := func(topics []content.Topic) []string {
		out := []string{}
		for _, topic := range topics {
			out = append(out, topic.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty returns all", "", []string{"a", "b", "c"}},
		{"title", "stocks", []string{"a"}},
		{"subtitle", "currency", []string{"b"}},
		{"section title", "WHEAT", []string{"c"}},
		{"section content", "bushel", []string{"c"}},
		{"ignores case", "Against the BASE", []string{"b"}},
		{"shared substring", "e", []string{"a", "b", "c"}},
		{"no match", "bitcoin", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ids(catalog.Search(tt.query)))
		})
	}
}
