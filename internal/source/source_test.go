package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmarchi/cartaz/internal/catalog"
	"github.com/cmarchi/cartaz/internal/model"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat(""))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatFeed, ParseFormat("feed"))
	assert.Equal(t, FormatFeed, ParseFormat(" FEED "))
	assert.Equal(t, FormatJSON, ParseFormat("whatever"))
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":[{"titulo":"Feira","data":"2024-03-15"}]}`))
	}))
	defer srv.Close()

	store := catalog.New()
	n, err := New(store, srv.URL, FormatJSON).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, 1, store.Len())
	ev, err := store.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Feira", ev.Title)
	assert.Equal(t, "2024-03-15", ev.Date)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"Oficina"}]`), 0o600))

	store := catalog.New()
	n, err := New(store, path, FormatJSON).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadFailureKeepsStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := catalog.New()
	store.ReplaceAll([]model.Event{{Title: "existing"}})

	_, err := New(store, srv.URL, FormatJSON).Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, store.Len(), "failed load must not touch the catalog")
}

func TestLoadBadDocumentKeepsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[]}`), 0o600))

	store := catalog.New()
	store.ReplaceAll([]model.Event{{Title: "existing"}})

	_, err := New(store, path, FormatJSON).Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestLoadFeed(t *testing.T) {
	const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Agenda</title>
  <item>
    <title>Festival de Cultura</title>
    <link>https://example.test/festival</link>
    <description>Na praça</description>
    <category>cultura</category>
    <category>11</category>
    <pubDate>Fri, 15 Mar 2024 12:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Sem data</title>
  </item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))
	}))
	defer srv.Close()

	store := catalog.New()
	n, err := New(store, srv.URL, FormatFeed).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ev, err := store.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "Festival de Cultura", ev.Title)
	assert.Equal(t, "2024-03-15", ev.Date)
	assert.Equal(t, "https://example.test/festival", ev.PostURL)
	assert.Equal(t, "cultura, 11", ev.Tags)

	ev, err = store.Get(1)
	require.NoError(t, err)
	assert.Empty(t, ev.Date, "items without pubDate stay undated")
}
