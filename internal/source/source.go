// Package source loads the event catalog from its configured origin: a
// JSON event document or an RSS/Atom feed, fetched over HTTP or read
// from a local file. The catalog is never persisted; every (re)load
// replaces it wholesale with whatever the source currently holds.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/cmarchi/cartaz/internal/catalog"
	"github.com/cmarchi/cartaz/internal/eventdoc"
	"github.com/cmarchi/cartaz/internal/logging"
	"github.com/cmarchi/cartaz/internal/model"
)

// Format selects how the source bytes are decoded.
type Format string

// Supported source formats.
const (
	FormatJSON Format = "json"
	FormatFeed Format = "feed"
)

// ParseFormat maps a config string to a Format, defaulting to JSON.
func ParseFormat(s string) Format {
	if Format(strings.ToLower(strings.TrimSpace(s))) == FormatFeed {
		return FormatFeed
	}
	return FormatJSON
}

// Loader fetches and decodes the source document into the store.
type Loader struct {
	store  *catalog.Store
	source string
	format Format
	client *http.Client
	parser *gofeed.Parser
}

// New creates a loader for the given source location.
func New(store *catalog.Store, source string, format Format) *Loader {
	return &Loader{
		store:  store,
		source: source,
		format: format,
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
	}
}

// Load fetches the source and replaces the whole catalog with its
// contents. On any failure the store is left exactly as it was.
// Returns the number of loaded records.
func (l *Loader) Load(ctx context.Context) (int, error) {
	body, err := l.fetch(ctx)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	var events []model.Event
	switch l.format {
	case FormatFeed:
		events, err = l.parseFeed(body)
	default:
		events, err = eventdoc.Parse(body)
	}
	if err != nil {
		return 0, err
	}

	l.store.ReplaceAll(events)
	return len(events), nil
}

// fetch opens the source: HTTP(S) URLs are requested with the context
// deadline, anything else is treated as a local file path.
func (l *Loader) fetch(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request for %s: %w", l.source, err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", l.source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: unexpected status %s", l.source, resp.Status)
		}
		return resp.Body, nil
	}

	f, err := os.Open(l.source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.source, err)
	}
	return f, nil
}

// parseFeed maps feed items onto event records: title, published date,
// link, categories as tags. Items without a published date stay undated
// and therefore match every date filter.
func (l *Loader) parseFeed(r io.Reader) ([]model.Event, error) {
	feed, err := l.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", l.source, err)
	}
	events := make([]model.Event, 0, len(feed.Items))
	for _, item := range feed.Items {
		events = append(events, eventFromItem(item))
	}
	return events, nil
}

func eventFromItem(item *gofeed.Item) model.Event {
	ev := model.Event{
		Title:       item.Title,
		Description: item.Description,
		PostURL:     item.Link,
		Tags:        strings.Join(item.Categories, ", "),
	}
	if item.PublishedParsed != nil {
		ev.Date = item.PublishedParsed.Format("2006-01-02")
	}
	return ev
}

// Poller re-runs the loader on a fixed interval so a long-running
// instance tracks its source, mirroring the reload-resets-to-source
// behavior of the single-session UI.
type Poller struct {
	loader   *Loader
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// NewPoller creates a background poller. Interval must be positive.
func NewPoller(loader *Loader, interval time.Duration) *Poller {
	return &Poller{
		loader:   loader,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the polling loop.
func (p *Poller) Start() {
	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.stopChan:
				return
			case <-time.After(p.interval):
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := p.loader.Load(ctx)
			cancel()
			if err != nil {
				logging.Warn().Err(err).Msg("source refresh failed, keeping current catalog")
				continue
			}
			logging.Info().Int("events", n).Msg("catalog refreshed from source")
		}
	}()
}

// Stop stops the poller and waits for the loop to exit.
func (p *Poller) Stop() {
	close(p.stopChan)
	<-p.done
}
