package wiktionary

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/gezakerecsenyi/etymologez/internal/config"
)

const (
	loaderWait         = 2 * time.Millisecond
	loaderBatch        = 50
	defaultCacheSize   = 1000
	defaultConcurrency = 8
)

// PageKey identifies one page lookup: the word as written plus the language
// hint that decides reconstruction labels.
type PageKey struct {
	Word     string
	Language string
}

type pageFetcher interface {
	FetchPage(ctx context.Context, word, languageHint string) (*Page, error)
}

// PageLoader dedupes page fetches for one unroll or request. Concurrent
// loads of the same key share a single fetch; finished pages stay in a
// bounded LRU until the loader is dropped.
type PageLoader struct {
	loader *dataloader.Loader[PageKey, *Page]
}

// NewPageLoader creates a loader over fetcher. A batch fans out at most
// concurrency fetches at once.
func NewPageLoader(fetcher pageFetcher, cacheSize, concurrency int) *PageLoader {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[PageKey, dataloader.Thunk[*Page]](cacheSize)

	return &PageLoader{
		loader: dataloader.NewBatchedLoader(
			newPagesBatchFn(fetcher, concurrency),
			dataloader.WithWait[PageKey, *Page](loaderWait),
			dataloader.WithBatchCapacity[PageKey, *Page](loaderBatch),
			dataloader.WithCache[PageKey, *Page](&lruCache{c: cache}),
		),
	}
}

// Load returns the page for key, or nil if it does not exist. Failed loads
// are evicted so a later call retries.
func (l *PageLoader) Load(ctx context.Context, key PageKey) (*Page, error) {
	page, err := l.loader.Load(ctx, key)()
	if err != nil {
		l.loader.Clear(ctx, key)
		return nil, err
	}
	return page, nil
}

func newPagesBatchFn(fetcher pageFetcher, concurrency int) dataloader.BatchFunc[PageKey, *Page] {
	return func(ctx context.Context, keys []PageKey) []*dataloader.Result[*Page] {
		results := make([]*dataloader.Result[*Page], len(keys))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, key := range keys {
			g.Go(func() error {
				page, err := fetcher.FetchPage(gctx, key.Word, key.Language)
				results[i] = &dataloader.Result[*Page]{Data: page, Error: err}
				return nil
			})
		}
		_ = g.Wait()

		return results
	}
}

// lruCache adapts a golang-lru cache to dataloader.Cache.
type lruCache struct {
	c *lru.Cache[PageKey, dataloader.Thunk[*Page]]
}

func (l *lruCache) Get(_ context.Context, key PageKey) (dataloader.Thunk[*Page], bool) {
	return l.c.Get(key)
}

func (l *lruCache) Set(_ context.Context, key PageKey, value dataloader.Thunk[*Page]) {
	l.c.Add(key, value)
}

func (l *lruCache) Delete(_ context.Context, key PageKey) bool {
	return l.c.Remove(key)
}

func (l *lruCache) Clear() {
	l.c.Purge()
}

type contextKey string

const loaderKey contextKey = "wiktionary_page_loader"

// WithLoader stores a PageLoader in the context.
func WithLoader(ctx context.Context, l *PageLoader) context.Context {
	return context.WithValue(ctx, loaderKey, l)
}

// LoaderFromContext returns the PageLoader stored in ctx, if any.
func LoaderFromContext(ctx context.Context) (*PageLoader, bool) {
	l, ok := ctx.Value(loaderKey).(*PageLoader)
	return l, ok && l != nil
}

// Source is the page access the crawler uses. Within a scoped context every
// page is fetched at most once; outside one each call goes to the API.
type Source struct {
	client      *Client
	cacheSize   int
	concurrency int
}

// NewSource creates a Source over client.
func NewSource(client *Client, cfg config.WiktionaryConfig) *Source {
	return &Source{
		client:      client,
		cacheSize:   cfg.PageCacheSize,
		concurrency: cfg.Concurrency,
	}
}

// Scope returns ctx carrying a fresh PageLoader. A context that already
// carries one is returned unchanged.
func (s *Source) Scope(ctx context.Context) context.Context {
	if _, ok := LoaderFromContext(ctx); ok {
		return ctx
	}
	return WithLoader(ctx, NewPageLoader(s.client, s.cacheSize, s.concurrency))
}

// Middleware scopes every request to its own PageLoader.
func (s *Source) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(s.Scope(r.Context())))
	})
}

// SiteURL is the wiki's base URL.
func (s *Source) SiteURL() string { return s.client.SiteURL() }

// Page returns the page for word, or nil if there is none.
func (s *Source) Page(ctx context.Context, word, language string) (*Page, error) {
	if l, ok := LoaderFromContext(ctx); ok {
		return l.Load(ctx, PageKey{Word: word, Language: language})
	}
	return s.client.FetchPage(ctx, word, language)
}

// Sections returns the table of contents of word's page.
func (s *Source) Sections(ctx context.Context, word, language string) ([]Section, error) {
	page, err := s.Page(ctx, word, language)
	if err != nil || page == nil {
		return nil, err
	}
	return page.Sections, nil
}

// SectionHTML returns a section's rendered body and the URL its links
// resolve against. A missing page or section yields a nil node.
func (s *Source) SectionHTML(ctx context.Context, word, language, index string) (*html.Node, *url.URL, error) {
	page, err := s.Page(ctx, word, language)
	if err != nil || page == nil {
		return nil, nil, err
	}
	return page.SectionHTML(index), page.BaseURL(), nil
}

// SectionWikitext returns a section's wikitext, or "" if absent.
func (s *Source) SectionWikitext(ctx context.Context, word, language, index string) (string, error) {
	page, err := s.Page(ctx, word, language)
	if err != nil || page == nil {
		return "", err
	}
	text, _ := page.SectionWikitext(index)
	return text, nil
}

// CategoryMembers lists a category; categories are not cached.
func (s *Source) CategoryMembers(ctx context.Context, title string, pageID int) ([]CategoryMember, error) {
	return s.client.CategoryMembers(ctx, title, pageID)
}
