// Package render turns a snapshot into HTML for the browser and text for
// the terminal. Rendering reads a snapshot value and never touches the store.
package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"html/template"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"

	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/snapshot"
)

// DefaultCacheSize is how many rendered pages are memoised.
const DefaultCacheSize = 64

// Options configures a Renderer.
type Options struct {
	Title string

	// Widget is custom HTML/JS shown in a sandboxed frame below the table.
	Widget string

	// PollFallback is how often the page polls when the push channel is down.
	PollFallback time.Duration

	CacheSize uint32
}

// Page is a rendered document with its entity tag.
type Page struct {
	Body []byte
	ETag string
}

type kind uint8

const (
	kindPage kind = iota
	kindFragment
)

type cacheKey struct {
	generation uint64
	attempt    int64
	kind       kind
}

func hashKey(k cacheKey) uint32 {
	var b [17]byte
	binary.LittleEndian.PutUint64(b[0:8], k.generation)
	binary.LittleEndian.PutUint64(b[8:16], uint64(k.attempt))
	b[16] = byte(k.kind)
	return uint32(xxhash.Sum64(b[:]))
}

// Renderer holds the compiled templates. It is safe for concurrent use.
type Renderer struct {
	title      string
	widget     string
	pollMillis int64
	tmpl       *template.Template
	cache      *freelru.SyncedLRU[cacheKey, Page]
}

// New compiles the templates.
func New(opts Options) (*Renderer, error) {
	tmpl, err := template.New("page").Parse(fragmentTemplate)
	if err == nil {
		_, err = tmpl.Parse(pageTemplate)
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRender,
			"Failed to compile page templates",
			"This is a bug in pollboard; please report it.")
	}

	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	cache, err := freelru.NewSynced[cacheKey, Page](size, hashKey)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRender,
			"Failed to create render cache",
			"Use a positive cache size.")
	}

	title := opts.Title
	if title == "" {
		title = "pollboard"
	}
	poll := opts.PollFallback
	if poll <= 0 {
		poll = 10 * time.Second
	}

	return &Renderer{
		title:      title,
		widget:     opts.Widget,
		pollMillis: poll.Milliseconds(),
		tmpl:       tmpl,
		cache:      cache,
	}, nil
}

// Title returns the dashboard title.
func (r *Renderer) Title() string {
	return r.title
}

type view struct {
	Title           string
	Generation      uint64
	FetchedAtMillis int64
	Status          string
	StatusClass     string
	Summary         string
	Empty           string
	Columns         []string
	Rows            [][]string
	Widget          string
	PollMillis      int64
}

func (r *Renderer) view(s snapshot.Snapshot) view {
	v := view{
		Title:       r.title,
		Generation:  s.Generation,
		Status:      Status(s),
		StatusClass: StatusClass(s),
		Summary:     Summary(s),
		Empty:       emptyText(s),
		Columns:     s.Columns,
		Rows:        Cells(s),
		Widget:      r.widget,
		PollMillis:  r.pollMillis,
	}
	if !s.Empty() {
		v.FetchedAtMillis = s.FetchedAt.UnixMilli()
	}
	return v
}

// RenderPage renders the full dashboard document.
func (r *Renderer) RenderPage(s snapshot.Snapshot) (Page, error) {
	return r.render(s, kindPage, "page")
}

// RenderFragment renders the status banner and table only.
func (r *Renderer) RenderFragment(s snapshot.Snapshot) (Page, error) {
	return r.render(s, kindFragment, "fragment")
}

func (r *Renderer) render(s snapshot.Snapshot, k kind, name string) (Page, error) {
	key := cacheKey{generation: s.Generation, attempt: s.LastAttempt.UnixNano(), kind: k}
	if page, ok := r.cache.Get(key); ok {
		return page, nil
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, r.view(s)); err != nil {
		return Page{}, errors.WrapWithCode(err, errors.ErrRender,
			"Failed to render "+name,
			"This is a bug in pollboard; please report it.")
	}

	body := buf.Bytes()
	page := Page{Body: body, ETag: ETag(body)}
	r.cache.Add(key, page)
	return page, nil
}

// ETag returns a strong entity tag for body.
func ETag(body []byte) string {
	return fmt.Sprintf("\"%016x\"", xxhash.Sum64(body))
}
