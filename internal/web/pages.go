package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

//go:embed templates static
var files embed.FS

// funcs are available to every template. pathEscape must wrap any value
// placed in a URL path segment.
var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

// Page is what every template receives.
type Page struct {
	Title     string
	Nav       NavBar
	Flashes   []string
	CSRFToken string
	Data      any
}

// NavBar carries the signed-in state shown in the navigation.
type NavBar struct {
	IsLoggedIn bool
	Username   string
}

// Pages parses embedded templates once per page and renders them inside
// the base layout.
type Pages struct {
	cache *tmplCache[string, *template.Template]
	fsys  fs.FS
}

// NewPages loads templates from the embedded file system.
func NewPages() *Pages {
	return &Pages{
		cache: newTmplCache[string, *template.Template](),
		fsys:  files,
	}
}

func (p *Pages) fragmentPaths() ([]string, error) {
	var paths []string
	err := fs.WalkDir(p.fsys, "templates/fragments", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".gohtml") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func nameToPath(name string) string {
	return "templates/" + name + ".gohtml"
}

func (p *Pages) parse(stack ...string) (*template.Template, error) {
	key := strings.Join(stack, "|")
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	paths, err := p.fragmentPaths()
	if err != nil {
		return nil, err
	}
	for _, s := range stack {
		paths = append(paths, nameToPath(s))
	}

	parsed, err := template.New(stack[len(stack)-1]).Funcs(funcs).ParseFS(p.fsys, paths...)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, parsed)
	return parsed, nil
}

// Execute renders the page called name within the base layout.
func (p *Pages) Execute(name string, w io.Writer, params any) error {
	tpl, err := p.parse("layouts/base", name)
	if err != nil {
		return err
	}
	return tpl.ExecuteTemplate(w, "layouts/base", params)
}

// Static serves the embedded stylesheet and friends under /static/.
func (p *Pages) Static() http.Handler {
	sub, err := fs.Sub(p.fsys, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", cacheControl(http.FileServer(http.FS(sub))))
}

func cacheControl(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// one day for css
		w.Header().Set("Cache-Control", "public, max-age=86400")
		h.ServeHTTP(w, r)
	})
}

type tmplCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]V
}

func newTmplCache[K comparable, V any]() *tmplCache[K, V] {
	return &tmplCache[K, V]{data: make(map[K]V)}
}

func (c *tmplCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *tmplCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}
