package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/dustin/go-humanize"
	"github.com/laher/mergefs"
	"github.com/pkg/errors"

	"fithub/internal/adapters/content"
	"fithub/internal/domain/scroll"
)

//go:embed templates/**
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

var commonFuncs = template.FuncMap{
	"humanizeInt": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"humanizeTime": humanize.Time,
	"markdown": func(src string) template.HTML {
		html, err := content.Markdown(src)
		if err != nil {
			slog.Warn("markdown_failed", "error", err)
			return template.HTML(template.HTMLEscapeString(src))
		}
		return html
	},
	"scrollThreshold": func() float64 { return scroll.Threshold },
	"stars": func(n int) []int {
		return make([]int, n)
	},
}

// Templates parses the embedded views and layouts. Files in overrides
// replace embedded files with the same path.
func Templates(funcs template.FuncMap, overrides ...fs.FS) (*template.Template, error) {
	root, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	merged := mergefs.Merge(append(overrides, root)...)

	views, err := fs.Glob(merged, "views/*.gohtml")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	layouts, err := fs.Glob(merged, "layouts/*.gohtml")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	tmpl := template.New("").Funcs(sprig.HtmlFuncMap()).Funcs(commonFuncs)
	if funcs != nil {
		tmpl = tmpl.Funcs(funcs)
	}

	tmpl, err = tmpl.ParseFS(merged, append(views, layouts...)...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return tmpl, nil
}

// TemplatesFromDir is Templates with an optional on-disk override directory.
func TemplatesFromDir(dir string) (*template.Template, error) {
	if dir == "" {
		return Templates(nil)
	}
	return Templates(nil, os.DirFS(dir))
}

// render executes the named template. Output is buffered so a failing
// template never produces a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if err := s.templates.ExecuteTemplate(buf, name, data); err != nil {
		s.internalError(w, r, errors.Wrapf(err, "could not execute template '%s'", name))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.DebugContext(r.Context(), "write_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message to the client.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal_error", "error", err, "path", r.URL.Path)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) now() time.Time {
	if s.deps.Now != nil {
		return s.deps.Now()
	}
	return time.Now()
}
