// Package pages renders the application's HTML views. Templates are embedded
// and executed through templ components so handlers can treat full pages,
// fragments and out-of-band swaps the same way.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/timedeposit/timedeposit/internal/config"
	"github.com/timedeposit/timedeposit/internal/ctxkeys"
	"github.com/timedeposit/timedeposit/internal/markdown"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/money"
)

//go:embed templates
var templatesFS embed.FS

var (
	md    = markdown.NewParser()
	base  *template.Template
	views = map[string]*template.Template{}
)

var defaultConfig = &config.Config{AppName: "Time Deposit"}

var funcs = template.FuncMap{
	"yen":      money.Format,
	"number":   money.Number,
	"percent":  money.Percent,
	"cn":       twmerge.Merge,
	"markdown": md.HTML,
	"date": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"month": func(t time.Time) string {
		return t.Format("January 2006")
	},
	"width": func(p float64) string {
		return fmt.Sprintf("%.1f", p)
	},
	"active": func(current, prefix string) bool {
		return current == prefix || strings.HasPrefix(current, prefix+"/")
	},
	"when": func(cond bool, class string) string {
		if cond {
			return class
		}
		return ""
	},
	"add": func(a, b int) int {
		return a + b
	},
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}

func init() {
	base = template.Must(template.New("base").Funcs(funcs).ParseFS(templatesFS,
		"templates/layout.html",
		"templates/partials/*.html",
	))

	files, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	for _, file := range files {
		t := template.Must(template.Must(base.Clone()).ParseFS(templatesFS, file))
		views[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
}

// view is the dot of every full page.
type view struct {
	Title   string
	User    *model.User
	Profile *model.Profile
	Config  *config.Config
	CSRF    string
	Nonce   string
	Path    string
	Data    any
}

func newView(ctx context.Context, title string, data any) view {
	cfg := ctxkeys.Config(ctx)
	if cfg == nil {
		cfg = defaultConfig
	}

	return view{
		Title:   title,
		User:    ctxkeys.User(ctx),
		Profile: ctxkeys.Profile(ctx),
		Config:  cfg,
		CSRF:    ctxkeys.CSRFToken(ctx),
		Nonce:   templ.GetNonce(ctx),
		Path:    ctxkeys.URLPath(ctx),
		Data:    data,
	}
}

// page renders templates/pages/<name>.html inside the layout.
func page(name, title string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := views[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", newView(ctx, title, data))
	})
}

// fragment renders a single partial with data as its dot.
func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return base.ExecuteTemplate(w, name, data)
	})
}
