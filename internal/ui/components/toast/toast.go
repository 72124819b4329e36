package toast

import (
	"context"
	"html/template"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Icon        bool
	Dismissible bool
	// Duration in milliseconds before the toast hides itself. 0 keeps the
	// default of 3000.
	Duration int
	Class    string
}

var icons = map[Variant]string{
	VariantSuccess: "✓",
	VariantError:   "!",
	VariantWarning: "!",
	VariantInfo:    "i",
	VariantDefault: "•",
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-gray-200 bg-white text-gray-900",
	VariantSuccess: "border-green-200 bg-green-50 text-green-900",
	VariantError:   "border-red-200 bg-red-50 text-red-900",
	VariantWarning: "border-amber-200 bg-amber-50 text-amber-900",
	VariantInfo:    "border-blue-200 bg-blue-50 text-blue-900",
}

var tmpl = template.Must(template.New("toast").Parse(`<div class="{{.Class}}" role="status" data-toast data-duration="{{.Duration}}">
	{{- if .Icon}}<span class="toast-icon" aria-hidden="true">{{.Icon}}</span>{{end}}
	<div class="flex-1">
		{{- if .Title}}<p class="font-semibold">{{.Title}}</p>{{end}}
		{{- if .Description}}<p class="text-sm">{{.Description}}</p>{{end}}
	</div>
	{{- if .Dismissible}}<button type="button" class="toast-close" data-toast-close aria-label="Close">×</button>{{end}}
</div>`))

type view struct {
	Class       string
	Icon        string
	Title       string
	Description string
	Dismissible bool
	Duration    int
}

func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		variant := p.Variant
		if variant == "" {
			variant = VariantDefault
		}

		v := view{
			Class:       twmerge.Merge("toast flex items-start gap-3 rounded-lg border p-4 shadow", variantClasses[variant], p.Class),
			Title:       p.Title,
			Description: p.Description,
			Dismissible: p.Dismissible,
			Duration:    p.Duration,
		}
		if v.Duration == 0 {
			v.Duration = 3000
		}
		if p.Icon {
			v.Icon = icons[variant]
		}

		return tmpl.Execute(w, v)
	})
}

func Success(description string) templ.Component {
	return Toast(Props{Title: "Success", Description: description, Variant: VariantSuccess, Icon: true, Dismissible: true})
}

func Error(description string) templ.Component {
	return Toast(Props{Title: "Error", Description: description, Variant: VariantError, Icon: true, Dismissible: true, Duration: 6000})
}
