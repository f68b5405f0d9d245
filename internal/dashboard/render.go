package dashboard

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/url"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.New("dashboard.html.tmpl").
	Funcs(template.FuncMap{"iconURL": IconURL}).
	ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// Page is everything the dashboard template needs.
type Page struct {
	State State
	City  string
	Ring  *Ring
}

// NewPage builds a page for a state. The ring is present only with a result.
func NewPage(state State, city string) Page {
	page := Page{State: state, City: city}
	if state.Result != nil {
		ring := NewRing(state.Result.TemperatureC)
		page.Ring = &ring
	}
	return page
}

// Render writes the dashboard HTML.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

// Static returns the embedded static assets (script and stylesheet).
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// IconURL returns the OpenWeatherMap image URL for an icon code, or "" for
// an empty code.
func IconURL(code string) string {
	if code == "" {
		return ""
	}
	return "https://openweathermap.org/img/wn/" + url.PathEscape(code) + "@2x.png"
}
