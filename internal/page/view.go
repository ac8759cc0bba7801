package page

import (
	"html/template"
	"strings"
	"time"

	"github.com/mtlprog/welcome/internal/config"
	"github.com/mtlprog/welcome/internal/domain"
)

// View is the data the welcome template is executed with.
type View struct {
	Lang    string
	Title   string
	AppName string
	Year    string
	Assets  template.HTML
}

// NewView resolves the interpolated values for one render.
func NewView(s domain.Settings, now time.Time, assets template.HTML) View {
	name := s.AppName
	if strings.TrimSpace(name) == "" {
		name = config.DefaultAppName
	}

	return View{
		Lang:    domain.LangTag(s.Locale),
		Title:   name,
		AppName: name,
		Year:    now.Format("2006"),
		Assets:  assets,
	}
}
