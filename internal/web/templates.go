package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/jimdaga/automarketer/internal/backend"
	"github.com/jimdaga/automarketer/internal/dashboard"
	"github.com/jimdaga/automarketer/internal/models"
	"github.com/jimdaga/automarketer/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"formatTime": formatTime,
}

// formatTime renders draft timestamps in server local time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2 Jan 2006 15:04")
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

type authForm struct {
	Signup       bool
	Email        string
	Username     string
	Organization string
	Error        string
	Message      string
	RevertAfter  string
}

type authPage struct {
	Title string
	Form  authForm
}

type productsData struct {
	View        dashboard.ProductsView
	ConfirmText string
}

type generatorData struct {
	View      dashboard.GeneratorView
	Products  []backend.Product
	Platforms []models.Platform
}

type historyData struct {
	View      dashboard.HistoryView
	EmptyText string
}

type dashboardPage struct {
	Title     string
	User      session.User
	ViewID    string
	HXHeaders string
	Products  productsData
	Generator generatorData
	History   historyData
	Toast     dashboard.Notice
}

func newProductsData(ws *dashboard.Workspace) productsData {
	return productsData{View: ws.Products.View(), ConfirmText: dashboard.DeleteConfirmText}
}

func newGeneratorData(ws *dashboard.Workspace) generatorData {
	return generatorData{
		View:      ws.Generator.View(),
		Products:  ws.Products.Items(),
		Platforms: models.Platforms,
	}
}

func newHistoryData(ws *dashboard.Workspace) historyData {
	return historyData{View: ws.History.View(), EmptyText: dashboard.EmptyHistoryText}
}
