// Package pages provides HTML pages for the backup console.
package pages

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/supporttools/BackupConsole/pkg/version"
)

// PageData holds common data for all pages
type PageData struct {
	Title       string
	Description string
	Time        string
	AppName     string
	Version     string
	NavLinks    []NavLink
	Content     interface{}
}

// NavLink represents a navigation link
type NavLink struct {
	URL      string
	Name     string
	Active   bool
	External bool
}

// Common navigation links used across pages
var commonNavLinks = []NavLink{
	{URL: "/", Name: "Backups"},
	{URL: "/api/view", Name: "JSON", External: true},
	{URL: "/metrics", Name: "Metrics", External: true},
}

// templateFuncs are available to every page
var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format("2006-01-02 15:04:05")
	},
	"timeAgo": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return humanize.Time(t)
	},
}

// generateCommonTemplate creates the base template with common elements
func generateCommonTemplate() *template.Template {
	baseTemplate := `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ .Title }} - {{ .AppName }}</title>
    <meta name="description" content="{{ .Description }}">
    <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css">
    <style>
        body {
            padding-top: 20px;
            background-color: #f3f4f6;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
        }
        .card {
            margin-bottom: 20px;
            border-radius: 16px;
        }
        .table thead tr {
            background-color: #1f2937;
            color: #fff;
        }
        .placeholder-row td {
            text-align: center;
            padding: 20px;
            color: #6b7280;
        }
        .placeholder-row.error td {
            color: #ef4444;
        }
        footer {
            margin-top: 3rem;
            padding: 1.5rem 0;
            border-top: 1px solid #e9ecef;
            color: #6c757d;
            font-size: 0.9rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <nav class="navbar navbar-expand-lg navbar-light bg-light rounded mb-4">
            <div class="container-fluid">
                <span class="navbar-brand">{{ .AppName }}</span>
                <div class="navbar-nav">
                    {{ range .NavLinks }}
                    <a class="nav-link {{ if .Active }}active{{ end }} {{ if .External }}text-primary{{ end }}" href="{{ .URL }}">{{ .Name }}</a>
                    {{ end }}
                </div>
            </div>
        </nav>

        <main>
            {{ block "content" . }}{{ end }}
        </main>

        <footer class="text-center">
            <div>{{ .AppName }} {{ .Version }}</div>
            <div class="text-muted">Page rendered at {{ .Time }}</div>
        </footer>
    </div>
</body>
</html>
`

	tmpl, err := template.New("base").Funcs(templateFuncs).Parse(baseTemplate)
	if err != nil {
		log.Printf("Error parsing template: %v", err)
		return nil
	}

	return tmpl
}

// renderTemplate renders a template with the provided data
func renderTemplate(w http.ResponseWriter, tmpl *template.Template, name string, data PageData) {
	if data.AppName == "" {
		data.AppName = "Backup Manager"
	}
	if data.Version == "" {
		data.Version = version.Version
	}
	if data.Time == "" {
		data.Time = time.Now().Format("2006-01-02 15:04:05")
	}
	if len(data.NavLinks) == 0 {
		data.NavLinks = make([]NavLink, len(commonNavLinks))
		copy(data.NavLinks, commonNavLinks)
	}

	for i := range data.NavLinks {
		if data.NavLinks[i].URL == name {
			data.NavLinks[i].Active = true
		}
	}

	buf := &bytes.Buffer{}
	err := tmpl.ExecuteTemplate(buf, "base", data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
		log.Printf("Template error: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
