package pages

import (
	"net/http"

	"github.com/supporttools/BackupConsole/pkg/console"
)

// ConsolePageData holds data for the backup console page
type ConsolePageData struct {
	Screen console.Screen
	Ack    *console.Ack
}

const consoleTemplate = `
{{define "content"}}
<div class="card">
    <div class="card-body p-4">
        <div class="d-flex justify-content-between align-items-center mb-4">
            <h2 class="m-0">Backup Manager</h2>
            <div>
                <form method="post" action="/refresh" class="d-inline">
                    <button type="submit" class="btn btn-outline-secondary">Refresh</button>
                </form>
                <form method="post" action="/backup" class="d-inline">
                    <button type="submit" class="btn btn-primary">+ Manual Backup</button>
                </form>
            </div>
        </div>

        {{with .Content.Ack}}
        <div class="alert {{if .OK}}alert-success{{else}}alert-danger{{end}}" role="alert">{{.Message}}</div>
        {{end}}

        <div class="mb-3">
            {{range .Content.Screen.Filters}}
            <form method="post" action="/filter" class="d-inline">
                <input type="hidden" name="type" value="{{.Category}}">
                <button type="submit" class="btn {{if .Active}}btn-primary{{else}}btn-outline-primary{{end}} me-2">{{.Category}}</button>
            </form>
            {{end}}
        </div>

        <table class="table">
            <thead>
                <tr>
                    <th>#</th>
                    <th>Backup Filename</th>
                    <th>Date &amp; Time</th>
                    <th>Action</th>
                </tr>
            </thead>
            <tbody>
                {{$screen := .Content.Screen}}
                {{if eq $screen.Mode "rows"}}
                {{range $screen.Rows}}
                <tr data-id="{{.ID}}">
                    <td>{{.Number}}</td>
                    <td>{{.Filename}} / {{.Category}}</td>
                    <td title="{{timeAgo .Timestamp}}">{{formatTime .Timestamp}}</td>
                    <td>
                        <form method="post" action="/restore" class="d-inline">
                            <input type="hidden" name="id" value="{{.ID}}">
                            <button type="submit" class="btn btn-success btn-sm">Restore</button>
                        </form>
                    </td>
                </tr>
                {{end}}
                {{else}}
                <tr class="placeholder-row{{if eq $screen.Mode "error"}} error{{end}}">
                    <td colspan="4">{{$screen.Message}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>

        <div class="text-center mt-4">
            {{range .Content.Screen.Pages}}
            <form method="post" action="/page" class="d-inline">
                <input type="hidden" name="n" value="{{.Number}}">
                <button type="submit" class="btn btn-sm {{if .Current}}btn-primary{{else}}btn-light{{end}} mx-1">{{.Number}}</button>
            </form>
            {{end}}
        </div>

        <div class="text-muted small text-end">Last updated: {{timeAgo .Content.Screen.LoadedAt}}</div>
    </div>
</div>
{{end}}
`

// ConsolePage renders the backup console page
func ConsolePage(w http.ResponseWriter, data ConsolePageData) {
	tmpl := generateCommonTemplate()
	if tmpl == nil {
		http.Error(w, "Failed to generate template", http.StatusInternalServerError)
		return
	}

	if _, err := tmpl.Parse(consoleTemplate); err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return
	}

	renderTemplate(w, tmpl, "/", PageData{
		Title:       "Backups",
		Description: "Existing backups, manual backup and restore",
		Content:     data,
	})
}
