package pages

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supporttools/BackupConsole/pkg/console"
)

func TestConsolePageNavigation(t *testing.T) {
	rr := httptest.NewRecorder()
	ConsolePage(rr, ConsolePageData{Screen: console.Screen{
		Mode:    console.ModeEmpty,
		Message: console.EmptyMessage,
	}})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, link := range commonNavLinks {
		assert.Contains(t, body, `href="`+link.URL+`"`)
		assert.Contains(t, body, ">"+link.Name+"</a>")
	}
	assert.Contains(t, body, `class="nav-link active `)
	assert.Contains(t, body, console.EmptyMessage)
}

func TestConsolePageRows(t *testing.T) {
	rr := httptest.NewRecorder()
	ConsolePage(rr, ConsolePageData{
		Screen: console.Screen{
			Mode: console.ModeRows,
			Rows: []console.Row{{
				Number:    6,
				ID:        "abc",
				Filename:  "weekly.tar.gz",
				Category:  "Manual",
				Timestamp: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			}},
			Pages: []console.PageButton{{Number: 1}, {Number: 2, Current: true}},
		},
		Ack: &console.Ack{OK: false, Message: "Failed to restore backup"},
	})

	body := rr.Body.String()
	assert.Contains(t, body, `data-id="abc"`)
	assert.Contains(t, body, "weekly.tar.gz / Manual")
	assert.Contains(t, body, "alert-danger")
	assert.Contains(t, body, "Failed to restore backup")
	assert.NotContains(t, body, `<tr class="placeholder-row`)
}
