// Package console binds an inventory store and a view-state controller into
// one mounted backup console and builds the screen both shells render.
package console

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/supporttools/BackupConsole/pkg/inventory"
	"github.com/supporttools/BackupConsole/pkg/inventory/types"
	"github.com/supporttools/BackupConsole/pkg/logging"
	"github.com/supporttools/BackupConsole/pkg/viewstate"
)

// Messages shown in place of the backup table
const (
	LoadingMessage = "Loading backups..."
	EmptyMessage   = "No backups found."
)

// Mode selects what the backup table body shows
type Mode string

const (
	ModeLoading Mode = "loading"
	ModeError   Mode = "error"
	ModeEmpty   Mode = "empty"
	ModeRows    Mode = "rows"
)

// Row is one rendered backup
type Row struct {
	Number    int       `json:"number"`
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// FilterButton is one category selector
type FilterButton struct {
	Category string `json:"category"`
	Active   bool   `json:"active"`
}

// PageButton is one page selector
type PageButton struct {
	Number  int  `json:"number"`
	Current bool `json:"current"`
}

// Screen is everything needed to draw the console
type Screen struct {
	Mode       Mode           `json:"mode"`
	Message    string         `json:"message,omitempty"`
	Rows       []Row          `json:"rows"`
	Filters    []FilterButton `json:"filters"`
	Pages      []PageButton   `json:"pages"`
	Filter     string         `json:"filter"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
	LoadedAt   time.Time      `json:"loadedAt"`
}

// Ack is the operator-facing outcome of a restore request
type Ack struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Console is one mounted backup console
type Console struct {
	store      *inventory.Store
	controller *viewstate.Controller
	logger     *logrus.Logger
}

// New creates a console over the given store and controller
func New(store *inventory.Store, controller *viewstate.Controller, logger *logrus.Logger) *Console {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Console{
		store:      store,
		controller: controller,
		logger:     logger,
	}
}

// Mount performs the console's initial load. Load failures are reflected in
// the screen, so the error is only logged.
func (c *Console) Mount(ctx context.Context) {
	if err := c.store.Load(ctx); err != nil {
		c.logger.WithError(err).Warn("Initial backup load failed")
	}
}

// Refresh reloads the inventory on operator request
func (c *Console) Refresh(ctx context.Context) error {
	return c.store.Load(ctx)
}

// SetFilter selects the category to show
func (c *Console) SetFilter(category string) {
	c.controller.SetFilter(category)
}

// SetPage selects the page to show
func (c *Console) SetPage(n int) error {
	return c.controller.SetPage(n)
}

// CreateManualBackup requests a manual backup. A failure leaves the screen
// unchanged; the error is returned for logging only.
func (c *Console) CreateManualBackup(ctx context.Context) error {
	return c.store.CreateManualBackup(ctx)
}

// Restore requests restoration of the identified backup
func (c *Console) Restore(ctx context.Context, id string) Ack {
	if err := c.store.Restore(ctx, id); err != nil {
		return Ack{OK: false, Message: "Failed to restore backup"}
	}
	name := id
	if rec, ok := c.store.Find(id); ok && rec.Filename != "" {
		name = rec.Filename
	}
	return Ack{OK: true, Message: fmt.Sprintf("Restore requested for %s", name)}
}

// Screen builds the current screen. The inventory status is consulted before
// any derived view: a loading or failed inventory never shows rows.
func (c *Console) Screen() Screen {
	inv := c.store.Snapshot()
	state := c.controller.State()

	screen := Screen{
		Rows:     []Row{},
		Filters:  filterButtons(inv.Records, state.ActiveFilter),
		Pages:    []PageButton{},
		Filter:   state.ActiveFilter,
		Page:     state.CurrentPage,
		LoadedAt: inv.LoadedAt,
	}

	// The page is only reconciled against a ready inventory, so a loading or
	// failed one keeps the selected page.
	switch inv.Status {
	case types.StatusLoading:
		screen.Mode = ModeLoading
		screen.Message = LoadingMessage
		return screen
	case types.StatusFailed:
		screen.Mode = ModeError
		screen.Message = inv.ErrorMessage
		return screen
	}

	page := c.controller.View(inv.Records)
	state = c.controller.State()
	screen.Page = state.CurrentPage
	screen.TotalPages = page.TotalPages

	for _, n := range viewstate.PageNumbers(page.TotalPages) {
		screen.Pages = append(screen.Pages, PageButton{Number: n, Current: n == state.CurrentPage})
	}

	if len(page.Visible) == 0 {
		screen.Mode = ModeEmpty
		screen.Message = EmptyMessage
		return screen
	}

	screen.Mode = ModeRows
	for i, r := range page.Visible {
		screen.Rows = append(screen.Rows, Row{
			Number:    page.FirstIndex + i,
			ID:        r.ID,
			Filename:  r.Filename,
			Category:  r.Category,
			Timestamp: r.Timestamp,
		})
	}
	return screen
}

// filterButtons offers All, the known categories, then any other category
// present in records in first-seen order.
func filterButtons(records []types.BackupRecord, active string) []FilterButton {
	categories := append([]string{viewstate.FilterAll}, types.KnownCategories...)
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		seen[c] = true
	}
	for _, r := range records {
		if r.Category != "" && !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	if !seen[active] {
		categories = append(categories, active)
	}

	buttons := make([]FilterButton, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, FilterButton{Category: c, Active: c == active})
	}
	return buttons
}
