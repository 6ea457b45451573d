// Package viewstate owns the console's filter and page selection and derives
// the visible page of backups from them.
package viewstate

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/supporttools/BackupConsole/pkg/inventory/types"
)

const (
	// PageSize is the number of records shown per page
	PageSize = 5
	// FilterAll disables category filtering
	FilterAll = "All"
)

// ErrInvalidPage is returned by SetPage for page numbers below 1
var ErrInvalidPage = errors.New("page number must be at least 1")

// State is the operator's current selection
type State struct {
	ActiveFilter string `json:"activeFilter"`
	CurrentPage  int    `json:"currentPage"`
}

// Page is the derived view for one filter and page number
type Page struct {
	Visible    []types.BackupRecord `json:"visible"`
	Number     int                  `json:"number"`
	TotalPages int                  `json:"totalPages"`
	Filtered   int                  `json:"filtered"`
	FirstIndex int                  `json:"firstIndex"` // 1-based ordinal of Visible[0]
}

// Filter returns the records whose category equals filter, in their original
// order. FilterAll returns records unchanged.
func Filter(records []types.BackupRecord, filter string) []types.BackupRecord {
	if filter == FilterAll {
		return records
	}
	filtered := make([]types.BackupRecord, 0, len(records))
	for _, r := range records {
		if r.Category == filter {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// TotalPages returns ceil(n/pageSize), 0 for no records
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Derive computes the page window for the given inputs. It has no side
// effects; a page outside 1..TotalPages yields an empty window.
func Derive(records []types.BackupRecord, filter string, page, pageSize int) Page {
	filtered := Filter(records, filter)
	p := Page{
		Visible:    []types.BackupRecord{},
		Number:     page,
		TotalPages: TotalPages(len(filtered), pageSize),
		Filtered:   len(filtered),
		FirstIndex: (page-1)*pageSize + 1,
	}
	if page < 1 || pageSize <= 0 {
		return p
	}

	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return p
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	p.Visible = filtered[start:end]
	return p
}

// PageNumbers returns 1..totalPages for page selector controls
func PageNumbers(totalPages int) []int {
	numbers := make([]int, 0, max(totalPages, 0))
	for i := 1; i <= totalPages; i++ {
		numbers = append(numbers, i)
	}
	return numbers
}

// Option configures a Controller
type Option func(*Controller)

// PreservePageOnFilter keeps the current page when the filter changes
// instead of returning to page 1.
func PreservePageOnFilter() Option {
	return func(c *Controller) {
		c.resetOnFilter = false
	}
}

// Controller holds the filter and page selection
type Controller struct {
	mu            sync.Mutex
	state         State
	resetOnFilter bool
}

// NewController creates a controller showing page 1 of all records
func NewController(opts ...Option) *Controller {
	c := &Controller{
		state:         State{ActiveFilter: FilterAll, CurrentPage: 1},
		resetOnFilter: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetFilter selects the category to show. Unless the controller was built
// with PreservePageOnFilter, the selection returns to page 1.
func (c *Controller) SetFilter(category string) {
	if category == "" {
		category = FilterAll
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ActiveFilter = category
	if c.resetOnFilter {
		c.state.CurrentPage = 1
	}
}

// SetPage selects page n. Upper bounds are reconciled by View.
func (c *Controller) SetPage(n int) error {
	if n < 1 {
		return ErrInvalidPage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentPage = n
	return nil
}

// State returns the current selection
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View derives the visible page for records. A current page beyond the last
// page is first pulled back to the last page, or to 1 when nothing matches.
func (c *Controller) View(records []types.BackupRecord) Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := TotalPages(len(Filter(records, c.state.ActiveFilter)), PageSize)
	if c.state.CurrentPage > total {
		c.state.CurrentPage = max(total, 1)
	}
	return Derive(records, c.state.ActiveFilter, c.state.CurrentPage, PageSize)
}
