// Package view renders the storefront as HTML. Every render rebuilds the
// whole list from the data it is given.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/ammerola/storefront/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// InventoryRow is one rendered inventory line
type InventoryRow struct {
	ID      int
	Content string
	Pending int
}

// CartRow is one rendered cart line, in display or edit mode
type CartRow struct {
	ID         int
	Content    string
	Label      string
	Editing    bool
	EditAmount int
}

type inventoryData struct {
	Items []InventoryRow
}

type cartData struct {
	Rows []CartRow
}

// Page is everything the full document needs
type Page struct {
	Title      string
	Inventory  []domain.InventoryItem
	Cart       []domain.CartItem
	Pending    map[int]int
	Editing    map[int]domain.EditRow
	Revision   uint64
	Notice     *domain.Notice
	LiveReload bool
}

type pageData struct {
	Title      string
	Inventory  inventoryData
	Cart       cartData
	Notice     *domain.Notice
	LiveReload bool
}

// Renderer holds the parsed templates. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderInventory writes one row per inventory item with its pending counter
func (r *Renderer) RenderInventory(w io.Writer, items []domain.InventoryItem, pending map[int]int) error {
	return r.tmpl.ExecuteTemplate(w, "inventory", inventoryRows(items, pending))
}

// RenderCart writes one row per cart line. A line is in edit mode when
// editing holds a row for it opened at revision.
func (r *Renderer) RenderCart(w io.Writer, items []domain.CartItem, editing map[int]domain.EditRow, revision uint64) error {
	return r.tmpl.ExecuteTemplate(w, "cart", cartRows(items, editing, revision))
}

// RenderPage writes the full document
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	title := page.Title
	if title == "" {
		title = "Storefront"
	}
	return r.tmpl.ExecuteTemplate(w, "page", pageData{
		Title:      title,
		Inventory:  inventoryRows(page.Inventory, page.Pending),
		Cart:       cartRows(page.Cart, page.Editing, page.Revision),
		Notice:     page.Notice,
		LiveReload: page.LiveReload,
	})
}

func inventoryRows(items []domain.InventoryItem, pending map[int]int) inventoryData {
	rows := make([]InventoryRow, len(items))
	for i, item := range items {
		rows[i] = InventoryRow{ID: item.ID, Content: item.Content, Pending: pending[item.ID]}
	}
	return inventoryData{Items: rows}
}

func cartRows(items []domain.CartItem, editing map[int]domain.EditRow, revision uint64) cartData {
	rows := make([]CartRow, len(items))
	for i, item := range items {
		row := CartRow{ID: item.ID, Content: item.Content, Label: item.Label()}
		if e, ok := editing[item.ID]; ok && e.Revision == revision {
			row.Editing = true
			row.EditAmount = e.Amount
		}
		rows[i] = row
	}
	return cartData{Rows: rows}
}
