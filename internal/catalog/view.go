package catalog

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order selects how the catalog is sorted before filtering and paging.
type Order string

const (
	// OrderDate shows the most recently created products first. Default.
	OrderDate Order = "date"
	// OrderPriceDesc sorts by price, highest first.
	OrderPriceDesc Order = "price+"
	// OrderPriceAsc sorts by price, lowest first.
	OrderPriceAsc Order = "price-"
	// OrderName sorts by name ascending, locale-aware.
	OrderName Order = "name"
)

// Page sizes by viewport class. The caller decides narrow vs wide once at
// the boundary and threads the result in; the pipeline never sniffs devices.
const (
	PageSizeNarrow = 8
	PageSizeWide   = 12
)

// PageSize returns the products-per-page count for a viewport class.
func PageSize(narrow bool) int {
	if narrow {
		return PageSizeNarrow
	}
	return PageSizeWide
}

// Image is a stored product image reference.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Product is the read model the derivation pipeline operates on.
// Price is in minor currency units.
type Product struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int64     `json:"price"`
	Variations  []string  `json:"variations"`
	Images      []Image   `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// View is one derived catalog page.
type View struct {
	Items      []Product `json:"items"`
	TotalItems int       `json:"total_items"`
	TotalPages int       `json:"total_pages"`
	Page       int       `json:"page"`
	Window     []int     `json:"window"`
}

// SortProducts returns a sorted copy of products; the input is never mutated.
func SortProducts(products []Product, order Order) []Product {
	sorted := make([]Product, len(products))
	copy(sorted, products)

	switch order {
	case OrderPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price > sorted[j].Price
		})
	case OrderPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Price < sorted[j].Price
		})
	case OrderName:
		coll := collate.New(language.BrazilianPortuguese)
		sort.SliceStable(sorted, func(i, j int) bool {
			return coll.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	default: // OrderDate
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}

// FilterProducts keeps products whose name, description or category
// contains query, case-insensitively. An empty query keeps everything.
func FilterProducts(products []Product, query string) []Product {
	if query == "" {
		return products
	}
	q := strings.ToLower(query)
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Paginate slices the 1-based page [ (page-1)*pageSize, page*pageSize ).
// The requested page is clamped into [1, totalPages] first so a page-size
// change can never leave the caller on an empty out-of-range page.
func Paginate(products []Product, page, pageSize int) (items []Product, totalPages, currentPage int) {
	if pageSize <= 0 {
		pageSize = PageSizeWide
	}
	totalPages = (len(products) + pageSize - 1) / pageSize

	// clamp to [1, max(1, totalPages)]; an empty list still lands on page 1
	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	currentPage = page
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > maxPage {
		currentPage = maxPage
	}

	start := (currentPage - 1) * pageSize
	if start >= len(products) {
		return []Product{}, totalPages, currentPage
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], totalPages, currentPage
}

// pageNeighbours is how many page numbers show on each side of the current one.
const pageNeighbours = 1

// PageWindow computes the contiguous run of page numbers to render. The
// window holds the current page plus one neighbour per side, widened near
// the boundaries so it never shrinks below min(3, totalPages).
func PageWindow(totalPages, currentPage int) []int {
	if totalPages <= 0 {
		return []int{}
	}

	start := currentPage - pageNeighbours
	if start < 1 {
		start = 1
	}
	end := currentPage + pageNeighbours
	if end > totalPages {
		end = totalPages
	}

	adjustedStart := end - 2
	if adjustedStart > start {
		adjustedStart = start
	}
	if adjustedStart < 1 {
		adjustedStart = 1
	}

	adjustedEnd := adjustedStart + 2
	if adjustedEnd < end {
		adjustedEnd = end
	}
	if adjustedEnd > totalPages {
		adjustedEnd = totalPages
	}

	window := make([]int, 0, adjustedEnd-adjustedStart+1)
	for p := adjustedStart; p <= adjustedEnd; p++ {
		window = append(window, p)
	}
	return window
}

// Derive runs the whole pipeline in its fixed order: sort, filter, paginate.
func Derive(products []Product, query string, order Order, page, pageSize int) View {
	sorted := SortProducts(products, order)
	filtered := FilterProducts(sorted, query)
	items, totalPages, currentPage := Paginate(filtered, page, pageSize)

	return View{
		Items:      items,
		TotalItems: len(filtered),
		TotalPages: totalPages,
		Page:       currentPage,
		Window:     PageWindow(totalPages, currentPage),
	}
}
