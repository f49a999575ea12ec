package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Product{
		{ID: 1, Name: "Whey Protein", Description: "Chocolate flavour", Category: "Suplementos", Price: 12990, CreatedAt: base},
		{ID: 2, Name: "Creatina", Description: "300g pure", Category: "Suplementos", Price: 8990, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, Name: "Camiseta Dry", Description: "Training shirt", Category: "Roupas", Price: 4990, CreatedAt: base.Add(time.Hour)},
		{ID: 4, Name: "Água Mineral", Description: "500ml", Category: "Bebidas", Price: 300, CreatedAt: base.Add(3 * time.Hour)},
	}
}

func TestSortProductsByDate(t *testing.T) {
	products := sampleProducts()
	sorted := SortProducts(products, OrderDate)

	ids := []int64{sorted[0].ID, sorted[1].ID, sorted[2].ID, sorted[3].ID}
	assert.Equal(t, []int64{4, 2, 3, 1}, ids, "most recent first")

	// input untouched
	assert.Equal(t, int64(1), products[0].ID)
}

func TestSortProductsByPrice(t *testing.T) {
	desc := SortProducts(sampleProducts(), OrderPriceDesc)
	assert.Equal(t, int64(12990), desc[0].Price)
	assert.Equal(t, int64(300), desc[3].Price)

	asc := SortProducts(sampleProducts(), OrderPriceAsc)
	assert.Equal(t, int64(300), asc[0].Price)
	assert.Equal(t, int64(12990), asc[3].Price)
}

func TestSortProductsByNameLocaleAware(t *testing.T) {
	sorted := SortProducts(sampleProducts(), OrderName)

	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.Name
	}
	// "Água" collates with plain "A" words, not after "Z"
	assert.Equal(t, []string{"Água Mineral", "Camiseta Dry", "Creatina", "Whey Protein"}, names)
}

func TestFilterProductsMatchesAnyField(t *testing.T) {
	products := sampleProducts()

	assert.Len(t, FilterProducts(products, "whey"), 1, "name match, case-insensitive")
	assert.Len(t, FilterProducts(products, "shirt"), 1, "description match")
	assert.Len(t, FilterProducts(products, "suplementos"), 2, "category match")
	assert.Len(t, FilterProducts(products, ""), 4, "empty query keeps all")
	assert.Empty(t, FilterProducts(products, "nonexistent"))
}

func TestFilterPreservesSortOrder(t *testing.T) {
	sorted := SortProducts(sampleProducts(), OrderName)
	filtered := FilterProducts(sorted, "suplementos")

	require.Len(t, filtered, 2)
	// still name-sorted: Creatina before Whey Protein
	assert.Equal(t, "Creatina", filtered[0].Name)
	assert.Equal(t, "Whey Protein", filtered[1].Name)
}

func TestPaginateCoverage(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 12, 25, 40} {
		for _, pageSize := range []int{1, 8, 12} {
			products := make([]Product, n)
			for i := range products {
				products[i] = Product{ID: int64(i + 1)}
			}

			seen := map[int64]int{}
			totalPages := (n + pageSize - 1) / pageSize
			for page := 1; page <= totalPages; page++ {
				items, tp, cp := Paginate(products, page, pageSize)
				require.Equal(t, totalPages, tp)
				require.Equal(t, page, cp)
				for _, it := range items {
					seen[it.ID]++
				}
			}

			require.Len(t, seen, n, "n=%d size=%d", n, pageSize)
			for id, count := range seen {
				require.Equal(t, 1, count, "product %d appeared %d times", id, count)
			}
		}
	}
}

func TestPaginateClampsOutOfRangePage(t *testing.T) {
	products := make([]Product, 10)
	for i := range products {
		products[i] = Product{ID: int64(i + 1)}
	}

	// page 5 of a 10-item list at size 8 does not exist; land on the last page
	items, totalPages, page := Paginate(products, 5, 8)
	assert.Equal(t, 2, totalPages)
	assert.Equal(t, 2, page)
	assert.Len(t, items, 2)

	items, _, page = Paginate(products, 0, 8)
	assert.Equal(t, 1, page)
	assert.Len(t, items, 8)

	items, totalPages, page = Paginate(nil, 3, 8)
	assert.Empty(t, items)
	assert.Equal(t, 0, totalPages)
	assert.Equal(t, 1, page)
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		totalPages, currentPage int
		want                    []int
	}{
		{0, 1, []int{}},
		{1, 1, []int{1}},
		{2, 1, []int{1, 2}},
		{2, 2, []int{1, 2}},
		{3, 1, []int{1, 2, 3}},
		{3, 3, []int{1, 2, 3}},
		{5, 1, []int{1, 2, 3}},
		{5, 3, []int{2, 3, 4}},
		{5, 5, []int{3, 4, 5}},
		{10, 7, []int{6, 7, 8}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("total=%d_current=%d", tt.totalPages, tt.currentPage), func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.totalPages, tt.currentPage))
		})
	}
}

func TestPageWindowInteriorLength(t *testing.T) {
	for total := 3; total <= 12; total++ {
		for current := 2; current < total; current++ {
			assert.Len(t, PageWindow(total, current), 3, "total=%d current=%d", total, current)
		}
	}
}

func TestDeriveScenario25Products(t *testing.T) {
	products := make([]Product, 25)
	for i := range products {
		products[i] = Product{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("Produto %02d", i+1),
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		}
	}

	view := Derive(products, "", OrderDate, 3, 12)

	assert.Equal(t, 25, view.TotalItems)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 3, view.Page)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, []int{1, 2, 3}, view.Window)
}

func TestDeriveEmptySearchResult(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "Camiseta"},
		{ID: 2, Name: "Garrafa"},
	}

	// a search with no hits lands on page 1 no matter what page was asked for
	view := Derive(products, "whey", OrderDate, 3, 8)

	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.TotalItems)
	assert.Equal(t, 0, view.TotalPages)
	assert.Equal(t, 1, view.Page)
	assert.Empty(t, view.Window)
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, 8, PageSize(true))
	assert.Equal(t, 12, PageSize(false))
}
