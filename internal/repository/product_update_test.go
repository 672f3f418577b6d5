package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestStatusForStock(t *testing.T) {
	assert.Equal(t, StatusAvailable, StatusForStock(1))
	assert.Equal(t, StatusAvailable, StatusForStock(100))
	assert.Equal(t, StatusSoldOut, StatusForStock(0))
}

func TestProductUpdateApplySuppliedWins(t *testing.T) {
	cur := Product{
		ID: 3, AdminID: 7,
		Name: "Old chair", Description: "wooden", Price: "150000",
		Image: "https://assets.example/old.jpg", Stock: 2, Status: StatusAvailable,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	got := ProductUpdate{
		Name:  strPtr("Restored chair"),
		Price: strPtr("200000"),
		Stock: intPtr(5),
	}.Apply(cur)

	assert.Equal(t, "Restored chair", got.Name)
	assert.Equal(t, "wooden", got.Description) // absent field retained
	assert.Equal(t, "200000", got.Price)
	assert.Equal(t, cur.Image, got.Image)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, StatusAvailable, got.Status)
	assert.Equal(t, cur.ID, got.ID)
	assert.Equal(t, cur.AdminID, got.AdminID)
	assert.Equal(t, cur.CreatedAt, got.CreatedAt) // immutable
}

func TestProductUpdateApplyRecomputesStatus(t *testing.T) {
	cur := Product{Stock: 4, Status: StatusAvailable}

	got := ProductUpdate{Stock: intPtr(0)}.Apply(cur)
	assert.Equal(t, StatusSoldOut, got.Status)

	// Status is recomputed even when stock is not supplied, so a stale
	// stored status can never survive an update.
	cur.Status = "bogus"
	got = ProductUpdate{Name: strPtr("x")}.Apply(cur)
	assert.Equal(t, StatusAvailable, got.Status)
}

func TestProductUpdateApplyEmptyKeepsEverything(t *testing.T) {
	cur := Product{Name: "n", Description: "d", Price: "1", Image: "i", Stock: 0, Status: StatusSoldOut}
	got := ProductUpdate{}.Apply(cur)
	assert.Equal(t, cur, got)
}
