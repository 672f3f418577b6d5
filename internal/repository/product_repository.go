package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Product status values. Status is never set directly by clients: it is
// derived from stock on every create and update so the two can never
// disagree. The strings are the marketplace's original Indonesian labels and
// are part of the API contract.
const (
	StatusAvailable = "Tersedia"
	StatusSoldOut   = "Terjual"
)

// StatusForStock derives the listing status from the stock count.
func StatusForStock(stock int) string {
	if stock > 0 {
		return StatusAvailable
	}
	return StatusSoldOut
}

// Product mirrors the 'products' table plus the seller columns joined from
// 'admins'. Price is decimal-as-text end to end, matching the column type.
type Product struct {
	ID          uint64
	AdminID     uint64
	Name        string
	Description string
	Price       string
	Image       string
	Stock       int
	Status      string
	CreatedAt   time.Time

	// Denormalized owner fields, populated by the JOINed queries.
	SellerName     string
	SellerPhone    string
	SellerLocation string
	SellerIsSuper  bool
}

// ProductUpdate carries the supplied fields of a partial update. A nil field
// means "keep the stored value".
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *string
	Stock       *int
	Image       *string
}

// Apply merges the update over the current row: supplied values win, absent
// ones fall back to what is stored. Status is recomputed from the resulting
// stock unconditionally.
func (u ProductUpdate) Apply(cur Product) Product {
	out := cur
	if u.Name != nil {
		out.Name = *u.Name
	}
	if u.Description != nil {
		out.Description = *u.Description
	}
	if u.Price != nil {
		out.Price = *u.Price
	}
	if u.Stock != nil {
		out.Stock = *u.Stock
	}
	if u.Image != nil {
		out.Image = *u.Image
	}
	out.Status = StatusForStock(out.Stock)
	return out
}

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productSelect = `
SELECT p.id, p.admin_id, p.name, p.description, p.price, p.image, p.stock, p.status, p.created_at,
       a.name, a.phone, a.location, a.is_super_admin
FROM products p
JOIN admins a ON a.id = p.admin_id`

func scanProduct(row *sql.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.AdminID, &p.Name, &p.Description, &p.Price, &p.Image,
		&p.Stock, &p.Status, &p.CreatedAt,
		&p.SellerName, &p.SellerPhone, &p.SellerLocation, &p.SellerIsSuper)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func collectProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.AdminID, &p.Name, &p.Description, &p.Price, &p.Image,
			&p.Stock, &p.Status, &p.CreatedAt,
			&p.SellerName, &p.SellerPhone, &p.SellerLocation, &p.SellerIsSuper); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a product and fills in its generated id. Status and
// CreatedAt must already be set by the caller.
func (r *ProductRepo) Create(ctx context.Context, p *Product) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO products (admin_id, name, description, price, image, stock, status, created_at) VALUES (?,?,?,?,?,?,?,?)",
		p.AdminID, p.Name, p.Description, p.Price, p.Image, p.Stock, p.Status, p.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches one product with its seller fields.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx, productSelect+" WHERE p.id=?", id))
}

// GetByIDAndOwner fetches one product only when it belongs to ownerID. A
// missing product and a product owned by someone else are indistinguishable
// here; both come back as ErrProductNotFound.
func (r *ProductRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (Product, error) {
	return scanProduct(r.DB.QueryRowContext(ctx, productSelect+" WHERE p.id=? AND p.admin_id=?", id, ownerID))
}

// ListAvailable returns in-stock products, newest first. This is the public
// storefront query.
func (r *ProductRepo) ListAvailable(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.QueryContext(ctx, productSelect+" WHERE p.stock > 0 ORDER BY p.created_at DESC")
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ListByOwner returns the products of one account, newest first.
func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]Product, error) {
	rows, err := r.DB.QueryContext(ctx, productSelect+" WHERE p.admin_id=? ORDER BY p.created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ListAll returns every product, newest first. Super-admin only at the
// handler level.
func (r *ProductRepo) ListAll(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.QueryContext(ctx, productSelect+" ORDER BY p.created_at DESC")
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Update persists a merged product row, still scoped to the owner. Zero rows
// affected is not an error: the caller has already confirmed ownership and
// MySQL reports 0 when nothing changed.
func (r *ProductRepo) Update(ctx context.Context, p Product) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE products SET name=?, description=?, price=?, image=?, stock=?, status=? WHERE id=? AND admin_id=?",
		p.Name, p.Description, p.Price, p.Image, p.Stock, p.Status, p.ID, p.AdminID)
	return err
}

// DeleteOwned removes a product on behalf of caller: the owner may delete
// their own product, a super-admin anyone's. A foreign product yields
// ErrForbidden, a missing one ErrProductNotFound.
func (r *ProductRepo) DeleteOwned(ctx context.Context, id uint64, caller Account) error {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx, "SELECT admin_id FROM products WHERE id=? LIMIT 1", id).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}
	if !caller.IsSuperAdmin && ownerID != caller.ID {
		return ErrForbidden
	}
	return r.Delete(ctx, id)
}

// Delete removes a product by id unconditionally; DeleteOwned performs the
// ownership check first.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
