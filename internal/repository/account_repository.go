package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/raniadwi/recycle-market/internal/utils"
)

// Account mirrors the 'admins' table. PasswordHash is populated only by
// GetByEmail (the login path); every other accessor leaves it empty so the
// hash never travels further than credential verification.
type Account struct {
	ID           uint64
	Name         string
	Email        string
	Phone        string
	Location     string
	PasswordHash string
	IsSuperAdmin bool
}

type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create hashes the password and inserts a new account. The email is checked
// first and again enforced by the unique index, so a concurrent duplicate
// registration still surfaces as ErrEmailExists rather than a raw driver
// error. New accounts are never super-admins; that flag is only ever set by
// hand in the database.
func (r *AccountRepo) Create(ctx context.Context, name, email, phone, location, password string, cost int) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM admins WHERE email=? LIMIT 1", email).Scan(&existing)
	if err == nil {
		return Account{}, ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Account{}, err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return Account{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (name, email, phone, location, password_hash) VALUES (?,?,?,?,?)",
		name, email, phone, location, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return Account{}, ErrEmailExists
		}
		return Account{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Account{}, err
	}
	return Account{
		ID:       uint64(id),
		Name:     name,
		Email:    email,
		Phone:    phone,
		Location: location,
	}, nil
}

// GetByEmail fetches an account by normalized email, including the password
// hash. Used only by login.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,phone,location,password_hash,is_super_admin FROM admins WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Location, &a.PasswordHash, &a.IsSuperAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}

// GetByID fetches an account by id without the password hash. Used by the
// auth middleware after token verification.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (Account, error) {
	var a Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,phone,location,is_super_admin FROM admins WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Location, &a.IsSuperAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	return a, err
}

// ListAll returns every account ascending by id, without password hashes.
func (r *AccountRepo) ListAll(ctx context.Context) ([]Account, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,phone,location,is_super_admin FROM admins ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Account, 0)
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Location, &a.IsSuperAdmin); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an account by id. Dependent products go with it via the
// cascading foreign key. Returns ErrAccountNotFound when no row matched.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM admins WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}
