// Package repository contains data access logic separated from HTTP handlers.
// This file holds repository methods for guest records. A Customer may hold
// any number of reservations over time; deletion is blocked while dependent
// reservations exist so that billing history stays reconstructible.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-operations/internal/model"
)

// ErrCustomerNotFound is returned when a customer cannot be found in the DB.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepo encapsulates all database queries related to customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// Create inserts a new customer. On success the ID field is populated
// with the auto-generated value and a follow-up SELECT fills the
// timestamp fields so callers receive a fully populated record.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const qInsert = "INSERT INTO customers (full_name, email, phone) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.FullName, c.Email, c.Phone)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT full_name, email, phone, created_at, updated_at FROM customers WHERE id = ?"
	if err := r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.FullName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	return nil
}

// GetByID fetches a customer by id. Returns ErrCustomerNotFound when
// no row exists.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = "SELECT id, full_name, email, phone, created_at, updated_at FROM customers WHERE id = ?"
	var c model.Customer
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by id.
func (r *CustomerRepo) List(ctx context.Context) ([]*model.Customer, error) {
	const q = `SELECT id, full_name, email, phone, created_at, updated_at
	           FROM customers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		c := new(model.Customer)
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites name, email and phone of an existing customer.
// It returns ErrCustomerNotFound when no row is affected and
// ErrEmailExists when the new email collides with another record.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	const q = `UPDATE customers
	           SET full_name = ?, email = ?, phone = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.FullName, c.Email, c.Phone, c.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "row unchanged" from "row missing"; MySQL reports
		// zero affected rows for both.
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM customers WHERE id = ?)", c.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrCustomerNotFound
		}
	}
	return nil
}

// Delete removes a customer without reservations. When dependent
// reservations exist, ErrInUse is returned and nothing is deleted.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE customer_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// CountAll returns the number of customer records. Used by the
// analytics report.
func (r *CustomerRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&n)
	return n, err
}
