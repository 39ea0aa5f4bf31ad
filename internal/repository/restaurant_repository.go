package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-auth/internal/model"
)

// RestaurantRepo provides persistence for the restaurants table.
type RestaurantRepo struct{ DB *sql.DB }

func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{DB: db} }

// Create inserts a restaurant and returns its id.
func (r *RestaurantRepo) Create(ctx context.Context, name, address string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO restaurants (name, address) VALUES (?,?)", name, address)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a restaurant by id.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (model.Restaurant, error) {
	var t model.Restaurant
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,address,created_at,updated_at FROM restaurants WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.Name, &t.Address, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Restaurant{}, ErrNotFound
	}
	return t, err
}

// List returns a page of restaurants filtered by an optional name/address
// search term, together with the total match count.
func (r *RestaurantRepo) List(ctx context.Context, q string, page, items int) ([]model.Restaurant, int, error) {
	where := "1=1"
	args := []interface{}{}
	if q = strings.TrimSpace(q); q != "" {
		where += " AND (name LIKE ? OR address LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM restaurants WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if items < 1 {
		items = 10
	}
	args = append(args, items, (page-1)*items)
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,address,created_at,updated_at FROM restaurants WHERE "+where+" ORDER BY id DESC LIMIT ? OFFSET ?",
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []model.Restaurant
	for rows.Next() {
		var t model.Restaurant
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// Update rewrites a restaurant's name and address.
func (r *RestaurantRepo) Update(ctx context.Context, id uint64, name, address string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE restaurants SET name=?, address=? WHERE id=?", name, address, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a restaurant. The users.restaurant_id foreign key
// cascades, so the managers bound to it are removed with it.
func (r *RestaurantRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM restaurants WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
