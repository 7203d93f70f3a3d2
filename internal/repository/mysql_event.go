package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/model"
)

// MySQLEventStore mirrors the 'events' table.
type MySQLEventStore struct{ DB *sql.DB }

func NewMySQLEventStore(db *sql.DB) *MySQLEventStore { return &MySQLEventStore{DB: db} }

const eventColumns = "id, title, description, flyer, owner, created_at, updated_at"

func (r *MySQLEventStore) CountByTitleAndOwner(ctx context.Context, title, owner string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events WHERE title=? AND owner=?", title, owner).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (r *MySQLEventStore) Insert(ctx context.Context, ev *model.Event) (bson.ObjectID, error) {
	id := ev.ID
	if id.IsZero() {
		id = bson.NewObjectID()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO events ("+eventColumns+") VALUES (?,?,?,?,?,?,?)",
		id.Hex(), ev.Title, ev.Description, ev.Flyer, ev.Owner, ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return bson.NilObjectID, ErrConflict
		}
		return bson.NilObjectID, fmt.Errorf("insert event: %w", err)
	}
	ev.ID = id
	return id, nil
}

// likePattern lower-cases s and escapes LIKE wildcards so it matches literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func (r *MySQLEventStore) Find(ctx context.Context, f EventFilter) ([]model.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Title != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, likePattern(f.Title))
	}
	if f.Description != "" {
		where = append(where, "LOWER(description) LIKE ?")
		args = append(args, likePattern(f.Description))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " OR ")
	}
	args = append(args, f.Limit, f.Skip)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE "+cond+" ORDER BY id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanEvent(s rowScanner) (*model.Event, error) {
	var (
		ev model.Event
		id string
	)
	if err := s.Scan(&id, &ev.Title, &ev.Description, &ev.Flyer, &ev.Owner, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return nil, err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt event id %q: %w", id, err)
	}
	ev.ID = oid
	return &ev, nil
}

func (r *MySQLEventStore) FindByID(ctx context.Context, id bson.ObjectID) (*model.Event, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id.Hex())
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return ev, nil
}

func (r *MySQLEventStore) Replace(ctx context.Context, ev *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET title=?, description=?, flyer=?, owner=?, updated_at=? WHERE id=?",
		ev.Title, ev.Description, ev.Flyer, ev.Owner, ev.UpdatedAt, ev.ID.Hex())
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrConflict
		}
		return fmt.Errorf("replace event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace event: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLEventStore) Delete(ctx context.Context, id bson.ObjectID) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id.Hex())
	if err != nil {
		return 0, fmt.Errorf("delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete event: %w", err)
	}
	return n, nil
}
