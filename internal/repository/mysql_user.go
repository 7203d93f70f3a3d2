package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// MySQLUserStore mirrors the 'users' table.  Ids are object ids generated by
// the application and stored as CHAR(24) so that both drivers share one id
// scheme.
type MySQLUserStore struct{ DB *sql.DB }

func NewMySQLUserStore(db *sql.DB) *MySQLUserStore { return &MySQLUserStore{DB: db} }

func (r *MySQLUserStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email=?", email).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *MySQLUserStore) Insert(ctx context.Context, u *model.User) (bson.ObjectID, error) {
	id := u.ID
	if id.IsZero() {
		id = bson.NewObjectID()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?,?,?,?,?)",
		id.Hex(), u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return bson.NilObjectID, ErrConflict
		}
		return bson.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return id, nil
}

func (r *MySQLUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var (
		u  model.User
		id string
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u.ID, err = bson.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", id, err)
	}
	return &u, nil
}
