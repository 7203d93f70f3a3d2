package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestMySQLUserStore_InsertAssignsID(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLUserStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?,?,?,?,?)")).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash", CreatedAt: time.Now()}
	id, err := store.Insert(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, id.IsZero())
	assert.Equal(t, id, u.ID)
}

func TestMySQLUserStore_InsertDuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLUserStore(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	u := &model.User{Email: "a@b.co"}
	_, err := store.Insert(context.Background(), u)
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, u.ID.IsZero(), "failed insert leaves the id unset")
}

func TestMySQLUserStore_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLUserStore(db)
	id := bson.NewObjectID()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, email, password_hash, created_at FROM users WHERE email=? LIMIT 1")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(id.Hex(), "alice", "alice@example.com", "hash", now))

	u, err := store.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestMySQLUserStore_FindByEmailMissing(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLUserStore(db)

	mock.ExpectQuery("SELECT id, username").WillReturnError(sql.ErrNoRows)

	_, err := store.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLUserStore_CountByEmail(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLUserStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE email=?")).
		WithArgs("a@b.co").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	n, err := store.CountByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMySQLEventStore_FindBuildsOrFilter(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLEventStore(db)
	id := bson.NewObjectID()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+eventColumns+" FROM events WHERE LOWER(title) LIKE ? OR LOWER(description) LIKE ? ORDER BY id LIMIT ? OFFSET ?")).
		WithArgs("%gal%", `%50\%%`, int64(10), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "flyer", "owner", "created_at", "updated_at"}).
			AddRow(id.Hex(), "Gala", "night", "https://cdn/x.png", "owner-1", now, now))

	out, err := store.Find(context.Background(), EventFilter{Title: "GAL", Description: "50%", Limit: 10})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].ID)
	assert.Equal(t, "Gala", out[0].Title)
}

func TestMySQLEventStore_FindWithoutFilters(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLEventStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE 1=1 ORDER BY id LIMIT ? OFFSET ?")).
		WithArgs(int64(5), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "flyer", "owner", "created_at", "updated_at"}))

	out, err := store.Find(context.Background(), EventFilter{Limit: 5, Skip: 10})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestMySQLEventStore_FindByIDMissing(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLEventStore(db)
	id := bson.NewObjectID()

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id=? LIMIT 1")).
		WithArgs(id.Hex()).
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMySQLEventStore_Replace(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLEventStore(db)
	ev := &model.Event{ID: bson.NewObjectID(), Title: "New", Description: "d", Flyer: "f", Owner: "o", UpdatedAt: time.Now()}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET title=?, description=?, flyer=?, owner=?, updated_at=? WHERE id=?")).
		WithArgs("New", "d", "f", "o", sqlmock.AnyArg(), ev.ID.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Replace(context.Background(), ev), ErrNotFound)
}

func TestMySQLEventStore_Delete(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLEventStore(db)
	id := bson.NewObjectID()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id=?")).
		WithArgs(id.Hex()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id=?")).
		WithArgs(id.Hex()).
		WillReturnError(errors.New("connection reset"))

	n, err := store.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Delete(context.Background(), id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMySQLEventStore_InsertDuplicateIsConflict(t *testing.T) {
	db, mock := newMock(t)
	store := NewMySQLEventStore(db)

	mock.ExpectExec("INSERT INTO events").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Gala-owner'"})

	ev := &model.Event{Title: "Gala", Owner: "owner"}
	_, err := store.Insert(context.Background(), ev)
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, ev.ID.IsZero(), "failed insert leaves the id unset")
}
