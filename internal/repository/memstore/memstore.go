// Package memstore is an in-process implementation of the repository stores.
// It enforces the same unique keys as the database indexes and is used by the
// test suites and by STORE_DRIVER=memory for local runs.
package memstore

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/model"
	"github.com/iliyamo/event-listing/internal/repository"
)

type Users struct {
	mu    sync.Mutex
	users []model.User
}

func NewUsers() *Users { return &Users{} }

func (s *Users) CountByEmail(_ context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.Email == email {
			n++
		}
	}
	return n, nil
}

func (s *Users) Insert(_ context.Context, u *model.User) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return bson.NilObjectID, repository.ErrConflict
		}
	}
	row := *u
	if row.ID.IsZero() {
		row.ID = bson.NewObjectID()
	}
	s.users = append(s.users, row)
	u.ID = row.ID
	return row.ID, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type Events struct {
	mu     sync.Mutex
	events []model.Event
}

func NewEvents() *Events { return &Events{} }

func (s *Events) CountByTitleAndOwner(_ context.Context, title, owner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, ev := range s.events {
		if ev.Title == title && ev.Owner == owner {
			n++
		}
	}
	return n, nil
}

// duplicateLocked reports whether an event other than ev shares its
// (title, owner).  A zero ev.ID matches no stored event.
func (s *Events) duplicateLocked(ev *model.Event) bool {
	for _, other := range s.events {
		if other.ID != ev.ID && other.Title == ev.Title && other.Owner == ev.Owner {
			return true
		}
	}
	return false
}

func (s *Events) Insert(_ context.Context, ev *model.Event) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.duplicateLocked(ev) {
		return bson.NilObjectID, repository.ErrConflict
	}
	row := *ev
	if row.ID.IsZero() {
		row.ID = bson.NewObjectID()
	}
	s.events = append(s.events, row)
	ev.ID = row.ID
	return row.ID, nil
}

func matches(ev model.Event, f repository.EventFilter) bool {
	if f.Title == "" && f.Description == "" {
		return true
	}
	if f.Title != "" && strings.Contains(strings.ToLower(ev.Title), strings.ToLower(f.Title)) {
		return true
	}
	return f.Description != "" && strings.Contains(strings.ToLower(ev.Description), strings.ToLower(f.Description))
}

func (s *Events) Find(_ context.Context, f repository.EventFilter) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Event{}
	var skipped int64
	for _, ev := range s.events {
		if !matches(ev, f) {
			continue
		}
		if skipped < f.Skip {
			skipped++
			continue
		}
		if f.Limit > 0 && int64(len(out)) >= f.Limit {
			break
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s *Events) FindByID(_ context.Context, id bson.ObjectID) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID == id {
			cp := ev
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Events) Replace(_ context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID != ev.ID {
			continue
		}
		if s.duplicateLocked(ev) {
			return repository.ErrConflict
		}
		s.events[i] = *ev
		return nil
	}
	return repository.ErrNotFound
}

func (s *Events) Delete(_ context.Context, id bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

var (
	_ repository.UserStore  = (*Users)(nil)
	_ repository.EventStore = (*Events)(nil)
)
