package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/metrics"
	"github.com/iliyamo/event-listing/internal/model"
	"github.com/iliyamo/event-listing/internal/queue"
	"github.com/iliyamo/event-listing/internal/repository"
	"github.com/iliyamo/event-listing/internal/upload"
)

// Listing defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// FlyerUploader stores a flyer and returns the URL it is served from.
type FlyerUploader interface {
	Upload(ctx context.Context, f upload.File) (string, error)
}

// EventInput carries the user-supplied fields of an event.
type EventInput struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=10000"`
}

// ListQuery selects a page of events.  A zero Limit means DefaultLimit.
type ListQuery struct {
	Title       string
	Description string
	Limit       int64
	Skip        int64
}

// EventService enforces the event rules: (title, owner) is unique, only the
// owner may replace or delete, and a flyer upload happens only after every
// cheaper check has passed.
type EventService struct {
	events    repository.EventStore
	uploader  FlyerUploader
	publisher queue.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewEventService(events repository.EventStore, uploader FlyerUploader, publisher queue.Publisher, logger zerolog.Logger) *EventService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &EventService{
		events:    events,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger.With().Str("component", "events").Logger(),
		now:       time.Now,
	}
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := model.ParseID(id)
	if err != nil {
		return bson.NilObjectID, newError(ErrInvalidID, "Invalid mongo id received!")
	}
	return oid, nil
}

func cleanInput(in EventInput) (EventInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in, checkStruct(in)
}

func (s *EventService) upload(ctx context.Context, flyer upload.File) (string, error) {
	url, err := s.uploader.Upload(ctx, flyer)
	if err != nil {
		metrics.FlyerUploadFailures.Inc()
		switch {
		case errors.Is(err, upload.ErrEmpty):
			return "", newError(ErrValidation, "flyer is required")
		case errors.Is(err, upload.ErrNotImage):
			return "", newError(ErrValidation, "flyer must be an image")
		}
		s.logger.Error().Err(err).Msg("flyer upload failed")
		return "", newError(ErrUpload, "Flyer upload failed")
	}
	return url, nil
}

func (s *EventService) publish(ctx context.Context, action string, ev *model.Event) {
	metrics.EventMutations.WithLabelValues(action).Inc()
	err := s.publisher.Publish(ctx, queue.EventActivity{
		Action:  action,
		EventID: ev.ID.Hex(),
		Owner:   ev.Owner,
		Title:   ev.Title,
		Flyer:   ev.Flyer,
		At:      s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("action", action).Str("event_id", ev.ID.Hex()).Msg("publish activity failed")
	}
}

func (s *EventService) ensureUnique(ctx context.Context, title, owner string) error {
	n, err := s.events.CountByTitleAndOwner(ctx, title, owner)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if n > 0 {
		return newError(ErrConflict, "Event with %s and %s already exist!", title, owner)
	}
	return nil
}

// Register creates an event owned by ownerID.  Uniqueness is checked before
// the flyer is uploaded so duplicate submissions never cost an upload.
func (s *EventService) Register(ctx context.Context, ownerID string, in EventInput, flyer upload.File) (bson.ObjectID, error) {
	in, err := cleanInput(in)
	if err != nil {
		return bson.NilObjectID, err
	}
	if err := s.ensureUnique(ctx, in.Title, ownerID); err != nil {
		return bson.NilObjectID, err
	}
	url, err := s.upload(ctx, flyer)
	if err != nil {
		return bson.NilObjectID, err
	}

	now := s.now().UTC()
	ev := &model.Event{
		Title:       in.Title,
		Description: in.Description,
		Flyer:       url,
		Owner:       ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.events.Insert(ctx, ev)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return bson.NilObjectID, newError(ErrConflict, "Event with %s and %s already exist!", in.Title, ownerID)
		}
		return bson.NilObjectID, fmt.Errorf("insert event: %w", err)
	}
	s.publish(ctx, queue.ActionCreated, ev)
	return id, nil
}

// List returns a page of events whose title or description contains the
// given filters, case-insensitively.
func (s *EventService) List(ctx context.Context, q ListQuery) ([]model.Event, error) {
	if q.Limit < 0 || q.Skip < 0 {
		return nil, newError(ErrValidation, "limit and skip must not be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	out, err := s.events.Find(ctx, repository.EventFilter{
		Title:       q.Title,
		Description: q.Description,
		Limit:       q.Limit,
		Skip:        q.Skip,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// Get returns one event.  A malformed id fails before the store is touched.
func (s *EventService) Get(ctx context.Context, id string) (*model.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, oid)
}

func (s *EventService) find(ctx context.Context, oid bson.ObjectID) (*model.Event, error) {
	ev, err := s.events.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Event not found!")
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return ev, nil
}

// owned loads the event and checks that callerID owns it.
func (s *EventService) owned(ctx context.Context, id, callerID string) (*model.Event, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	ev, err := s.find(ctx, oid)
	if err != nil {
		return nil, err
	}
	if ev.Owner != callerID {
		return nil, newError(ErrForbidden, "You do not own this event")
	}
	return ev, nil
}

// Replace overwrites title, description and flyer of an event owned by
// callerID.  The flyer is re-uploaded unconditionally.
func (s *EventService) Replace(ctx context.Context, id, callerID string, in EventInput, flyer upload.File) error {
	in, err := cleanInput(in)
	if err != nil {
		return err
	}
	ev, err := s.owned(ctx, id, callerID)
	if err != nil {
		return err
	}
	if in.Title != ev.Title {
		if err := s.ensureUnique(ctx, in.Title, ev.Owner); err != nil {
			return err
		}
	}
	url, err := s.upload(ctx, flyer)
	if err != nil {
		return err
	}

	ev.Title = in.Title
	ev.Description = in.Description
	ev.Flyer = url
	ev.UpdatedAt = s.now().UTC()
	if err := s.events.Replace(ctx, ev); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return newError(ErrNotFound, "Event not found!")
		case errors.Is(err, repository.ErrConflict):
			return newError(ErrConflict, "Event with %s and %s already exist!", in.Title, ev.Owner)
		}
		return fmt.Errorf("replace event: %w", err)
	}
	s.publish(ctx, queue.ActionReplaced, ev)
	return nil
}

// Delete removes an event owned by callerID.
func (s *EventService) Delete(ctx context.Context, id, callerID string) error {
	ev, err := s.owned(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return newError(ErrNotFound, "Sorry, no event found to delete!")
		}
		return err
	}
	n, err := s.events.Delete(ctx, ev.ID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return newError(ErrNotFound, "Sorry, no event found to delete!")
	}
	s.publish(ctx, queue.ActionDeleted, ev)
	return nil
}
