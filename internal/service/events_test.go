package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/model"
	"github.com/iliyamo/event-listing/internal/queue"
	"github.com/iliyamo/event-listing/internal/repository"
	"github.com/iliyamo/event-listing/internal/repository/memstore"
	"github.com/iliyamo/event-listing/internal/upload"
)

const (
	ownerA = "65a000000000000000000001"
	ownerB = "65a000000000000000000002"
)

type eventFixture struct {
	svc      *EventService
	store    *memstore.Events
	uploader *fakeUploader
	pub      *fakePublisher
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	f := &eventFixture{store: memstore.NewEvents(), uploader: &fakeUploader{}, pub: &fakePublisher{}}
	f.svc = NewEventService(f.store, f.uploader, f.pub, zerolog.Nop())
	return f
}

func flyer(name string) upload.File {
	return upload.File{Name: name, Size: 4, Body: strings.NewReader("\x89PNG")}
}

func (f *eventFixture) register(t *testing.T, owner, title, desc string) bson.ObjectID {
	t.Helper()
	id, err := f.svc.Register(context.Background(), owner, EventInput{Title: title, Description: desc}, flyer(title+".png"))
	require.NoError(t, err)
	return id
}

func TestRegisterEvent_UniquePerOwner(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	f.register(t, ownerA, "Gala", "annual gala")

	_, err := f.svc.Register(ctx, ownerA, EventInput{Title: "Gala"}, flyer("again.png"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, f.uploader.Calls(), "duplicate is rejected before uploading")

	_, err = f.svc.Register(ctx, ownerB, EventInput{Title: "Gala"}, flyer("b.png"))
	assert.NoError(t, err)
	assert.Equal(t, []string{queue.ActionCreated, queue.ActionCreated}, f.pub.Actions())
}

func TestRegisterEvent_UploadFailure(t *testing.T) {
	f := newEventFixture(t)
	f.uploader.err = errors.New("bucket unreachable")

	_, err := f.svc.Register(context.Background(), ownerA, EventInput{Title: "Gala"}, flyer("g.png"))
	assert.ErrorIs(t, err, ErrUpload)

	out, err := f.svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, out, "nothing is persisted")
}

func TestRegisterEvent_RejectedFlyerKinds(t *testing.T) {
	f := newEventFixture(t)
	f.uploader.err = upload.ErrNotImage
	_, err := f.svc.Register(context.Background(), ownerA, EventInput{Title: "Gala"}, flyer("g.txt"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrUpload)
	assert.Equal(t, "flyer must be an image", Message(err, ""))

	f.uploader.err = upload.ErrEmpty
	_, err = f.svc.Register(context.Background(), ownerA, EventInput{Title: "Gala"}, upload.File{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterEvent_RequiresTitle(t *testing.T) {
	f := newEventFixture(t)
	_, err := f.svc.Register(context.Background(), ownerA, EventInput{Title: "   "}, flyer("g.png"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.uploader.Calls())
}

func TestRegisterEvent_PublishFailureDoesNotFail(t *testing.T) {
	f := newEventFixture(t)
	f.pub.err = errors.New("broker down")
	_, err := f.svc.Register(context.Background(), ownerA, EventInput{Title: "Gala"}, flyer("g.png"))
	assert.NoError(t, err)
}

func TestListEvents(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	f.register(t, ownerA, "Gala", "black tie")
	f.register(t, ownerA, "Jazz Night", "live music at the GALLERY")
	f.register(t, ownerB, "Book Club", "monthly meetup")

	out, err := f.svc.List(ctx, ListQuery{Title: "gal"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Gala", out[0].Title)

	out, err = f.svc.List(ctx, ListQuery{Title: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = f.svc.List(ctx, ListQuery{Title: "book", Description: "gallery"})
	require.NoError(t, err)
	assert.Len(t, out, 2, "title OR description")

	out, err = f.svc.List(ctx, ListQuery{Limit: 2, Skip: 1})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Jazz Night", out[0].Title)

	_, err = f.svc.List(ctx, ListQuery{Limit: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

// countingStore records FindByID calls to prove invalid ids never reach it.
type countingStore struct {
	repository.EventStore
	finds int
}

func (c *countingStore) FindByID(ctx context.Context, id bson.ObjectID) (*model.Event, error) {
	c.finds++
	return c.EventStore.FindByID(ctx, id)
}

func TestInvalidIDFailsBeforeStore(t *testing.T) {
	store := &countingStore{EventStore: memstore.NewEvents()}
	svc := NewEventService(store, &fakeUploader{}, nil, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, svc.Delete(ctx, "not-an-id", ownerA), ErrInvalidID)
	assert.ErrorIs(t, svc.Replace(ctx, "xyz", ownerA, EventInput{Title: "t"}, flyer("f.png")), ErrInvalidID)
	assert.Zero(t, store.finds)
}

func TestGetAndDeleteMissing(t *testing.T) {
	f := newEventFixture(t)
	missing := bson.NewObjectID().Hex()

	_, err := f.svc.Get(context.Background(), missing)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.svc.Delete(context.Background(), missing, ownerA)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Sorry, no event found to delete!", Message(err, ""))
}

func TestDeleteEvent_OwnerOnly(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	id := f.register(t, ownerA, "Gala", "")

	assert.ErrorIs(t, f.svc.Delete(ctx, id.Hex(), ownerB), ErrForbidden)
	_, err := f.svc.Get(ctx, id.Hex())
	require.NoError(t, err, "still there")

	require.NoError(t, f.svc.Delete(ctx, id.Hex(), ownerA))
	_, err = f.svc.Get(ctx, id.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{queue.ActionCreated, queue.ActionDeleted}, f.pub.Actions())
}

func TestReplaceEvent(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()
	id := f.register(t, ownerA, "Gala", "old")
	f.register(t, ownerA, "Jazz", "")

	err := f.svc.Replace(ctx, id.Hex(), ownerB, EventInput{Title: "Hijack", Description: "mine now"}, flyer("h.png"))
	assert.ErrorIs(t, err, ErrForbidden)

	unchanged, err := f.svc.Get(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Gala", unchanged.Title)
	assert.Equal(t, "old", unchanged.Description)
	assert.Equal(t, "https://cdn.example.com/flyers/Gala.png", unchanged.Flyer)
	assert.Equal(t, ownerA, unchanged.Owner)

	err = f.svc.Replace(ctx, id.Hex(), ownerA, EventInput{Title: "Jazz"}, flyer("j.png"))
	assert.ErrorIs(t, err, ErrConflict)

	uploadsBefore := f.uploader.Calls()
	require.NoError(t, f.svc.Replace(ctx, id.Hex(), ownerA, EventInput{Title: "Gala", Description: "new"}, flyer("gala2.png")))
	assert.Equal(t, uploadsBefore+1, f.uploader.Calls(), "flyer is re-uploaded even when the title is unchanged")

	ev, err := f.svc.Get(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "new", ev.Description)
	assert.Equal(t, ownerA, ev.Owner)
	assert.Equal(t, "https://cdn.example.com/flyers/gala2.png", ev.Flyer)
}
