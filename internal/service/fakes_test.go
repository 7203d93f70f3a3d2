package service

import (
	"context"
	"io"
	"sync"

	"github.com/iliyamo/event-listing/internal/queue"
	"github.com/iliyamo/event-listing/internal/upload"
)

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, file upload.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if file.Body != nil {
		_, _ = io.Copy(io.Discard, file.Body)
	}
	return "https://cdn.example.com/flyers/" + file.Name, nil
}

func (f *fakeUploader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []queue.EventActivity
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, a queue.EventActivity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, a)
	return f.err
}

func (f *fakePublisher) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		out = append(out, m.Action)
	}
	return out
}
