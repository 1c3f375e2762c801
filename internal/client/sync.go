package client

import (
	"context"
	"sync"

	"github.com/minjae-ok/todo-sync/internal/model"
)

// Remote is the procedure surface the synchronizer mutates through.
// *Client satisfies it; tests substitute their own.
type Remote interface {
	All(ctx context.Context) ([]model.Todo, error)
	Add(ctx context.Context, label string) (model.Todo, error)
	Update(ctx context.Context, id string, changes model.TodoChanges) (model.Todo, error)
	Delete(ctx context.Context, id string) (model.Todo, error)
	DeleteCompleted(ctx context.Context) (int64, error)
}

// Synchronizer owns the locally cached todo list and reconciles it
// against the server. Mutations rewrite the cache optimistically before
// the call resolves; the cache is advisory and never a source of truth.
//
// Two techniques close the race between optimistic writes and
// background reads: every cache write bumps a generation counter so an
// in-flight refetch is discarded on arrival rather than overwriting
// newer local state, and the authoritative refetch is deferred until
// the in-flight mutation count drops back to zero.
type Synchronizer struct {
	remote Remote
	notify Notifier

	mu      sync.Mutex
	todos   []model.Todo
	gen     uint64 // bumped on every cache write; stale refetches compare against it
	pending int    // mutations currently in flight
}

func NewSynchronizer(remote Remote, notify Notifier) *Synchronizer {
	if notify == nil {
		notify = NotifierFuncs{}
	}
	return &Synchronizer{
		remote: remote,
		notify: notify,
	}
}

// Snapshot returns a copy of the cached list as currently rendered,
// including unconfirmed optimistic state.
func (s *Synchronizer) Snapshot() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Pending reports how many mutations are currently in flight.
func (s *Synchronizer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Refresh replaces the cache with the server's authoritative list. If
// a mutation touches the cache while the fetch is in flight, the
// response is discarded on arrival so it cannot undo the newer
// optimistic write.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	todos, err := s.remote.All(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Superseded while in flight; the settle refetch will follow up.
		return nil
	}
	s.todos = todos
	return nil
}

// Add creates a todo. No optimistic entry is inserted: an id must never
// be fabricated client-side, so the entry becomes visible only from the
// server-confirmed record. Pending() exposes the in-flight state for
// callers that want to render a placeholder.
func (s *Synchronizer) Add(ctx context.Context, label string) error {
	s.begin(nil)

	created, err := s.remote.Add(ctx, label)
	if err == nil {
		s.mu.Lock()
		s.gen++
		s.todos = append(s.todos, created)
		s.mu.Unlock()
		s.notify.Success("Todo added.")
	}

	return s.finish(ctx, err, "Could not add todo.", nil)
}

// Toggle optimistically flips the completion flag of the cached entry,
// then confirms with the server.
func (s *Synchronizer) Toggle(ctx context.Context, id string, completed bool) error {
	prev := s.beginRewrite(id, func(t *model.Todo) { t.Completed = completed })

	_, err := s.remote.Update(ctx, id, model.TodoChanges{Completed: &completed})
	if err == nil {
		s.notify.Success("Todo updated.")
	}

	return s.finish(ctx, err, "Could not update todo.", func() { s.restore(prev) })
}

// Edit optimistically rewrites the cached entry's label, then confirms
// with the server.
func (s *Synchronizer) Edit(ctx context.Context, id, label string) error {
	prev := s.beginRewrite(id, func(t *model.Todo) { t.Label = label })

	_, err := s.remote.Update(ctx, id, model.TodoChanges{Label: &label})
	if err == nil {
		s.notify.Success("Todo updated.")
	}

	return s.finish(ctx, err, "Could not update todo.", func() { s.restore(prev) })
}

// Delete optimistically removes the cached entry, then confirms with
// the server.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	var prev *model.Todo
	s.begin(func() {
		if i := s.index(id); i >= 0 {
			t := s.todos[i]
			prev = &t
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
		}
	})

	_, err := s.remote.Delete(ctx, id)
	if err == nil {
		s.notify.Success("Todo deleted.")
	}

	return s.finish(ctx, err, "Could not delete todo.", func() { s.restore(prev) })
}

// ClearCompleted optimistically drops every completed entry, then
// confirms with the server.
func (s *Synchronizer) ClearCompleted(ctx context.Context) error {
	var snapshot []model.Todo
	s.begin(func() {
		snapshot = make([]model.Todo, len(s.todos))
		copy(snapshot, s.todos)

		remaining := s.todos[:0]
		for _, t := range s.todos {
			if !t.Completed {
				remaining = append(remaining, t)
			}
		}
		s.todos = remaining
	})

	_, err := s.remote.DeleteCompleted(ctx)
	if err == nil {
		s.notify.Success("Completed todos cleared.")
	}

	return s.finish(ctx, err, "Could not clear completed todos.", func() {
		s.todos = snapshot
	})
}

// begin marks a mutation in flight and applies its optimistic write
// under the lock. The generation bump discards any refetch already in
// flight, so a stale pre-mutation response cannot land on top of the
// optimistic state.
func (s *Synchronizer) begin(apply func()) {
	s.mu.Lock()
	s.gen++
	s.pending++
	if apply != nil {
		apply()
	}
	s.mu.Unlock()
}

// beginRewrite is begin specialized to an in-place rewrite of one
// entry; it returns the entry's pre-image for rollback, or nil when the
// id is not cached.
func (s *Synchronizer) beginRewrite(id string, rewrite func(*model.Todo)) *model.Todo {
	var prev *model.Todo
	s.begin(func() {
		if i := s.index(id); i >= 0 {
			t := s.todos[i]
			prev = &t
			rewrite(&s.todos[i])
		}
	})
	return prev
}

// finish reconciles a completed mutation: on failure it rolls the
// optimistic write back to its pre-image and emits an error notice.
// Either way the in-flight count is decremented, and the mutation that
// brings it back to zero triggers one authoritative refetch.
func (s *Synchronizer) finish(ctx context.Context, err error, failMsg string, rollback func()) error {
	if err != nil {
		if rollback != nil {
			s.mu.Lock()
			s.gen++
			rollback()
			s.mu.Unlock()
		}
		s.notify.Error(failMsg)
	}

	s.mu.Lock()
	s.pending--
	settled := s.pending == 0
	s.mu.Unlock()

	if settled {
		// The mutation's own deadline may already be spent; the refetch
		// gets a fresh one.
		if rerr := s.Refresh(context.WithoutCancel(ctx)); rerr != nil {
			s.notify.Error("Could not refresh todos.")
		}
	}

	return err
}

// restore puts an entry's pre-image back, matching by id. Callers hold
// no lock; restore runs inside finish's rollback section which does.
func (s *Synchronizer) restore(prev *model.Todo) {
	if prev == nil {
		return
	}
	if i := s.index(prev.ID); i >= 0 {
		s.todos[i] = *prev
		return
	}
	s.todos = append(s.todos, *prev)
}

// index returns the cached position of id, or -1. Caller holds the lock.
func (s *Synchronizer) index(id string) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
