package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/config"
	"github.com/phrazzld/flashlists/internal/domain"
	"github.com/phrazzld/flashlists/internal/events"
	"github.com/phrazzld/flashlists/internal/platform/mailer"
	"github.com/phrazzld/flashlists/internal/service/auth"
	"github.com/phrazzld/flashlists/internal/store"
	"github.com/phrazzld/flashlists/internal/task"
	"golang.org/x/crypto/bcrypt"
)

// fakeTx runs fn directly; the in-memory stores ignore tx.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	f.calls++
	return fn(ctx, nil)
}

// memUserStore is an in-memory store.UserStore.
type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User

	// GetByEmailErr overrides GetByEmail when set.
	GetByEmailErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]domain.User)}
}

func (m *memUserStore) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	user.HashedPassword = string(hash)
	user.Password = ""
	m.users[user.ID] = *user
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.GetByEmailErr != nil {
		return nil, m.GetByEmailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memUserStore) MarkVerified(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Verified = true
	m.users[id] = u
	return nil
}

func (m *memUserStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) DeleteUnverifiedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, u := range m.users {
		if !u.Verified && u.CreatedAt.Before(cutoff) {
			delete(m.users, id)
			n++
		}
	}
	return n, nil
}

func (m *memUserStore) WithTx(*sql.Tx) store.UserStore { return m }

// memFolderStore is an in-memory store.FolderStore.
type memFolderStore struct {
	mu      sync.Mutex
	folders map[uuid.UUID]domain.Folder
	lists   *memListStore
}

func newMemFolderStore(lists *memListStore) *memFolderStore {
	return &memFolderStore{folders: make(map[uuid.UUID]domain.Folder), lists: lists}
}

func (m *memFolderStore) Create(_ context.Context, f *domain.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders[f.ID] = *f
	return nil
}

func (m *memFolderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.folders[id]
	if !ok {
		return nil, store.ErrFolderNotFound
	}
	return &f, nil
}

func (m *memFolderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Folder{}
	for _, f := range m.folders {
		if f.UserID == userID {
			f := f
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memFolderStore) Rename(_ context.Context, f *domain.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.folders[f.ID]; !ok {
		return store.ErrFolderNotFound
	}
	m.folders[f.ID] = *f
	return nil
}

func (m *memFolderStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.folders[id]; !ok {
		return store.ErrFolderNotFound
	}
	delete(m.folders, id)
	if m.lists != nil {
		m.lists.deleteFolder(id)
	}
	return nil
}

func (m *memFolderStore) WithTx(*sql.Tx) store.FolderStore { return m }

// memListStore is an in-memory store.ListStore.
type memListStore struct {
	mu    sync.Mutex
	lists map[uuid.UUID]domain.List
}

func newMemListStore() *memListStore {
	return &memListStore{lists: make(map[uuid.UUID]domain.List)}
}

func (m *memListStore) Create(_ context.Context, l *domain.List) error {
	if err := l.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[l.ID] = *l
	return nil
}

func (m *memListStore) GetByID(_ context.Context, id uuid.UUID) (*domain.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[id]
	if !ok {
		return nil, store.ErrListNotFound
	}
	return &l, nil
}

func (m *memListStore) ListByFolder(_ context.Context, folderID uuid.UUID) ([]*domain.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.List{}
	for _, l := range m.lists {
		if l.FolderID == folderID {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memListStore) Update(_ context.Context, l *domain.List) error {
	if err := l.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[l.ID]; !ok {
		return store.ErrListNotFound
	}
	m.lists[l.ID] = *l
	return nil
}

func (m *memListStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[id]; !ok {
		return store.ErrListNotFound
	}
	delete(m.lists, id)
	return nil
}

func (m *memListStore) deleteFolder(folderID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.lists {
		if l.FolderID == folderID {
			delete(m.lists, id)
		}
	}
}

func (m *memListStore) WithTx(*sql.Tx) store.ListStore { return m }

// recordingEmitter keeps every emitted event.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*events.ListsUpdatedEvent
	err    error
}

func (r *recordingEmitter) EmitEvent(_ context.Context, e *events.ListsUpdatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingEmitter) reasons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Reason
	}
	return out
}

// recordingQueue keeps every enqueued task.
type recordingQueue struct {
	tasks []task.Task
	err   error
}

func (q *recordingQueue) Enqueue(t task.Task) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, t)
	return nil
}

func (q *recordingQueue) lastMessage() mailer.Message {
	return q.tasks[len(q.tasks)-1].(*task.MailTask).Message()
}

func newTestTokens() auth.JWTService {
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                  "service-test-secret-long-enough-1234567890",
		TokenLifetimeMinutes:       60,
		VerifyTokenLifetimeMinutes: 60,
		ResetTokenLifetimeMinutes:  60,
	})
	if err != nil {
		panic(err)
	}
	return svc
}
