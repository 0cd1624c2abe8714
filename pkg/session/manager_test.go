package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/fomod/pkg/adapters/memory"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/ports"
	"github.com/aretw0/fomod/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.Snapshot
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.Snapshot)
	}
	s.data[snap.ID] = snap.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap, ok := s.data[sessionID]; ok {
		return snap.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func snapshot(id string) *domain.Snapshot {
	return &domain.Snapshot{
		ID:           id,
		ModuleConfig: []byte("<config/>"),
		Selections:   map[string]map[string][]int{},
	}
}

func TestManager_UpdateIsSerialized(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	require.NoError(t, manager.Create(ctx, snapshot(id)))

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Every update is a read-modify-write of Cursor; lost updates would
	// leave the counter short.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Update(ctx, id, func(s *domain.Snapshot) (*domain.Snapshot, error) {
				s.Cursor++
				return s, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, concurrentWrites, snap.Cursor)
}

func TestManager_Create(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, manager.Create(ctx, snapshot("a")))

	err := manager.Create(ctx, snapshot("a"))
	assert.ErrorIs(t, err, domain.ErrSessionExists)

	err = manager.Create(ctx, snapshot(""))
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}

func TestManager_UpdateFailureSavesNothing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, manager.Create(ctx, snapshot("s")))

	boom := errors.New("boom")
	_, err := manager.Update(ctx, "s", func(s *domain.Snapshot) (*domain.Snapshot, error) {
		s.Cursor = 7
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	snap, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Cursor)
}

func TestManager_UpdateMissing(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	_, err := manager.Update(context.Background(), "ghost", func(s *domain.Snapshot) (*domain.Snapshot, error) {
		t.Fatal("fn must not run for a missing session")
		return s, nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, manager.Create(ctx, snapshot("one")))
	require.NoError(t, manager.Create(ctx, snapshot("two")))

	ids, err := manager.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, ids)

	require.NoError(t, manager.Delete(ctx, "one"))
	_, err = manager.Load(ctx, "one")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

type recordingLocker struct {
	mu       sync.Mutex
	keys     []string
	ttls     []time.Duration
	unlocked int
	fail     error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		l.unlocked++
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	manager := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	require.NoError(t, manager.Create(ctx, snapshot("s")))
	_, err := manager.Load(ctx, "s")
	require.NoError(t, err)

	assert.Equal(t, []string{"s", "s"}, locker.keys)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, locker.ttls)
	assert.Equal(t, 2, locker.unlocked)
}

func TestManager_DistributedLockerFailure(t *testing.T) {
	locker := &recordingLocker{fail: errors.New("redis down")}
	manager := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	err := manager.Save(context.Background(), snapshot("s"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire distributed lock")
}
