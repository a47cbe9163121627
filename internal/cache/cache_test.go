package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("unreachable")
}

func (failingBackend) Set(context.Context, string, []byte, []string) error {
	return errors.New("unreachable")
}
func (failingBackend) Delete(context.Context, ...string) error         { return nil }
func (failingBackend) InvalidateTags(context.Context, ...string) error { return nil }
func (failingBackend) Close() error                                    { return nil }

func newRedisBackend(t *testing.T) *Redis {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})

	return NewRedis(client, "test:", time.Minute)
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	return map[string]Backend{
		"memory": NewMemory(64, time.Minute),
		"redis":  newRedisBackend(t),
	}
}

func TestBackends(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := backend.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, backend.Set(ctx, "a", []byte("1"), []string{"t1"}))
			require.NoError(t, backend.Set(ctx, "b", []byte("2"), []string{"t1", "t2"}))
			require.NoError(t, backend.Set(ctx, "c", []byte("3"), []string{"t2"}))
			require.NoError(t, backend.Set(ctx, "d", []byte("4"), nil))

			value, found, err := backend.Get(ctx, "b")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("2"), value)

			require.NoError(t, backend.InvalidateTags(ctx, "t1"))

			for key, want := range map[string]bool{"a": false, "b": false, "c": true, "d": true} {
				_, found, err = backend.Get(ctx, key)
				require.NoError(t, err)
				assert.Equal(t, want, found, key)
			}

			require.NoError(t, backend.Delete(ctx, "d"))
			_, found, err = backend.Get(ctx, "d")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, backend.InvalidateTags(ctx, "unknown"))
			require.NoError(t, backend.Close())
		})
	}
}

func TestRememberComputesOnce(t *testing.T) {
	ctx := context.Background()

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			c := New(backend)

			var calls int32

			compute := func(context.Context) (map[string][]string, error) {
				atomic.AddInt32(&calls, 1)
				return map[string][]string{"UserController": {"getUsers"}}, nil
			}

			for i := 0; i < 3; i++ {
				value, err := Remember(ctx, c, "userPermissions-1", []string{"userPermissions"}, compute)
				require.NoError(t, err)
				assert.Equal(t, []string{"getUsers"}, value["UserController"])
			}

			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

			require.NoError(t, c.InvalidateTags(ctx, "userPermissions"))

			_, err := Remember(ctx, c, "userPermissions-1", []string{"userPermissions"}, compute)
			require.NoError(t, err)
			assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

			require.NoError(t, c.Delete(ctx, "userPermissions-1"))

			_, err = Remember(ctx, c, "userPermissions-1", nil, compute)
			require.NoError(t, err)
			assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
		})
	}
}

func TestRememberConcurrentMiss(t *testing.T) {
	c := New(NewMemory(64, time.Minute))

	var (
		calls int32
		wg    sync.WaitGroup
		gate  = make(chan struct{})
	)

	compute := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-gate

		return 42, nil
	}

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			value, err := Remember(context.Background(), c, "k", nil, compute)
			assert.NoError(t, err)
			assert.Equal(t, 42, value)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestRememberSurvivesCanceledLeader(t *testing.T) {
	c := New(NewMemory(64, time.Minute))

	var (
		started = make(chan struct{})
		gate    = make(chan struct{})
		once    sync.Once
	)

	compute := func(ctx context.Context) (int, error) {
		once.Do(func() { close(started) })
		<-gate

		if err := ctx.Err(); err != nil {
			return 0, err
		}

		return 42, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		_, _ = Remember(leaderCtx, c, "k", nil, compute)
	}()

	<-started

	var (
		value int
		err   error
	)

	go func() {
		defer wg.Done()

		value, err = Remember(context.Background(), c, "k", nil, compute)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	close(gate)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

// afterFirstCommand runs fn once, right after the first command completed while armed.
type afterFirstCommand struct {
	armed atomic.Bool
	fn    func()
}

func (h *afterFirstCommand) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *afterFirstCommand) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if h.armed.CompareAndSwap(true, false) {
			h.fn()
		}

		return err
	}
}

func (h *afterFirstCommand) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisInvalidateTagsWithConcurrentSet(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	invalidating := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	writer := NewRedis(redis.NewClient(&redis.Options{Addr: srv.Addr()}), "test:", 0)
	backend := NewRedis(invalidating, "test:", 0)

	require.NoError(t, backend.Set(ctx, "role-ROLE_VIEWER", []byte("old"), []string{"rolePermissionsCache"}))

	hook := &afterFirstCommand{fn: func() {
		assert.NoError(t, writer.Set(ctx, "role-ROLE_EDITOR", []byte("new"), []string{"rolePermissionsCache"}))
	}}
	invalidating.AddHook(hook)
	hook.armed.Store(true)

	require.NoError(t, backend.InvalidateTags(ctx, "rolePermissionsCache"))

	_, found, err := backend.Get(ctx, "role-ROLE_VIEWER")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, writer.InvalidateTags(ctx, "rolePermissionsCache"))

	_, found, err = backend.Get(ctx, "role-ROLE_EDITOR")
	require.NoError(t, err)
	assert.False(t, found, "an entry written during an invalidation stays linked to its tag")
}

func TestRememberErrors(t *testing.T) {
	ctx := context.Background()
	errCompute := errors.New("compute failed")

	c := New(NewMemory(64, time.Minute))

	_, err := Remember(ctx, c, "k", nil, func(context.Context) (string, error) {
		return "", errCompute
	})
	require.ErrorIs(t, err, errCompute)

	_, found, err := c.backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found, "failed computations must not be cached")

	value, err := Remember(ctx, New(failingBackend{}), "k", nil, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)

	value, err = Remember(ctx, nil, "k", nil, func(context.Context) (string, error) {
		return "uncached", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "uncached", value)
}

func TestNewPanicsWithoutBackend(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilBackend, func() { New(nil) })
}
