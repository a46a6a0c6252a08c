package agent

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch/pkg/types"
)

func TestResponseQueue_FIFO(t *testing.T) {
	r := NewResponseQueue()

	qs := []*Query{
		NewQuery(types.OpRead, fakeType, nil),
		NewQuery(types.OpRead, fakeType, nil),
		NewQuery(types.OpRead, fakeType, nil),
	}
	for _, q := range qs {
		require.True(t, r.Push(q))
	}
	assert.Equal(t, 3, r.Len())

	for _, want := range qs {
		got, err := r.Pop(context.Background())
		require.NoError(t, err)
		assert.Same(t, want, got)
	}
	assert.Equal(t, 0, r.Len())
}

func TestResponseQueue_PopBlocksUntilPush(t *testing.T) {
	r := NewResponseQueue()
	q := NewQuery(types.OpRead, fakeType, nil)

	done := make(chan *Query, 1)
	go func() {
		got, err := r.Pop(context.Background())
		if err == nil {
			done <- got
		}
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before Push")
	case <-time.After(20 * time.Millisecond):
	}

	r.Push(q)
	select {
	case got := <-done:
		assert.Same(t, q, got)
	case <-time.After(2 * time.Second):
		t.Fatal("Pop did not wake up")
	}
}

func TestResponseQueue_PopContextCancel(t *testing.T) {
	r := NewResponseQueue()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := r.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResponseQueue_CloseDrainsFirst(t *testing.T) {
	r := NewResponseQueue()
	q := NewQuery(types.OpRead, fakeType, nil)
	r.Push(q)

	r.Close()
	r.Close()
	assert.False(t, r.Push(NewQuery(types.OpRead, fakeType, nil)))

	got, err := r.Pop(context.Background())
	require.NoError(t, err)
	assert.Same(t, q, got)

	_, err = r.Pop(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestResponseQueue_ConcurrentPushClose(t *testing.T) {
	r := NewResponseQueue()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Push(NewQuery(types.OpRead, fakeType, nil))
			}
		}()
	}
	r.Close()
	wg.Wait()

	n := 0
	for {
		if _, err := r.Pop(context.Background()); err != nil {
			assert.ErrorIs(t, err, ErrClosed)
			break
		}
		n++
	}
	assert.LessOrEqual(t, n, 800)
}

func TestQuery_NeedsNext(t *testing.T) {
	q := NewQuery(types.OpQuery, fakeType, nil)
	q.Status = types.StatusOK
	q.More = true
	assert.True(t, q.NeedsNext())

	q.Count = 2
	q.Rows = 2
	assert.False(t, q.NeedsNext(), "count reached")

	q.Rows = 1
	assert.True(t, q.NeedsNext())

	q.More = false
	assert.False(t, q.NeedsNext())

	r := NewQuery(types.OpRead, fakeType, nil)
	r.Status = types.StatusOK
	r.More = true
	assert.False(t, r.NeedsNext())
}

func TestNewQuery_AssignsID(t *testing.T) {
	a := NewQuery(types.OpRead, fakeType, nil)
	b := NewQuery(types.OpRead, fakeType, nil)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.HasBody())
}
