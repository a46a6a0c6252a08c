package addrconfig

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch/pkg/types"
)

func seed(t *testing.T, p *pipeline, n int) []*AddressConfig {
	t.Helper()
	out := make([]*AddressConfig, 0, n)
	for i := 0; i < n; i++ {
		res := p.life.Create(nil, body(t, map[string]any{"prefix": "p" + strconv.Itoa(i) + "."}))
		require.True(t, res.OK())
		out = append(out, res.Entity)
	}
	return out
}

// walk 模拟分页客户端：get-first(offset) 后不断 get-next 直到 more=false
func walk(x *Executor, offset int, between func(step int)) []*AddressConfig {
	var seen []*AddressConfig

	page := x.First(offset)
	step := 0
	for page.Entity != nil {
		seen = append(seen, page.Entity)
		if !page.More {
			break
		}
		if between != nil {
			between(step)
		}
		step++
		page = x.Next(page.NextOffset)
	}
	return seen
}

func TestExecutor_PaginationCompleteness(t *testing.T) {
	p := newPipeline()
	created := seed(t, p, 7)

	assert.Equal(t, created, walk(p.exec, 0, nil))
}

func TestExecutor_FirstPastEnd(t *testing.T) {
	p := newPipeline()
	seed(t, p, 2)

	page := p.exec.First(2)
	assert.Nil(t, page.Entity)
	assert.False(t, page.More)

	page = p.exec.First(100)
	assert.Nil(t, page.Entity)
	assert.False(t, page.More)

	empty := newPipeline()
	assert.Nil(t, empty.exec.First(0).Entity)
}

func TestExecutor_NegativeOffsetClamped(t *testing.T) {
	p := newPipeline()
	created := seed(t, p, 2)

	page := p.exec.First(-5)
	require.NotNil(t, page.Entity)
	assert.Same(t, created[0], page.Entity)
	assert.Equal(t, 1, page.NextOffset)
	assert.True(t, page.More)
}

func TestExecutor_LastEntityClearsMore(t *testing.T) {
	p := newPipeline()
	created := seed(t, p, 3)

	page := p.exec.First(2)
	assert.Same(t, created[2], page.Entity)
	assert.Equal(t, 3, page.NextOffset)
	assert.False(t, page.More)
}

func TestExecutor_DeleteBetweenCallsSkips(t *testing.T) {
	p := newPipeline()
	created := seed(t, p, 4)

	// 取到第 0 个之后删除它：原第 1 个移到位置 0，被跳过
	seen := walk(p.exec, 0, func(step int) {
		if step == 0 {
			require.True(t, p.reg.Remove(created[0]))
		}
	})

	assert.Equal(t, []*AddressConfig{created[0], created[2], created[3]}, seen)
}

func TestExecutor_NextAfterShrinkEnds(t *testing.T) {
	p := newPipeline()
	created := seed(t, p, 3)

	page := p.exec.First(1)
	require.True(t, page.More)

	require.True(t, p.reg.Remove(created[2]))
	require.True(t, p.reg.Remove(created[1]))

	next := p.exec.Next(page.NextOffset)
	assert.Nil(t, next.Entity)
	assert.False(t, next.More)
}

func TestExecutor_Get(t *testing.T) {
	p := newPipeline()
	a := p.life.Create(ptr("a"), body(t, map[string]any{"prefix": "a."}))
	require.True(t, a.OK())

	got := p.exec.Get(ptr("a"), nil)
	require.Equal(t, types.StatusOK, got.Status)
	assert.Same(t, a.Entity, got.Entity)

	got = p.exec.Get(nil, idOf(a.Entity))
	assert.Same(t, a.Entity, got.Entity)

	got = p.exec.Get(ptr("a"), ptr("12345"))
	assert.Equal(t, types.StatusNotFound, got.Status, "identity wins even when it misses")

	got = p.exec.Get(nil, nil)
	assert.Equal(t, types.StatusBadRequest.Code, got.Status.Code)
	assert.Equal(t, "No name or identity provided", got.Status.Description)
}
