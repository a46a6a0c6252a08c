package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dep2p/go-dispatch/config"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ============================================================================
//                              辅助函数
// ============================================================================

func startRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()

	r, err := New(opts...)
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))
	t.Cleanup(func() { _ = r.Stop(context.Background()) })
	return r
}

func manage(t *testing.T, r *Router, req Request) *Response {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := r.Manage(ctx, req)
	require.NoError(t, err)
	return resp
}

func mapBody(t *testing.T, m map[string]any) *structpb.Value {
	t.Helper()
	v, err := structpb.NewValue(m)
	require.NoError(t, err)
	return v
}

func create(t *testing.T, r *Router, name string, attrs map[string]any) *Response {
	t.Helper()
	req := Request{
		Operation:  types.OpCreate,
		EntityType: types.EntityTypeConfigAddress,
		Body:       mapBody(t, attrs),
	}
	if name != "" {
		req.Name = &name
	}
	return manage(t, r, req)
}

func query(t *testing.T, r *Router, offset, count int, attrs ...string) *Response {
	t.Helper()
	return manage(t, r, Request{
		Operation:      types.OpQuery,
		EntityType:     types.EntityTypeConfigAddress,
		AttributeNames: attrs,
		Offset:         offset,
		Count:          count,
	})
}

func str(s string) *string { return &s }

// ============================================================================
//                              生命周期测试
// ============================================================================

func TestRouter_Lifecycle(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Manage(context.Background(), Request{Operation: types.OpQuery, EntityType: types.EntityTypeConfigAddress})
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyStarted)
	assert.Equal(t, []string{types.EntityTypeConfigAddress}, r.EntityTypes())

	require.NoError(t, r.Stop(context.Background()))
	require.NoError(t, r.Stop(context.Background()))

	_, err = r.Manage(context.Background(), Request{Operation: types.OpQuery, EntityType: types.EntityTypeConfigAddress})
	assert.ErrorIs(t, err, ErrRouterClosed)
	assert.ErrorIs(t, r.Start(context.Background()), ErrRouterClosed)
}

func TestRouter_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Agent.InboundQueueSize = -1

	_, err := New(WithConfig(cfg))
	assert.Error(t, err)

	_, err = New(WithConfig(nil))
	assert.Error(t, err)
}

func TestRouter_EmptyEntityType(t *testing.T) {
	r := startRouter(t)

	_, err := r.Manage(context.Background(), Request{Operation: types.OpRead})
	assert.ErrorIs(t, err, types.ErrEmptyEntityType)
}

// ============================================================================
//                              管理操作测试
// ============================================================================

func TestRouter_CreateReadDelete(t *testing.T) {
	r := startRouter(t)

	resp := create(t, r, "queue", map[string]any{"prefix": "a.b.", "distribution": "closest"})
	require.Equal(t, types.StatusCreated, resp.Status)

	attrs := resp.Attributes()
	assert.Equal(t, "queue", attrs["name"])
	assert.Equal(t, "a.b.", attrs["prefix"])
	assert.Equal(t, "closest", attrs["distribution"])
	assert.Equal(t, false, attrs["waypoint"])
	assert.Equal(t, float64(0), attrs["ingressPhase"])
	assert.Equal(t, float64(0), attrs["egressPhase"])
	identity := attrs["identity"].(string)

	read := manage(t, r, Request{
		Operation:  types.OpRead,
		EntityType: types.EntityTypeConfigAddress,
		Identity:   &identity,
	})
	require.Equal(t, types.StatusOK, read.Status)
	assert.Equal(t, attrs, read.Attributes())

	del := manage(t, r, Request{
		Operation:  types.OpDelete,
		EntityType: types.EntityTypeConfigAddress,
		Name:       str("queue"),
	})
	assert.Equal(t, types.StatusNoContent, del.Status)

	read = manage(t, r, Request{
		Operation:  types.OpRead,
		EntityType: types.EntityTypeConfigAddress,
		Identity:   &identity,
	})
	assert.Equal(t, types.StatusNotFound, read.Status)
	assert.Nil(t, read.Attributes())
}

func TestRouter_CreateFailureBodyIsNull(t *testing.T) {
	r := startRouter(t)

	resp := create(t, r, "", map[string]any{"prefix": "x.", "egressPhase": 10})
	assert.Equal(t, types.StatusBadRequest.Code, resp.Status.Code)
	assert.Equal(t, "Phase values must be between 0 and 9", resp.Status.Description)
	assert.Nil(t, resp.Body.AsInterface())

	q := query(t, r, 0, 0)
	assert.Empty(t, q.Rows(), "failed create leaves the registry unchanged")
}

func TestRouter_UnknownEntityType(t *testing.T) {
	r := startRouter(t)

	resp := manage(t, r, Request{Operation: types.OpQuery, EntityType: "org.example.nothing"})
	assert.Equal(t, types.StatusNotImplemented.Code, resp.Status.Code)
	assert.Empty(t, resp.Rows())
}

func TestRouter_UpdateNotImplemented(t *testing.T) {
	r := startRouter(t)

	resp := manage(t, r, Request{
		Operation:  types.OpUpdate,
		EntityType: types.EntityTypeConfigAddress,
		Name:       str("a"),
	})
	assert.Equal(t, types.StatusNotImplemented.Code, resp.Status.Code)
}

// ============================================================================
//                              分页测试
// ============================================================================

func TestRouter_QueryAll(t *testing.T) {
	r := startRouter(t)

	const n = 12
	for i := 0; i < n; i++ {
		resp := create(t, r, "", map[string]any{"prefix": fmt.Sprintf("p%02d.", i)})
		require.Equal(t, types.StatusCreated, resp.Status)
	}

	resp := query(t, r, 0, 0, "prefix", "identity")
	require.Equal(t, types.StatusOK, resp.Status)
	assert.Equal(t, []string{"prefix", "identity"}, resp.AttributeNames)
	assert.False(t, resp.More)

	rows := resp.Rows()
	require.Len(t, rows, n)
	var last int64
	for i, row := range rows {
		cells := row.GetListValue().GetValues()
		assert.Equal(t, fmt.Sprintf("p%02d.", i), cells[0].GetStringValue())

		id, err := strconv.ParseInt(cells[1].GetStringValue(), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, id, last, "rows follow creation order")
		last = id
	}
}

func TestRouter_QueryPaged(t *testing.T) {
	r := startRouter(t)
	for i := 0; i < 5; i++ {
		create(t, r, "", map[string]any{"prefix": fmt.Sprintf("p%d.", i)})
	}

	var seen []string
	offset := 0
	for {
		resp := query(t, r, offset, 2, "prefix")
		for _, row := range resp.Rows() {
			seen = append(seen, row.GetListValue().GetValues()[0].GetStringValue())
		}
		offset += len(resp.Rows())
		if !resp.More {
			break
		}
		assert.Len(t, resp.Rows(), 2)
	}
	assert.Equal(t, []string{"p0.", "p1.", "p2.", "p3.", "p4."}, seen)

	past := query(t, r, 99, 2)
	assert.Equal(t, types.StatusOK, past.Status)
	assert.Empty(t, past.Rows())
	assert.False(t, past.More)
}

func TestRouter_DefaultQueryCount(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Agent.DefaultQueryCount = 3
	r := startRouter(t, WithConfig(cfg))

	for i := 0; i < 4; i++ {
		create(t, r, "", map[string]any{"prefix": fmt.Sprintf("p%d.", i)})
	}

	resp := query(t, r, 0, 0)
	assert.Len(t, resp.Rows(), 3)
	assert.True(t, resp.More)
}

// ============================================================================
//                              静态配置测试
// ============================================================================

func TestRouter_StaticAddresses(t *testing.T) {
	in, out := 0, 1
	cfg := config.NewConfig()
	cfg.Addresses = []config.AddressEntry{
		{Name: "queue", Prefix: "queue.", Distribution: "balanced"},
		{Prefix: "wp.", IngressPhase: &in, EgressPhase: &out},
		{Name: "queue", Prefix: "dup."}, // 名称冲突，只记录日志
	}

	r := startRouter(t, WithConfig(cfg), WithStaticAddress(config.AddressEntry{Prefix: "mc.", Distribution: "multicast"}))

	resp := query(t, r, 0, 0, "name", "prefix", "waypoint", "distribution")
	rows := resp.Rows()
	require.Len(t, rows, 3)

	assert.Equal(t, "queue", rows[0].GetListValue().GetValues()[0].GetStringValue())
	assert.True(t, rows[1].GetListValue().GetValues()[2].GetBoolValue())
	assert.Equal(t, "mc.", rows[2].GetListValue().GetValues()[1].GetStringValue())
	assert.Equal(t, "multicast", rows[2].GetListValue().GetValues()[3].GetStringValue())
}

func TestRouter_Subscribe(t *testing.T) {
	r, err := New(WithStaticAddress(config.AddressEntry{Name: "static", Prefix: "static."}))
	require.NoError(t, err)

	sub, err := r.Subscribe(new(types.EvtAddressConfigAdded))
	require.NoError(t, err)
	removed, err := r.Subscribe(new(types.EvtAddressConfigRemoved))
	require.NoError(t, err)

	require.NoError(t, r.Start(context.Background()))

	// 静态地址同样发布事件
	evt := (<-sub.Out()).(types.EvtAddressConfigAdded)
	assert.Equal(t, "static", evt.Name)

	require.Equal(t, types.StatusCreated, create(t, r, "", map[string]any{"prefix": "dyn.", "distribution": "closest"}).Status)
	evt = (<-sub.Out()).(types.EvtAddressConfigAdded)
	assert.Equal(t, "dyn.", evt.Prefix)
	assert.Equal(t, types.TreatmentAnycastClosest, evt.Treatment)

	resp := manage(t, r, Request{Operation: types.OpDelete, EntityType: types.EntityTypeConfigAddress, Name: str("static")})
	require.Equal(t, types.StatusNoContent, resp.Status)
	gone := (<-removed.Out()).(types.EvtAddressConfigRemoved)
	assert.Equal(t, "static.", gone.Prefix)

	require.NoError(t, r.Stop(context.Background()))
	_, ok := <-sub.Out()
	assert.False(t, ok)
}

// ============================================================================
//                              并发测试
// ============================================================================

func TestRouter_ConcurrentCreatesUnique(t *testing.T) {
	r := startRouter(t)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				// 所有协程争抢同一组前缀
				resp, err := r.Manage(context.Background(), Request{
					Operation:  types.OpCreate,
					EntityType: types.EntityTypeConfigAddress,
					Body:       mapBody(t, map[string]any{"prefix": fmt.Sprintf("shared%d.", i)}),
				})
				if err != nil {
					continue
				}
				if resp.Status == types.StatusCreated {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 10, created)
	assert.Len(t, query(t, r, 0, 0).Rows(), 10)
}

func TestRouter_ManageContextCancel(t *testing.T) {
	r := startRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Manage(ctx, Request{Operation: types.OpQuery, EntityType: types.EntityTypeConfigAddress})
	assert.ErrorIs(t, err, context.Canceled)

	// 已提交的请求被丢弃后路由器仍可用
	resp := query(t, r, 0, 0)
	assert.Equal(t, types.StatusOK, resp.Status)
}

// ============================================================================
//                              指标测试
// ============================================================================

func TestRouter_MetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := startRouter(t, WithRegisterer(reg))

	create(t, r, "", map[string]any{"prefix": "m."})

	h := r.MetricsHandler()
	require.NotNil(t, h)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	data, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.Contains(text, "dispatch_management_requests_total"))
	assert.True(t, strings.Contains(text, `dispatch_registry_entities{entity_type="`+types.EntityTypeConfigAddress+`"} 1`))
}

func TestRouter_MetricsDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false
	r := startRouter(t, WithConfig(cfg))

	assert.Nil(t, r.MetricsHandler())
	assert.Equal(t, types.StatusCreated, create(t, r, "", map[string]any{"prefix": "m."}).Status)
}
