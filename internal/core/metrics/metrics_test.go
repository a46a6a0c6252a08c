package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dispatch/config"
)

// ============================================================================
//                              指标测试
// ============================================================================

func TestMetrics_ObserveRequest(t *testing.T) {
	m, err := New("test", nil)
	require.NoError(t, err)

	m.ObserveRequest("addr", "CREATE", 201, time.Millisecond)
	m.ObserveRequest("addr", "CREATE", 201, time.Millisecond)
	m.ObserveRequest("addr", "CREATE", 400, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("addr", "CREATE", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("addr", "CREATE", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestMetrics_SetEntities(t *testing.T) {
	m, err := New("", nil)
	require.NoError(t, err)

	m.SetEntities("addr", 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.entities.WithLabelValues("addr")))
	assert.NotNil(t, m.Gatherer())
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("addr", "READ", 200, time.Second)
	m.SetEntities("addr", 1)
	assert.Nil(t, m.Gatherer())
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New("dup", reg)
	require.NoError(t, err)

	_, err = New("dup", reg)
	assert.Error(t, err)
}

// ============================================================================
//                              Fx 模块测试
// ============================================================================

// TestModule_Disabled 测试关闭指标时模块提供 nil
func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var m *Metrics
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module(),
		fx.Populate(&m),
	)
	defer app.RequireStart().RequireStop()

	assert.Nil(t, m)
}

// TestModule_Enabled 测试默认配置下模块提供指标
func TestModule_Enabled(t *testing.T) {
	var m *Metrics
	app := fxtest.New(t,
		Module(),
		fx.Populate(&m),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, m)
	m.SetEntities("addr", 1)
}
