package agent

import (
	"time"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ============================================================================
//                              Query 管理请求
// ============================================================================

// Query 单个管理请求/响应单元
//
// 由连接侧创建并提交给核心；核心处理期间独占访问，
// 处理完成后经响应队列交回连接侧。
type Query struct {
	// ID 关联标识
	ID string

	// Operation 操作类型
	Operation types.Operation

	// EntityType 目标实体类型
	EntityType string

	// Name / Identity 按键访问时的过滤条件，nil 表示未提供
	Name     *string
	Identity *string

	// InBody CREATE 的请求体
	InBody pkgif.Field

	// AttributeNames QUERY 请求的列名；核心解析后替换为实际使用的列名
	AttributeNames []string

	// Columns 解析后的列序号（按请求顺序）
	Columns []int

	// Offset QUERY 起始位置
	Offset int

	// Count QUERY 最多返回的行数，<=0 表示不限
	Count int

	// NextOffset 下一次 get-next 的位置
	NextOffset int

	// More 是否还有后续实体
	More bool

	// Rows 已写入响应体的行数
	Rows int

	// Status 处理结果
	Status types.Status

	// Body 响应体；为 nil 表示内部生成的请求，不产生响应
	Body pkgif.Composer

	// ReceivedAt 提交时间
	ReceivedAt time.Time
}

// NewQuery 创建查询，分配关联标识
func NewQuery(op types.Operation, entityType string, body pkgif.Composer) *Query {
	return &Query{
		ID:         uuid.New().String(),
		Operation:  op,
		EntityType: entityType,
		Body:       body,
	}
}

// HasBody 是否需要组合响应体
func (q *Query) HasBody() bool {
	return q.Body != nil
}

// NeedsNext 分页查询是否还需要继续 get-next
func (q *Query) NeedsNext() bool {
	if q.Operation != types.OpQuery || !q.Status.IsSuccess() || !q.More {
		return false
	}
	return q.Count <= 0 || q.Rows < q.Count
}
