package dispatch

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dep2p/go-dispatch/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              管理请求/响应
// ════════════════════════════════════════════════════════════════════════════

// Request 管理请求
type Request struct {
	// Operation 操作类型
	Operation types.Operation

	// EntityType 目标实体类型，例如 types.EntityTypeConfigAddress
	EntityType string

	// Name / Identity 按键访问时的过滤条件；两者都提供时标识优先
	Name     *string
	Identity *string

	// Body CREATE 的请求体（映射）
	Body *structpb.Value

	// AttributeNames QUERY 请求的列名，为空表示全部列
	AttributeNames []string

	// Offset QUERY 起始位置
	Offset int

	// Count QUERY 最多返回的行数，<=0 使用配置的缺省值
	Count int
}

// Response 管理响应
type Response struct {
	// ID 关联标识
	ID string

	// Status 处理结果
	Status types.Status

	// AttributeNames QUERY 实际返回的列名
	AttributeNames []string

	// Body 响应体
	//
	// CREATE/READ 成功时为 列名 -> 值 的映射；QUERY 为行列表；
	// CREATE 失败时为 null。
	Body *structpb.Value

	// More QUERY 是否还有后续实体
	More bool
}

// Rows 返回 QUERY 响应中的行
func (r *Response) Rows() []*structpb.Value {
	return r.Body.GetListValue().GetValues()
}

// Attributes 返回 CREATE/READ 响应体的映射形式
func (r *Response) Attributes() map[string]any {
	st := r.Body.GetStructValue()
	if st == nil {
		return nil
	}
	return st.AsMap()
}
