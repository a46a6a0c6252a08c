package types

import "fmt"

// ============================================================================
//                              管理协议状态码
// ============================================================================

// Status 管理请求的处理结果
//
// Code 为类 HTTP 的协议状态码；Description 为人类可读描述，
// 既写入响应，也用于错误日志。成功状态不携带描述。
type Status struct {
	// Code 协议状态码
	Code int

	// Description 状态描述
	Description string
}

// 预定义状态（描述为状态码的标准名称）
var (
	StatusOK             = Status{Code: 200, Description: "OK"}
	StatusCreated        = Status{Code: 201, Description: "Created"}
	StatusNoContent      = Status{Code: 204, Description: "No Content"}
	StatusBadRequest     = Status{Code: 400, Description: "Bad Request"}
	StatusForbidden      = Status{Code: 403, Description: "Forbidden"}
	StatusNotFound       = Status{Code: 404, Description: "Not Found"}
	StatusNotImplemented = Status{Code: 501, Description: "Not Implemented"}
)

// WithDescription 返回替换了描述的状态副本
func (s Status) WithDescription(desc string) Status {
	s.Description = desc
	return s
}

// IsSuccess 是否为 2xx 状态
func (s Status) IsSuccess() bool {
	return s.Code/100 == 2
}

// IsError 是否为错误状态（2xx 以外）
func (s Status) IsError() bool {
	return s.Code/100 > 2
}

// String 实现 Stringer 接口
func (s Status) String() string {
	if s.Description == "" {
		return fmt.Sprintf("%d", s.Code)
	}
	return fmt.Sprintf("%d %s", s.Code, s.Description)
}

// BadRequest 构造带描述的 400 状态
func BadRequest(desc string) Status {
	return StatusBadRequest.WithDescription(desc)
}
