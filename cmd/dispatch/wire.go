package main

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dep2p/go-dispatch"
	"github.com/dep2p/go-dispatch/pkg/lib/field"
	"github.com/dep2p/go-dispatch/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              行协议
// ════════════════════════════════════════════════════════════════════════════

// wireRequest 标准输入上的一行请求
type wireRequest struct {
	Operation      string          `json:"operation"`
	Type           string          `json:"type"`
	Name           *string         `json:"name,omitempty"`
	Identity       *string         `json:"identity,omitempty"`
	Body           json.RawMessage `json:"body,omitempty"`
	AttributeNames []string        `json:"attributeNames,omitempty"`
	Offset         int             `json:"offset,omitempty"`
	Count          int             `json:"count,omitempty"`
}

// decodeRequest 解析一行请求
func decodeRequest(line []byte) (dispatch.Request, error) {
	var w wireRequest
	if err := json.Unmarshal(line, &w); err != nil {
		return dispatch.Request{}, fmt.Errorf("decode request: %w", err)
	}

	op := types.ParseOperation(w.Operation)
	if op == types.OpUnknown {
		return dispatch.Request{}, fmt.Errorf("%w: %q", types.ErrUnknownOperation, w.Operation)
	}
	if w.Type == "" {
		return dispatch.Request{}, types.ErrEmptyEntityType
	}

	req := dispatch.Request{
		Operation:      op,
		EntityType:     w.Type,
		Name:           w.Name,
		Identity:       w.Identity,
		AttributeNames: w.AttributeNames,
		Offset:         w.Offset,
		Count:          w.Count,
	}
	if len(w.Body) > 0 {
		body, err := field.Unmarshal(w.Body)
		if err != nil {
			return dispatch.Request{}, fmt.Errorf("decode body: %w", err)
		}
		req.Body = body
	}
	return req, nil
}

// encodeResponse 把响应编码为一行 protojson
func encodeResponse(resp *dispatch.Response) ([]byte, error) {
	names := make([]any, 0, len(resp.AttributeNames))
	for _, n := range resp.AttributeNames {
		names = append(names, n)
	}
	st, err := structpb.NewStruct(map[string]any{
		"id":             resp.ID,
		"status":         float64(resp.Status.Code),
		"description":    resp.Status.Description,
		"attributeNames": names,
		"more":           resp.More,
	})
	if err != nil {
		return nil, err
	}

	body := resp.Body
	if body == nil {
		body = structpb.NewNullValue()
	}
	st.Fields["body"] = body
	return protojson.MarshalOptions{}.Marshal(st)
}

// encodeError 把本地错误编码为一行
func encodeError(err error) []byte {
	st, _ := structpb.NewStruct(map[string]any{
		"status":      float64(types.StatusBadRequest.Code),
		"description": err.Error(),
	})
	out, _ := protojson.Marshal(st)
	return out
}
