package field

import (
	"strconv"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	pkgif "github.com/dep2p/go-dispatch/pkg/interfaces"
)

// 编译时检查
var _ pkgif.Field = (*Value)(nil)

// ============================================================================
//                              Value 实现
// ============================================================================

// Value 已解析的消息体字段
type Value struct {
	v *structpb.Value
}

// Parse 包装一个 structpb 值；v 为 nil 时返回 nil
//
// 返回接口类型以免调用方拿到带类型的 nil。
func Parse(v *structpb.Value) pkgif.Field {
	if v == nil {
		return nil
	}
	return &Value{v: v}
}

// FromMap 由 Go 映射构造消息体字段
func FromMap(m map[string]any) (pkgif.Field, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return Parse(structpb.NewStructValue(st)), nil
}

// IsMap 是否为映射
func (f *Value) IsMap() bool {
	return f.v.GetStructValue() != nil
}

// ValueByKey 按键查找映射中的值
func (f *Value) ValueByKey(key string) pkgif.Field {
	st := f.v.GetStructValue()
	if st == nil {
		return nil
	}
	v, ok := st.GetFields()[key]
	if !ok {
		return nil
	}
	return Parse(v)
}

// IsNull 是否为空值
func (f *Value) IsNull() bool {
	_, ok := f.v.GetKind().(*structpb.Value_NullValue)
	return ok || f.v.GetKind() == nil
}

// Raw 返回字段的原始文本
func (f *Value) Raw() string {
	switch k := f.v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	case *structpb.Value_StructValue, *structpb.Value_ListValue:
		data, err := protojson.Marshal(f.v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// AsBool 强制转换为布尔值
func (f *Value) AsBool() bool {
	switch k := f.v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return k.BoolValue
	case *structpb.Value_NumberValue:
		return k.NumberValue != 0
	case *structpb.Value_StringValue:
		b, _ := strconv.ParseBool(strings.TrimSpace(k.StringValue))
		return b
	default:
		return false
	}
}

// AsInt 强制转换为整数，无法转换时返回 0
func (f *Value) AsInt() int64 {
	switch k := f.v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return int64(k.NumberValue)
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(k.StringValue), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case *structpb.Value_BoolValue:
		if k.BoolValue {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Proto 返回底层的 structpb 值
func (f *Value) Proto() *structpb.Value {
	return f.v
}

// ============================================================================
//                              线路编码
// ============================================================================

// Marshal 使用 protojson 编码消息体
func Marshal(v *structpb.Value) ([]byte, error) {
	return protojson.Marshal(v)
}

// Unmarshal 使用 protojson 解码消息体
func Unmarshal(data []byte) (*structpb.Value, error) {
	v := &structpb.Value{}
	if err := protojson.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}
