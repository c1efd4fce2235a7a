package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// JSON encoding keeps plain JSON for the variants JSON already has and uses
// single-key marker objects for the rest:
//
//	none    null
//	symbol  {"$symbol": "tree"}
//	time    {"$time": "2024-01-02T03:04:05Z"}
//
// Graph and Function values hold executor handles and cannot be encoded.
const (
	symbolMarker = "$symbol"
	timeMarker   = "$time"
)

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNone:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindSymbol:
		return json.Marshal(map[string]string{symbolMarker: v.s})
	case KindTime:
		return json.Marshal(map[string]string{timeMarker: v.t.Format(time.RFC3339Nano)})
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		return json.Marshal(v.m)
	default:
		return nil, fmt.Errorf("value: cannot encode %s value", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("value: empty input")
	}

	switch data[0] {
	case 'n':
		*v = None()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = Value{kind: KindList, list: items}
		return nil
	case '{':
		var m map[string]Value
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		if len(m) == 1 {
			if s, ok := m[symbolMarker].AsString(); ok {
				*v = Symbol(s)
				return nil
			}
			if s, ok := m[timeMarker].AsString(); ok {
				t, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					return fmt.Errorf("value: parse time: %w", err)
				}
				*v = Time(t)
				return nil
			}
		}
		*v = Value{kind: KindMap, m: m}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n)
		return nil
	}
}
