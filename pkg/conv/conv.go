// Package conv 提供类型转换、map/slice 转换等泛型工具，用于简化配置解析中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToInt64 将 any 转为 int64。
// 支持 int、int64、int32、float64、float32。
func ToInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	case float32:
		return int64(val), true
	default:
		return 0, false
	}
}

// MapToFloat64 将 map[string]any 转为 map[string]float64，跳过不可转换的值。
func MapToFloat64(m map[string]any) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if f, ok := ToFloat64(v); ok {
			out[k] = f
		}
	}
	return out
}

// SliceAnyToInt64 将 []any 转为 []int64，跳过不可转换的值。
func SliceAnyToInt64(v any) []int64 {
	s, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(s))
	for _, e := range s {
		if i, ok := ToInt64(e); ok {
			out = append(out, i)
		}
	}
	return out
}

// ConfigGet 从配置 map 中取值，类型不匹配时返回默认值。
func ConfigGet[T any](config map[string]any, key string, def T) T {
	if config == nil {
		return def
	}
	if v, ok := config[key]; ok {
		if tv, ok := v.(T); ok {
			return tv
		}
	}
	return def
}

// ConfigGetInt64 从配置 map 中取整数值（yaml 解析出的数字可能是 int 或 float64）。
func ConfigGetInt64(config map[string]any, key string, def int64) int64 {
	if config == nil {
		return def
	}
	if v, ok := config[key]; ok {
		if i, ok := ToInt64(v); ok {
			return i
		}
	}
	return def
}

// ConfigGetFloat64 从配置 map 中取浮点值。
func ConfigGetFloat64(config map[string]any, key string, def float64) float64 {
	if config == nil {
		return def
	}
	if v, ok := config[key]; ok {
		if f, ok := ToFloat64(v); ok {
			return f
		}
	}
	return def
}
