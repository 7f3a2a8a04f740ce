package snapshot

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ToInt64 将任意 JSON 值转换为整数，非数值或缺失返回 0，浮点数截断
func ToInt64(v any) int64 {
	n, _ := toInt64(v)
	return n
}

// toInt64 同 ToInt64，ok 表示原值确实是数值
func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n, true
		}
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case float64:
		return truncate(val)
	case float32:
		return truncate(float64(val))
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint64:
		if val > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return truncate(f)
	default:
		return 0, false
	}
}

// truncate 超出 int64 范围的浮点数视为非数值
func truncate(f float64) (int64, bool) {
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// idString 将帖子 ID 统一为字符串，数字 ID 不做格式化损失
func idString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return s, s != ""
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return ""
	}
}
