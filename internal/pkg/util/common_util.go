package util

import (
	"strconv"
	"strings"
)

// StrSliceToUInt64Slice 将 redis 集合中的 id 转为 uint64
func StrSliceToUInt64Slice(values []string) ([]uint64, error) {
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// NormalizeName 去掉首尾空白并转小写，实体名和类型按此去重
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
