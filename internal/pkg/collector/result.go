package collector

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Result 采集结果中的一条记录，Raw 原样写入 pages_history
type Result struct {
	URL string
	Raw json.RawMessage
}

// ParseResults 解析快照下载内容，记录的链接取 url 或 input.url
func ParseResults(data []byte) ([]Result, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode collection results")
	}

	results := make([]Result, 0, len(records))
	for _, raw := range records {
		var head struct {
			URL   string `json:"url"`
			Input struct {
				URL string `json:"url"`
			} `json:"input"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			continue
		}
		u := head.URL
		if u == "" {
			u = head.Input.URL
		}
		if u == "" {
			continue
		}
		results = append(results, Result{URL: u, Raw: raw})
	}
	return results, nil
}

// MatchKey 链接比较时忽略大小写、协议头与末尾斜杠
func MatchKey(link string) string {
	k := strings.ToLower(strings.TrimSpace(link))
	k = strings.TrimPrefix(k, "https://")
	k = strings.TrimPrefix(k, "http://")
	k = strings.TrimPrefix(k, "www.")
	return strings.TrimRight(k, "/")
}
