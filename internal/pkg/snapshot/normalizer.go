package snapshot

import (
	"Influence/internal/pkg/platform"
	"bytes"
	"errors"
	"time"

	"github.com/goccy/go-json"
)

// ErrMalformedSnapshot 快照的帖子列表缺失或不是列表，只计数不返回
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Raw 持久层返回的快照行
type Raw struct {
	PageID     string
	PageName   string
	Platform   string
	RecordedAt time.Time
	Data       []byte
}

// Record 规范化后的单条帖子
type Record struct {
	Platform   platform.Platform `json:"platform"`
	PageID     string            `json:"page_id"`
	PageName   string            `json:"page_name,omitempty"`
	PostID     string            `json:"post_id"`
	Day        string            `json:"recorded_at"`
	RecordedAt time.Time         `json:"-"`
	PostedAt   *time.Time        `json:"posted_at,omitempty"`
	Fields     map[string]any    `json:"-"`
}

// Snapshot 一次快照的规范化结果，Posts 为空表示当天抓取失败或无帖子
type Snapshot struct {
	PageID     string
	PageName   string
	Platform   platform.Platform
	RecordedAt time.Time
	Day        string
	Posts      []Record
}

// Stats 规范化过程的诊断计数
type Stats struct {
	Snapshots        int `json:"snapshots"`
	Posts            int `json:"posts"`
	SkippedSnapshots int `json:"skipped_snapshots"`
	SkippedPosts     int `json:"skipped_posts"`
	MissingID        int `json:"missing_id"`
	MissingDate      int `json:"missing_date"`
}

func (s *Stats) Add(o Stats) {
	s.Snapshots += o.Snapshots
	s.Posts += o.Posts
	s.SkippedSnapshots += o.SkippedSnapshots
	s.SkippedPosts += o.SkippedPosts
	s.MissingID += o.MissingID
	s.MissingDate += o.MissingDate
}

// Normalize 将一条原始快照展开为帖子列表
// 只有平台未注册时返回错误，其余问题计入 Stats 并跳过
func Normalize(raw Raw) (*Snapshot, Stats, error) {
	var stats Stats
	schema, err := platform.Lookup(raw.Platform)
	if err != nil {
		return nil, stats, err
	}

	snap := &Snapshot{
		PageID:     raw.PageID,
		PageName:   raw.PageName,
		Platform:   schema.Platform,
		RecordedAt: raw.RecordedAt,
		Day:        DayOf(raw.RecordedAt),
	}
	stats.Snapshots = 1

	payload, err := decode(raw.Data)
	if err != nil {
		stats.SkippedSnapshots++
		return snap, stats, nil
	}

	entries, ok := postList(payload, schema.PostsField)
	if !ok {
		stats.SkippedSnapshots++
		return snap, stats, nil
	}

	snap.Posts = make([]Record, 0, len(entries))
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			stats.SkippedPosts++
			continue
		}

		postID, ok := idString(fields[schema.IDField])
		if !ok {
			stats.MissingID++
			continue
		}

		postedAt, ok := ParsePostTime(fields[schema.DateField], raw.RecordedAt)
		if !ok {
			stats.MissingDate++
		}

		snap.Posts = append(snap.Posts, Record{
			Platform:   schema.Platform,
			PageID:     raw.PageID,
			PageName:   raw.PageName,
			PostID:     postID,
			Day:        snap.Day,
			RecordedAt: raw.RecordedAt,
			PostedAt:   postedAt,
			Fields:     fields,
		})
	}
	stats.Posts = len(snap.Posts)

	return snap, stats, nil
}

// NormalizeAll 批量规范化，单条快照损坏不影响其它快照
func NormalizeAll(raws []Raw) ([]*Snapshot, Stats, error) {
	var total Stats
	snaps := make([]*Snapshot, 0, len(raws))
	for _, raw := range raws {
		snap, stats, err := Normalize(raw)
		if err != nil {
			return nil, total, err
		}
		total.Add(stats)
		snaps = append(snaps, snap)
	}
	return snaps, total, nil
}

// Flatten 将多次快照的帖子按输入顺序展开
func Flatten(snaps []*Snapshot) []Record {
	var records []Record
	for _, s := range snaps {
		records = append(records, s.Posts...)
	}
	return records
}

func decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrMalformedSnapshot
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// postList 定位帖子列表，首元素仍是列表时解开一层
// 顶层数组的首元素是带帖子列表的主页对象时，按 profileFields 的方式解开
func postList(payload any, key string) ([]any, bool) {
	var value any
	switch p := payload.(type) {
	case map[string]any:
		v, ok := listField(p, key)
		if !ok {
			return nil, false
		}
		value = v
	case []any:
		value = p
		if len(p) > 0 {
			if wrapped, ok := p[0].(map[string]any); ok {
				if v, ok := listField(wrapped, key); ok {
					value = v
				}
			}
		}
	default:
		return nil, false
	}

	list, ok := value.([]any)
	if !ok {
		return nil, false
	}
	if len(list) > 0 {
		if inner, ok := list[0].([]any); ok {
			list = inner
		}
	}
	return list, true
}

func listField(fields map[string]any, key string) (any, bool) {
	v, ok := fields[key]
	if !ok {
		v, ok = fields["posts"]
	}
	if !ok {
		return nil, false
	}
	if _, isList := v.([]any); !isList {
		return nil, false
	}
	return v, true
}
