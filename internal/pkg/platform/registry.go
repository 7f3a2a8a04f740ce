package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedPlatform 平台在指标注册表中不存在
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Platform 受支持的社交平台
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	LinkedIn  Platform = "linkedin"
	TikTok    Platform = "tiktok"
	X         Platform = "x"
	YouTube   Platform = "youtube"
)

// Metric 参与评分的数值字段及其权重
type Metric struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Schema 单个平台的原始数据字段约定
type Schema struct {
	Platform      Platform
	IDField       string
	DateField     string
	PostsField    string
	FollowerField string
	AvatarField   string
	BioField      string
	// Weight 平台在实体综合分中的权重
	Weight  float64
	Metrics []Metric
	Columns Columns
}

// Columns 物化到 posts 表时各列取值的原始字段，为空表示该平台没有此项
type Columns struct {
	URL      string
	Likes    string
	Comments string
	Shares   string
	Views    string
}

// MetricNames 返回该平台参与评分的字段名
func (s *Schema) MetricNames() []string {
	names := make([]string, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		names = append(names, m.Name)
	}
	return names
}

// GainKey 增量字段名，例如 gained_likes
func GainKey(metric string) string {
	return "gained_" + metric
}

var registry = map[Platform]Schema{
	Facebook: {
		IDField:       "post_id",
		DateField:     "date_posted",
		PostsField:    "posts",
		FollowerField: "followers",
		AvatarField:   "profile_photo",
		BioField:      "about",
		Weight:        1.0 / 4,
		Metrics: []Metric{
			{Name: "num_comments", Weight: 0.4},
			{Name: "num_shares", Weight: 0.3},
			{Name: "likes", Weight: 0.3},
		},
		Columns: Columns{
			URL:      "url",
			Likes:    "likes",
			Comments: "num_comments",
			Shares:   "num_shares",
			Views:    "video_view_count",
		},
	},
	Instagram: {
		IDField:       "id",
		DateField:     "datetime",
		PostsField:    "posts",
		FollowerField: "followers",
		AvatarField:   "profile_image_link",
		BioField:      "biography",
		Weight:        1.0 / 4,
		Metrics: []Metric{
			{Name: "comments", Weight: 0.6},
			{Name: "likes", Weight: 0.4},
		},
		Columns: Columns{
			URL:      "url",
			Likes:    "likes",
			Comments: "comments",
			Views:    "video_view_count",
		},
	},
	LinkedIn: {
		IDField:       "post_id",
		DateField:     "date",
		PostsField:    "updates",
		FollowerField: "followers",
		AvatarField:   "logo",
		BioField:      "about",
		Weight:        1.0 / 4,
		Metrics: []Metric{
			{Name: "comments_count", Weight: 0.6},
			{Name: "likes_count", Weight: 0.4},
		},
		Columns: Columns{
			URL:      "post_url",
			Likes:    "likes_count",
			Comments: "comments_count",
			Shares:   "reposts_count",
		},
	},
	TikTok: {
		IDField:       "video_id",
		DateField:     "create_date",
		PostsField:    "top_videos",
		FollowerField: "followers",
		AvatarField:   "profile_pic_url",
		BioField:      "biography",
		Weight:        1.0 / 4,
		Metrics: []Metric{
			{Name: "commentcount", Weight: 0.4},
			{Name: "share_count", Weight: 0.3},
			{Name: "favorites_count", Weight: 0.3},
		},
		Columns: Columns{
			URL:      "url",
			Likes:    "favorites_count",
			Comments: "commentcount",
			Shares:   "share_count",
			Views:    "playcount",
		},
	},
	X: {
		IDField:       "post_id",
		DateField:     "date_posted",
		PostsField:    "posts",
		FollowerField: "followers",
		AvatarField:   "profile_image_link",
		BioField:      "biography",
		Weight:        1.0 / 4,
		Metrics: []Metric{
			{Name: "reposts", Weight: 0.5},
			{Name: "likes", Weight: 0.25},
			{Name: "replies", Weight: 0.25},
		},
		Columns: Columns{
			URL:      "url",
			Likes:    "likes",
			Comments: "replies",
			Shares:   "reposts",
			Views:    "views",
		},
	},
	YouTube: {
		IDField:       "video_id",
		DateField:     "date_posted",
		PostsField:    "top_videos",
		FollowerField: "subscribers",
		AvatarField:   "profile_image",
		BioField:      "Description",
		Weight:        1.0 / 4,
		Metrics: []Metric{
			{Name: "num_comments", Weight: 0.5},
			{Name: "likes", Weight: 0.4},
			{Name: "views", Weight: 0.1},
		},
		Columns: Columns{
			URL:      "url",
			Likes:    "likes",
			Comments: "num_comments",
			Views:    "views",
		},
	},
}

// Parse 规范化平台名称，未注册的平台返回 ErrUnsupportedPlatform
func Parse(name string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := registry[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, name)
	}
	return p, nil
}

// Lookup 获取平台的字段约定，返回副本
func Lookup(name string) (*Schema, error) {
	p, err := Parse(name)
	if err != nil {
		return nil, err
	}
	s := registry[p]
	s.Platform = p
	s.Metrics = append([]Metric(nil), s.Metrics...)
	return &s, nil
}

// All 按名称排序返回全部平台
func All() []Platform {
	all := make([]Platform, 0, len(registry))
	for p := range registry {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Valid 判断平台是否已注册
func (p Platform) Valid() bool {
	_, ok := registry[p]
	return ok
}

func (p Platform) String() string {
	return string(p)
}
