package snapshot

import (
	"Influence/internal/pkg/platform"
	"errors"

	"github.com/goccy/go-json"
)

// Profile 快照中的主页级信息
type Profile struct {
	Followers *int64 `json:"followers"`
	AvatarURL string `json:"profile_image_url"`
	Biography string `json:"biography"`
}

// ExtractProfile 按平台字段约定读取粉丝数（YouTube 为订阅数）、头像与简介
func ExtractProfile(raw Raw) (Profile, error) {
	var p Profile
	schema, err := platform.Lookup(raw.Platform)
	if err != nil {
		return p, err
	}

	payload, err := decode(raw.Data)
	if err != nil {
		return p, nil
	}
	fields, ok := profileFields(payload)
	if !ok {
		return p, nil
	}

	if n, ok := toInt64(fields[schema.FollowerField]); ok {
		p.Followers = &n
	}
	p.AvatarURL = stringValue(fields[schema.AvatarField])
	p.Biography = stringValue(fields[schema.BioField])
	return p, nil
}

// profileFields 数据集下载结果可能是单元素数组
func profileFields(payload any) (map[string]any, bool) {
	switch p := payload.(type) {
	case map[string]any:
		return p, true
	case []any:
		if len(p) == 0 {
			return nil, false
		}
		m, ok := p[0].(map[string]any)
		return m, ok
	default:
		return nil, false
	}
}

// MarshalFields 将原始字段编码回 JSON，供物化存储使用
func MarshalFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		return nil, errors.New("nil fields")
	}
	return json.Marshal(fields)
}
