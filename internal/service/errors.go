package service

import (
	"Influence/internal/pkg/platform"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid           = errors.New("参数错误")
	ErrUnsupportedPlatform    = platform.ErrUnsupportedPlatform
	ErrEmptyResult            = errors.New("暂无数据")
	ErrEntityNotFound         = errors.New("实体不存在")
	ErrEntityExist            = errors.New("实体已存在")
	ErrEntityTypeInvalid      = errors.New("不支持的实体类型")
	ErrCategoryNotFound       = errors.New("分类不存在")
	ErrCategoryExist          = errors.New("分类已存在")
	ErrCategoryCycle          = errors.New("分类不能挂在自己的子分类下")
	ErrPageNotFound           = errors.New("主页不存在")
	ErrPageExist              = errors.New("主页已存在")
	ErrPostNotFound           = errors.New("帖子不存在")
	ErrNoteNotFound           = errors.New("备注不存在")
	ErrNoteForbidden          = errors.New("只有作者可以修改备注")
	ErrNoteTargetInvalid      = errors.New("备注目标无效")
	ErrCollectorNotConfigured = errors.New("该平台未配置采集数据集")
	ErrCollectionRunning      = errors.New("该平台正在采集中")
	UnauthorizedError         = errors.New("未登录或登录已过期")
	ForbiddenError            = errors.New("权限不足")
	UnExpectedError           = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:           BadRequest,
	ErrUnsupportedPlatform:    BadRequest,
	ErrEmptyResult:            NotFound,
	ErrEntityNotFound:         NotFound,
	ErrEntityExist:            BadRequest,
	ErrEntityTypeInvalid:      BadRequest,
	ErrCategoryNotFound:       NotFound,
	ErrCategoryExist:          BadRequest,
	ErrCategoryCycle:          BadRequest,
	ErrPageNotFound:           NotFound,
	ErrPageExist:              BadRequest,
	ErrPostNotFound:           NotFound,
	ErrNoteNotFound:           NotFound,
	ErrNoteForbidden:          Forbidden,
	ErrNoteTargetInvalid:      BadRequest,
	ErrCollectorNotConfigured: BadRequest,
	ErrCollectionRunning:      BadRequest,
	UnauthorizedError:         Unauthorized,
	ForbiddenError:            Forbidden,
	UnExpectedError:           InternalServerError,
}

// CodeOf 按 errors.Is 查找业务码，未登记的错误为 500
func CodeOf(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return InternalServerError, false
}
