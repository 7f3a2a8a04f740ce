package handler

import (
	"Influence/internal/pkg/ranking"
	"Influence/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID 解析路径中的数字 id，非法或为 0 时返回参数错误
func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}

// viewerOf 由鉴权中间件注入的身份构造排行请求方，未登录时角色为空
func viewerOf(c *gin.Context) ranking.Viewer {
	viewer := ranking.Viewer{Roles: c.GetStringSlice("roles")}
	if userID := c.GetUint64("user_id"); userID != 0 {
		viewer.UserID = strconv.FormatUint(userID, 10)
	}
	return viewer
}
