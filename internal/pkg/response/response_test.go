package response

import (
	"Influence/internal/pkg/util"
	"Influence/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCode(t *testing.T, err error) (int, string) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code, body.Message
}

func TestErrorMapping(t *testing.T) {
	code, msg := errorCode(t, fmt.Errorf("load: %w", service.ErrEntityNotFound))
	assert.Equal(t, NotFound, code)
	assert.Contains(t, msg, service.ErrEntityNotFound.Error())

	code, _ = errorCode(t, fmt.Errorf("%w: 字段 [Platform] 校验失败，规则 [platform]", util.ErrValidation))
	assert.Equal(t, BadRequest, code)

	_, err := strconv.Atoi("abc")
	code, _ = errorCode(t, err)
	assert.Equal(t, BadRequest, code)

	code, msg = errorCode(t, errors.New("dial tcp: connection refused"))
	assert.Equal(t, InternalServerError, code)
	assert.Equal(t, service.UnExpectedError.Error(), msg)
}
