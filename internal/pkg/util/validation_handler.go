package util

import (
	"Influence/internal/pkg/consts"
	"Influence/internal/pkg/platform"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation 请求参数未通过校验
var ErrValidation = errors.New("参数校验失败")

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		_, err := platform.Parse(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("entity_type", func(fl validator.FieldLevel) bool {
		return consts.IsEntityType(NormalizeName(fl.Field().String()))
	})
	_ = validate.RegisterValidation("note_target", func(fl validator.FieldLevel) bool {
		return consts.IsNoteTarget(fl.Field().String())
	})
}

// ValidateDTO 校验请求体，只返回第一个失败的字段
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return fmt.Errorf("%w: 字段 [%s] 校验失败，规则 [%s]",
				ErrValidation,
				firstError.Field(),
				firstError.Tag())
		}
		return err
	}
	return nil
}
