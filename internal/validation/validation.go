package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 绑定失败时的原因码
const (
	ReasonMissingFields   = "missing_fields"
	ReasonInvalidLocation = "invalid_location"
	ReasonInvalidRequest  = "invalid_request"
)

var registerOnce sync.Once

// RegisterCustomValidations 注册坐标校验规则
func RegisterCustomValidations(validate *validator.Validate) error {
	if err := validate.RegisterValidation("lat", validateLat); err != nil {
		return err
	}
	return validate.RegisterValidation("lng", validateLng)
}

// Register 在 gin 的绑定引擎上注册自定义规则, 多次调用只生效一次
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("不支持的校验引擎 %T", binding.Validator.Engine())
			return
		}
		err = RegisterCustomValidations(v)
	})
	return err
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180.0 && lng <= 180.0
}

// Reason 把绑定错误归类为原因码
func Reason(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ReasonInvalidRequest
	}
	for _, fe := range verrs {
		if fe.Tag() == "lat" || fe.Tag() == "lng" {
			return ReasonInvalidLocation
		}
	}
	return ReasonMissingFields
}
