package service

import "errors"

var (
	ErrNotFound      = errors.New("链接不存在或已过期")
	ErrQuotaExceeded = errors.New("已达到当前套餐的链接数量上限")
	ErrOutsideArea   = errors.New("访客不在允许的范围内")
	ErrForbidden     = errors.New("无权操作该链接")
	ErrConflict      = errors.New("短码冲突, 请重试")
)

// 校验失败原因
const (
	ReasonMissingFields   = "missing_fields"
	ReasonInvalidLocation = "invalid_location"
	ReasonInvalidURL      = "invalid_url"
	ReasonRadiusTooSmall  = "radius_too_small"
	ReasonMissingOwner    = "missing_owner"
)

// ValidationError 请求参数不合法, Reason 为机器可读的原因码
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(reason, message string) error {
	return &ValidationError{Reason: reason, Message: message}
}
