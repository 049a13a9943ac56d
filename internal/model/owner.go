package model

// Owner 链接所有者身份
// UserID 来自已校验的 JWT, CreatedBy 是客户端生成的匿名标识
type Owner struct {
	UserID    string
	CreatedBy string
}

// IsZero 没有任何身份信息
func (o Owner) IsZero() bool {
	return o.UserID == "" && o.CreatedBy == ""
}
