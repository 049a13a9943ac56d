package service

// QuotaPolicy 按套餐计算可创建的链接数量
type QuotaPolicy struct {
	Default int
	Plans   map[string]int
}

// Limit 返回套餐的上限, 未知套餐使用默认值, <= 0 表示不限
func (q QuotaPolicy) Limit(plan string) int {
	if limit, ok := q.Plans[plan]; ok && plan != "" {
		return limit
	}
	return q.Default
}

// Allows 判断已有 existing 条链接时能否再创建一条
func (q QuotaPolicy) Allows(plan string, existing int64) bool {
	limit := q.Limit(plan)
	return limit <= 0 || existing < int64(limit)
}
