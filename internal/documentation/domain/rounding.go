package domain

import "github.com/shopspring/decimal"

// RoundRatio 返回 numerator/denominator*scale 四舍五入后的整数，分母为 0 时返回 empty
func RoundRatio(numerator, denominator, scale, empty int) int {
	if denominator == 0 {
		return empty
	}
	if scale == 0 {
		scale = 1
	}
	v := decimal.NewFromInt(int64(numerator)).
		Mul(decimal.NewFromInt(int64(scale))).
		DivRound(decimal.NewFromInt(int64(denominator)), 8).
		Round(0)
	return int(v.IntPart())
}
