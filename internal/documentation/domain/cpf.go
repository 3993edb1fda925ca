package domain

import "strings"

// NormalizeCPF 去除 CPF 中的非数字字符
func NormalizeCPF(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPF 校验 11 位 CPF 的两位 mod-11 校验码，格式符号会被忽略
func ValidCPF(raw string) bool {
	cpf := NormalizeCPF(raw)
	if len(cpf) != 11 {
		return false
	}

	repeated := true
	for i := 1; i < len(cpf); i++ {
		if cpf[i] != cpf[0] {
			repeated = false
			break
		}
	}
	if repeated {
		return false
	}

	return checkDigit(cpf[:9]) == int(cpf[9]-'0') && checkDigit(cpf[:10]) == int(cpf[10]-'0')
}

// checkDigit 计算下一位校验码，权重从 len+1 递减到 2
func checkDigit(digits string) int {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	remainder := (sum * 10) % 11
	if remainder == 10 {
		return 0
	}
	return remainder
}
