package http

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义规则，可重复调用
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = registerRules(v)
	})
	return err
}

func registerRules(v *validator.Validate) error {
	// 错误中使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"cpf":         validateCPF,
		"notfuture":   validateNotFuture,
		"businessday": validateBusinessDay,
		"filename":    validateFileName,
		"personname":  validateRule(domain.ValidateEmployeeName),
		"typename":    validateRule(func(s string) error { return domain.ValidateDocumentTypeName(strings.TrimSpace(s)) }),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

func validateCPF(fl validator.FieldLevel) bool {
	return domain.ValidCPF(fl.Field().String())
}

func validateFileName(fl validator.FieldLevel) bool {
	_, err := domain.NormalizeDocumentName(fl.Field().String())
	return err == nil
}

func validateRule(fn func(string) error) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String()) == nil
	}
}

func validateNotFuture(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	return ok && !t.After(domain.EndOfDay(time.Now()))
}

func validateBusinessDay(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	return ok && domain.IsBusinessDay(t)
}

// fieldTime 支持 time.Time 与日期字符串字段
func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	field := fl.Field()
	if t, ok := field.Interface().(time.Time); ok {
		return t, !t.IsZero()
	}
	if field.Kind() == reflect.String {
		t, err := parseDate(field.String())
		return t, err == nil
	}
	return time.Time{}, false
}

// parseDate 接受 YYYY-MM-DD 或 RFC3339
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}
