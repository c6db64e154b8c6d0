package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/example/goshop/internal/apperr"
)

// MinPasswordLen 密码最小长度
const MinPasswordLen = 8

var (
	validate *validator.Validate
	once     sync.Once
)

// Validator 返回共享的校验器，注册了自定义的 password 规则
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})
	})
	return validate
}

// StrongPassword 至少 8 个字符，且同时包含字母和数字
func StrongPassword(pw string) bool {
	if utf8.RuneCountInString(pw) < MinPasswordLen {
		return false
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// Email 校验邮箱格式
func Email(email string) error {
	if err := Validator().Var(email, "required,email"); err != nil {
		return apperr.InvalidInputf("invalid email address %q", email)
	}
	return nil
}

// Password 校验密码强度
func Password(pw string) error {
	if !StrongPassword(pw) {
		return apperr.InvalidInputf("password must be at least %d characters and contain a letter and a digit", MinPasswordLen)
	}
	return nil
}

// Struct 校验结构体，错误统一转换为 InvalidInput
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return apperr.Wrap(apperr.InvalidInput, err, "invalid request")
	}
	msgs := make([]string, 0, len(vErrs))
	for _, vErr := range vErrs {
		field := strings.ToLower(vErr.Field())
		switch vErr.Tag() {
		case "required":
			msgs = append(msgs, field+" value missing")
		case "email":
			msgs = append(msgs, field+" is not a valid email address")
		case "password":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %d characters and contain a letter and a digit", field, MinPasswordLen))
		case "min", "gte", "gt":
			msgs = append(msgs, field+" value is less than "+vErr.Param())
		case "oneof":
			msgs = append(msgs, field+" must be one of "+vErr.Param())
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return apperr.InvalidInputf("%s", strings.Join(msgs, "; "))
}
