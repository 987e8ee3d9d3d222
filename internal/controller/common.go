package controller

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultPage  = 1
	defaultLimit = 20

	userIdHeader = "X-User-Id"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

// userId pulls the caller identity from the gateway-injected header.
func userId(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(userIdHeader))
}

func getAllErrorMessages(err error) string {
	var builder strings.Builder
	for _, fe := range err.(validator.ValidationErrors) {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	s := ""
	if fe.Type() == reflect.TypeOf(s) {
		return getMessageForString(fe)
	}

	switch fe.Type().Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return getMessageForInt(fe)
	}

	return "incorrect value passed"
}

func getMessageForInt(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "uuid4", "uuid":
		return "should be a valid uuid"
	case "datetime":
		return "should be a date in format " + fe.Param()
	}

	return "incorrect value passed"
}
