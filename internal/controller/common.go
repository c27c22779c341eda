package controller

import (
	"fmt"
	"gig-marketplace-api/internal/middleware"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	defaultLimit  = 20
	defaultOffset = 0
)

type errorResponse struct {
	Reason string `json:"reason"`
}

// callerId returns the authenticated user id set by the auth middleware.
func callerId(c echo.Context) string {
	id, _ := c.Get(middleware.UserIDKey).(string)
	return id
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
	s, f := "", float64(0)
	if fe.Type() == reflect.TypeOf(s) {
		return getMessageForString(fe)
	}

	if fe.Type() == reflect.TypeOf(f) || fe.Type() == reflect.TypeOf(0) || fe.Type() == reflect.TypeOf(int32(0)) {
		return getMessageForNumber(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
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
	case "email":
		return "should be a valid email address"
	}

	return "incorrect value passed"
}
