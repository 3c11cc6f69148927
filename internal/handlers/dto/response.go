package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	FieldIncorrect      = "FIELD_INCORRECT"
	Unauthenticated     = "UNAUTHENTICATED"
	Forbidden           = "FORBIDDEN"
	NotFound            = "NOT_FOUND"
	Conflict            = "CONFLICT"
	TooManyRequests     = "TOO_MANY_REQUESTS"
	ServiceUnavailable  = "SERVICE_UNAVAILABLE"
	InternalServerError = "INTERNAL_ERROR"
	InternalError       = "Service is currently unavailable. Please try again later."

	EventFull          = "EVENT_FULL"
	AlreadyRegistered  = "ALREADY_REGISTERED"
	DuplicateRequest   = "DUPLICATE_REQUEST"
	InvalidTransition  = "INVALID_TRANSITION"
	SelfConnection     = "SELF_CONNECTION"
	NotAMember         = "NOT_A_MEMBER"
	EmptyMessage       = "EMPTY_MESSAGE"
	EmailTaken         = "EMAIL_TAKEN"
	InvalidCredentials = "INVALID_CREDENTIALS"
)

type Response struct {
	Status string     `json:"status"`
	Error  *ErrorBody `json:"error,omitempty"`
	Data   any        `json:"data,omitempty"`
}

type ErrorBody struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Status: "ok", Data: data})
}

func Error(c *gin.Context, status int, code, desc string) {
	c.JSON(status, Response{
		Status: "error",
		Error: &ErrorBody{
			Code: code,
			Desc: desc,
		},
	})
}

func BadRequest(c *gin.Context, desc string) {
	Error(c, http.StatusBadRequest, FieldIncorrect, desc)
}

func Unauthorized(c *gin.Context, desc string) {
	Error(c, http.StatusUnauthorized, Unauthenticated, desc)
}
