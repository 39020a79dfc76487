package common

import "net/http"

// Body models errors as JSON in the API
type Body struct {
	Message string `json:"message" binding:"required" example:"Something went wrong :("`
}

type ApiError struct {
	StatusCode int
	Body       Body
}

func (a *ApiError) Error() string {
	return a.Body.Message
}

// NewApiError uses err's message as the body
func NewApiError(statusCode int, err error) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Body: Body{
			Message: err.Error(),
		},
	}
}

// Unhandled is a 500 carrying err's message
func Unhandled(err error) *ApiError {
	return NewApiError(http.StatusInternalServerError, err)
}
