package shopclient

import (
	"errors"
	"fmt"
)

// GenericErrorMessage is used when the server gives no message of its own.
const GenericErrorMessage = "요청을 처리하지 못했습니다. 잠시 후 다시 시도해주세요"

// ErrNetworkError is returned when the request never produced a response
var ErrNetworkError = errors.New("network error")

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
