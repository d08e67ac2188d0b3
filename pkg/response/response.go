package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST     ErrCode = "REQUEST_FAILED"
	BAD_REQUEST        ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND          ErrCode = "NOT_FOUND"
	LOCKED             ErrCode = "LOCKED"
	ALREADY_CHECKED_IN ErrCode = "ALREADY_CHECKED_IN"
	NO_ZONE_DEFINED    ErrCode = "NO_ZONE_DEFINED"
	NOT_CHECKED_IN     ErrCode = "NOT_CHECKED_IN"
	CHECKOUT_PENDING   ErrCode = "CHECKOUT_PENDING"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrNotFound         = errors.New("resource not found")
	ErrLocked           = errors.New("resource is locked")
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNoZoneDefined    = errors.New("no wifi zone defined")
	ErrNotCheckedIn     = errors.New("not checked in for subject")
	ErrCheckoutPending  = errors.New("checkout already in progress")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
