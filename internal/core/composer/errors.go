package composer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DownstreamError is a critical leg failure carrying the HTTP status the
// upstream code maps to.
type DownstreamError struct {
	Target string
	Code   codes.Code
	Status int
	cause  error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("downstream %s failed (%s): %v", e.Target, e.Code, e.cause)
}

func (e *DownstreamError) Unwrap() error { return e.cause }

// mapDownstream converts a failed critical RPC into a DownstreamError.
// Mapping: invalid-argument / already-exists / unknown map to 400,
// not-found to 404, deadline to 504, unavailable to 502, everything else
// to 500.
func mapDownstream(target string, err error) error {
	code := codes.Internal
	if s, ok := status.FromError(err); ok {
		code = s.Code()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		code = codes.DeadlineExceeded
	}

	httpStatus := http.StatusInternalServerError
	switch code {
	case codes.InvalidArgument, codes.AlreadyExists, codes.Unknown:
		httpStatus = http.StatusBadRequest
	case codes.NotFound:
		httpStatus = http.StatusNotFound
	case codes.DeadlineExceeded:
		httpStatus = http.StatusGatewayTimeout
	case codes.Unavailable:
		httpStatus = http.StatusBadGateway
	}

	return &DownstreamError{Target: target, Code: code, Status: httpStatus, cause: err}
}

// HTTPStatus returns the mapped status for a composition error, or 500 when
// the error is not a downstream mapping.
func HTTPStatus(err error) int {
	var dsErr *DownstreamError
	if errors.As(err, &dsErr) {
		return dsErr.Status
	}
	return http.StatusInternalServerError
}
