package grpcutil

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type grpcStatus interface {
	GRPCStatus() *status.Status
}

// Status finds the first error in the chain that carries a gRPC status. If
// there is none, it returns a status with codes.Unknown.
func Status(err error) *status.Status {
	if err == nil {
		return status.New(codes.OK, "")
	}

	var se grpcStatus
	if errors.As(err, &se) {
		return se.GRPCStatus()
	}

	return status.New(codes.Unknown, err.Error())
}

// ErrorCode extracts a gRPC error code from an error. If the error does not
// carry a gRPC status, it returns codes.Unknown.
func ErrorCode(err error) codes.Code {
	return Status(err).Code()
}
