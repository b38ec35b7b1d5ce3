package baseerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestError_Chain(t *testing.T) {
	base := New(codes.Unknown, "base")
	kind := base.New(codes.NotFound, "not found")
	err := kind.Errorf("node %s not found", "n1")

	assert.Equal(t, "node n1 not found", err.Error())
	assert.Equal(t, codes.NotFound, err.Code())
	assert.True(t, errors.Is(err, kind))
	assert.True(t, errors.Is(err, base))
	assert.False(t, errors.Is(kind, err))
}

func TestError_Wrapped(t *testing.T) {
	kind := New(codes.InvalidArgument, "invalid")
	err := fmt.Errorf("op: %w", kind.Errorf("bad value"))

	var be *Error
	assert.True(t, errors.As(err, &be))
	assert.Equal(t, codes.InvalidArgument, be.GRPCStatus().Code())
	assert.Equal(t, "bad value", be.GRPCStatus().Message())
}
