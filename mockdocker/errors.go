package mockdocker

import (
	"fmt"

	"github.com/docker/docker/errdefs"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/kyleranous/docker-mocker/internal/baseerror"
	"github.com/kyleranous/docker-mocker/internal/grpcutil"
	"github.com/kyleranous/docker-mocker/validate"
)

// ErrAPI is the root of every error returned by the simulated client.
var ErrAPI = baseerror.New(codes.Unknown, "docker api error")

var (
	// ErrNoConnection is returned when the active node is not part of a swarm.
	ErrNoConnection = ErrAPI.New(codes.FailedPrecondition, "no connection established")

	// ErrNodeNotFound is returned when no node matches an address, ID or name.
	ErrNodeNotFound = ErrAPI.New(codes.NotFound, "node not found")

	// ErrUpdateFailed is returned when a node or swarm in the fail state is mutated.
	ErrUpdateFailed = ErrAPI.New(codes.Unavailable, "update failed")

	ErrAlreadyMember    = ErrAPI.New(codes.FailedPrecondition, "node is already part of a swarm")
	ErrSwarmNotFound    = ErrAPI.New(codes.NotFound, "swarm not found")
	ErrInvalidToken     = ErrAPI.New(codes.InvalidArgument, "join token is invalid")
	ErrNotInSwarm       = ErrAPI.New(codes.FailedPrecondition, "node is not part of a swarm")
	ErrManagerLeave     = ErrAPI.New(codes.FailedPrecondition, "manager cannot leave the swarm without force")
	ErrInvalidArgument  = ErrAPI.New(codes.InvalidArgument, "invalid argument")
	ErrInvalidUnlockKey = ErrAPI.New(codes.InvalidArgument, "invalid unlock key")
)

// Status returns the gRPC status carried by an error returned from this
// package. Foreign errors map to codes.Unknown and nil to codes.OK.
func Status(err error) *status.Status {
	return grpcutil.Status(err)
}

func notFound(kind *baseerror.Error, format string, args ...interface{}) error {
	return errdefs.NotFound(kind.Errorf(format, args...))
}

func unavailable(kind *baseerror.Error, format string, args ...interface{}) error {
	return errdefs.Unavailable(kind.Errorf(format, args...))
}

func invalidParameter(kind *baseerror.Error, format string, args ...interface{}) error {
	return errdefs.InvalidParameter(kind.Errorf(format, args...))
}

// ConstructionError is returned by New in strict mode when the fixture does
// not pass validation. It carries the full validation report.
type ConstructionError struct {
	Swarms *validate.SwarmReport
	Nodes  *validate.NodeReport
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid fixture: %d of %d swarms failed, %d of %d nodes failed",
		e.Swarms.Failed(), e.Swarms.Checked, e.Nodes.Failed(), e.Nodes.Checked())
}

func (e *ConstructionError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidParameter marks the error for errdefs.IsInvalidParameter.
func (e *ConstructionError) InvalidParameter() {}

// GRPCStatus returns an InvalidArgument status with the report attached as a
// structpb.Struct detail.
func (e *ConstructionError) GRPCStatus() *status.Status {
	st := status.New(codes.InvalidArgument, e.Error())

	details, err := structpb.NewStruct(e.reportMap())
	if err != nil {
		return st
	}

	if withDetails, err := st.WithDetails(details); err == nil {
		return withDetails
	}

	return st
}

func (e *ConstructionError) reportMap() map[string]interface{} {
	swarms := make(map[string]interface{}, e.Swarms.Len())
	for _, key := range e.Swarms.Keys() {
		swarms[key] = issuesList(e.Swarms.Issues(key))
	}

	nodes := make(map[string]interface{})
	for _, key := range e.Nodes.Keys() {
		res, _ := e.Nodes.Result(key)
		if len(res.Errors) == 0 {
			continue
		}

		nodes[key] = map[string]interface{}{
			"errors":   issuesList(res.Errors),
			"warnings": issuesList(res.Warnings),
		}
	}

	return map[string]interface{}{
		"swarms": swarms,
		"nodes":  nodes,
	}
}

func issuesList(issues []validate.Issue) []interface{} {
	list := make([]interface{}, len(issues))
	for i, is := range issues {
		list[i] = map[string]interface{}{is.Code: is.Message}
	}

	return list
}
