package mockdocker

import (
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/swarm"

	"github.com/kyleranous/docker-mocker/fixture"
	"github.com/kyleranous/docker-mocker/internal/generic"
	"github.com/kyleranous/docker-mocker/internal/set"
)

const (
	membershipAccepted = "accepted"
	membershipPending  = "pending"
)

var (
	filterRoles       = set.New(string(swarm.NodeRoleManager), string(swarm.NodeRoleWorker))
	filterMemberships = set.New(membershipAccepted, membershipPending)
)

var acceptedFilters = map[string]bool{
	"id":         true,
	"name":       true,
	"role":       true,
	"membership": true,
}

// Nodes queries the nodes of the swarm the client's node belongs to.
type Nodes struct {
	client *Client
}

func (n *Nodes) members() ([]*fixture.Node, error) {
	self := n.client.self
	if !self.InSwarm() {
		return nil, unavailable(ErrNoConnection, "no connection established: node %s is not part of a swarm", self.ID())
	}

	return n.client.store().NodesInSwarm(self.SwarmID), nil
}

// Get returns the first swarm member whose ID or name equals idOrName.
func (n *Nodes) Get(idOrName string) (*Node, error) {
	members, err := n.members()
	if err != nil {
		return nil, err
	}

	for _, rec := range members {
		if rec.ID() == idOrName || rec.Attrs.Spec.Name == idOrName {
			return &Node{client: n.client, rec: rec}, nil
		}
	}

	return nil, notFound(ErrNodeNotFound, "no node with id or name %s found", idOrName)
}

// List returns the swarm members matching args. The id and name filters match
// substrings, role matches exactly and membership accepts "accepted" (every
// member) or "pending" (none). Values of one filter are ORed, distinct filters
// are ANDed.
func (n *Nodes) List(args filters.Args) ([]*Node, error) {
	members, err := n.members()
	if err != nil {
		return nil, err
	}

	if err := validateFilters(args); err != nil {
		return nil, err
	}

	matched := generic.Filter(members, func(rec *fixture.Node) bool {
		return matchAny(args.Get("id"), func(v string) bool {
			return strings.Contains(rec.ID(), v)
		}) && matchAny(args.Get("name"), func(v string) bool {
			return strings.Contains(rec.Attrs.Spec.Name, v)
		}) && matchAny(args.Get("role"), func(v string) bool {
			return string(rec.Attrs.Spec.Role) == v
		}) && matchAny(args.Get("membership"), func(v string) bool {
			return v == membershipAccepted
		})
	})

	nodes := make([]*Node, len(matched))
	for i, rec := range matched {
		nodes[i] = &Node{client: n.client, rec: rec}
	}

	return nodes, nil
}

// matchAny reports whether f accepts one of the values. An absent filter
// matches everything.
func matchAny(values []string, f func(string) bool) bool {
	return len(values) == 0 || generic.Any(values, f)
}

func validateFilters(args filters.Args) error {
	if err := args.Validate(acceptedFilters); err != nil {
		return invalidParameter(ErrInvalidArgument, "%v", err)
	}

	for _, role := range args.Get("role") {
		if !filterRoles.Has(role) {
			return invalidParameter(ErrInvalidArgument, "invalid role filter %q, expected one of %v", role, set.Sorted(filterRoles))
		}
	}

	for _, m := range args.Get("membership") {
		if !filterMemberships.Has(m) {
			return invalidParameter(ErrInvalidArgument, "invalid membership filter %q, expected one of %v", m, set.Sorted(filterMemberships))
		}
	}

	return nil
}
