package mockdocker

import (
	"github.com/docker/docker/api/types/swarm"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/maps"

	"github.com/kyleranous/docker-mocker/fixture"
)

const shortIDLength = 10

// Node is a handle to a node record. It reads and writes the shared record
// directly, so it never goes stale.
type Node struct {
	client *Client
	rec    *fixture.Node
}

func (n *Node) ID() string {
	return n.rec.ID()
}

// ShortID returns the first 10 characters of the ID.
func (n *Node) ShortID() string {
	id := n.rec.ID()
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}

	return id
}

func (n *Node) Version() uint64 {
	return n.rec.Attrs.Version.Index
}

// Attrs returns the node attributes as stored in the fixture.
func (n *Node) Attrs() *swarm.Node {
	return &n.rec.Attrs
}

func (n *Node) State() fixture.State {
	return n.rec.State
}

// Update replaces the node spec. All four fields (name, labels, role and
// availability) are taken from spec, so a zero field clears the stored one.
// Nodes in the fail state reject the update; after Reload a single update is
// let through.
func (n *Node) Update(spec swarm.NodeSpec) error {
	rec := n.rec
	logger := n.client.logger

	if rec.State.Failing() {
		level.Info(logger).Log("msg", "node update rejected", "target", rec.ID(), "state", rec.State)
		return unavailable(ErrUpdateFailed, "failed to update node %s", rec.ID())
	}

	rec.Attrs.Spec = swarm.NodeSpec{
		Annotations: swarm.Annotations{
			Name:   spec.Name,
			Labels: maps.Clone(spec.Labels),
		},
		Role:         spec.Role,
		Availability: spec.Availability,
	}

	rec.Attrs.Version.Index++
	rec.State.ConsumeReload()

	level.Debug(logger).Log("msg", "node updated", "target", rec.ID(), "version", rec.Attrs.Version.Index)

	return nil
}

// Reload arms a node in the fail state for exactly one more update.
func (n *Node) Reload() {
	n.rec.State.ArmReload()
}
