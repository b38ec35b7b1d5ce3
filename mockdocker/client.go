package mockdocker

import (
	kitlog "github.com/go-kit/log"

	"github.com/kyleranous/docker-mocker/fixture"
)

// Client acts on behalf of the node it is connected to.
type Client struct {
	docker *Docker
	self   *fixture.Node
	nodes  *Nodes
	swarm  *Swarm
	logger kitlog.Logger
}

func (c *Client) Nodes() *Nodes {
	return c.nodes
}

func (c *Client) Swarm() *Swarm {
	return c.swarm
}

// Self returns the node the client is connected to.
func (c *Client) Self() *Node {
	return &Node{client: c, rec: c.self}
}

func (c *Client) store() *fixture.Store {
	return c.docker.store
}

// swarmRecord returns the swarm the connected node belongs to, or nil.
func (c *Client) swarmRecord() *fixture.Swarm {
	if !c.self.InSwarm() {
		return nil
	}

	sw, ok := c.store().Swarm(c.self.SwarmID)
	if !ok {
		return nil
	}

	return sw
}
