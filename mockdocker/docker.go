// Package mockdocker simulates the swarm surface of a Docker Engine client on
// top of an in-memory fixture. A Docker value owns the shared fixture store;
// Connect resolves an address to one node of the fixture and returns a Client
// acting on behalf of that node. Clients created from the same Docker see each
// other's changes immediately, since they mutate the same records.
//
// Nothing in this package is safe for concurrent use.
package mockdocker

import (
	"net"
	"net/url"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/kyleranous/docker-mocker/fixture"
	"github.com/kyleranous/docker-mocker/token"
	"github.com/kyleranous/docker-mocker/validate"
)

const (
	defaultListenAddr = "0.0.0.0:2377"
	defaultSwarmPort  = "2377"
)

type Docker struct {
	store  *fixture.Store
	tokens *token.Generator
	logger kitlog.Logger
}

// New creates a simulator over the store. The store is used by reference and
// mutated in place by every operation. In strict mode, a store that fails
// validation is rejected with a *ConstructionError.
func New(store *fixture.Store, conf Config) (*Docker, error) {
	logger := conf.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}

	if conf.StrictValidation {
		swarms := validate.Swarms(store.Swarms)
		nodes := validate.Nodes(store.Nodes, store.Swarms)

		if swarms.Failed() > 0 || nodes.Failed() > 0 {
			level.Info(logger).Log("msg", "fixture rejected", "failed_swarms", swarms.Failed(), "failed_nodes", nodes.Failed())
			return nil, &ConstructionError{Swarms: swarms, Nodes: nodes}
		}
	}

	return &Docker{
		store:  store,
		tokens: token.NewGenerator(conf.Seed),
		logger: logger,
	}, nil
}

// Store returns the underlying fixture store.
func (d *Docker) Store() *fixture.Store {
	return d.store
}

// Connect returns a client bound to the node whose status address matches the
// host of baseURL. The URL is expected in the scheme://host:port form, though
// host:port and a bare host are accepted too. Only the host is compared.
func (d *Docker) Connect(baseURL string) (*Client, error) {
	host, err := hostFromURL(baseURL)
	if err != nil {
		return nil, invalidParameter(ErrInvalidArgument, "invalid base url %q: %v", baseURL, err)
	}

	node, ok := d.store.NodeByAddr(host)
	if !ok {
		level.Info(d.logger).Log("msg", "no node listens on address", "addr", host)
		return nil, notFound(ErrNodeNotFound, "no node with address %s", host)
	}

	c := &Client{
		docker: d,
		self:   node,
		logger: kitlog.With(d.logger, "node", node.ID()),
	}

	c.nodes = &Nodes{client: c}
	c.swarm = &Swarm{client: c}

	level.Debug(c.logger).Log("msg", "connected", "addr", host, "swarm", node.SwarmID)

	return c, nil
}

func hostFromURL(baseURL string) (string, error) {
	if strings.Contains(baseURL, "://") {
		u, err := url.Parse(baseURL)
		if err != nil {
			return "", err
		}

		return u.Hostname(), nil
	}

	return stripPort(baseURL), nil
}

// stripPort removes the port from addr, if there is one.
func stripPort(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]")
	}

	return host
}

// managerAddr is the address a manager advertises to the rest of the swarm.
// Unspecified hosts fall back to the node's own address and a missing port to
// the default swarm port.
func managerAddr(advertise, listen, nodeAddr string) string {
	addr := advertise
	if addr == "" {
		addr = listen
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, ""
	}

	if host == "" || host == "0.0.0.0" {
		host = nodeAddr
	}

	if port == "" {
		port = defaultSwarmPort
	}

	return net.JoinHostPort(host, port)
}
