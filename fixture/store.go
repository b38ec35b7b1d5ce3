package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/twmb/murmur3"
)

// Store is the arena of node and swarm records. Records are addressed by
// pointer, so every holder of a record observes every mutation. Store is not
// safe for concurrent use.
type Store struct {
	Swarms []*Swarm `json:"swarms"`
	Nodes  []*Node  `json:"nodes"`
}

// NodeByAddr returns the first node whose status address equals addr.
func (s *Store) NodeByAddr(addr string) (*Node, bool) {
	for _, n := range s.Nodes {
		if n.Addr() == addr {
			return n, true
		}
	}

	return nil, false
}

// Swarm returns the swarm with the given ID.
func (s *Store) Swarm(id string) (*Swarm, bool) {
	for _, sw := range s.Swarms {
		if sw.ID == id {
			return sw, true
		}
	}

	return nil, false
}

// NodesInSwarm returns the nodes referencing the swarm, in store order.
func (s *Store) NodesInSwarm(swarmID string) []*Node {
	var nodes []*Node

	for _, n := range s.Nodes {
		if n.SwarmID == swarmID {
			nodes = append(nodes, n)
		}
	}

	return nodes
}

// AddSwarm appends a new swarm record. The ID must not be taken.
func (s *Store) AddSwarm(sw *Swarm) error {
	if _, ok := s.Swarm(sw.ID); ok {
		return fmt.Errorf("swarm %s already exists", sw.ID)
	}

	s.Swarms = append(s.Swarms, sw)

	return nil
}

// Fingerprint returns a hash of the full store state. Two stores with equal
// records have equal fingerprints.
func (s *Store) Fingerprint() uint64 {
	data, err := json.Marshal(s)
	if err != nil {
		// Records are plain data, marshalling cannot fail.
		panic(fmt.Sprintf("marshal store: %v", err))
	}

	return murmur3.Sum64(data)
}

// Clone returns a deep copy of the store that shares nothing with the
// receiver. Use it to run isolated scenarios over the same fixture.
func (s *Store) Clone() (*Store, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal store: %w", err)
	}

	clone := &Store{}
	if err := json.Unmarshal(data, clone); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}

	return clone, nil
}
