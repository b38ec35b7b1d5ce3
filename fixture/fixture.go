// Package fixture holds the simulated cluster state: node and swarm records
// loaded from a fixture file and shared by reference between every simulated
// client built on top of the same Store.
package fixture

import (
	"encoding/json"

	"github.com/docker/docker/api/types/swarm"
)

// State is the simulated failure state of a node or swarm record.
type State string

const (
	StateSuccess State = "success"
	StateFail    State = "fail"
	StateReload  State = "reload"
	StateLocked  State = "locked"
)

func (s State) String() string {
	return string(s)
}

// Failing reports whether mutations must be rejected.
func (s State) Failing() bool {
	return s == StateFail
}

// ArmReload opens a one-shot retry window: fail becomes reload, anything else
// stays as is.
func (s *State) ArmReload() {
	if *s == StateFail {
		*s = StateReload
	}
}

// ConsumeReload closes the retry window after a successful mutation.
func (s *State) ConsumeReload() {
	if *s == StateReload {
		*s = StateFail
	}
}

// Node is a simulated cluster member. SwarmID is empty when the node is not
// part of a swarm and is encoded as null.
type Node struct {
	SwarmID string     `json:"swarm"`
	State   State      `json:"state"`
	Attrs   swarm.Node `json:"attrs"`

	attrsSet bool
}

type nodeJSON struct {
	SwarmID *string     `json:"swarm"`
	State   State       `json:"state"`
	Attrs   *swarm.Node `json:"attrs"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	rec := nodeJSON{
		State: n.State,
		Attrs: &n.Attrs,
	}

	if n.SwarmID != "" {
		rec.SwarmID = &n.SwarmID
	}

	return json.Marshal(rec)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var rec nodeJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	*n = Node{State: rec.State}

	if rec.SwarmID != nil {
		n.SwarmID = *rec.SwarmID
	}

	if rec.Attrs != nil {
		n.Attrs = *rec.Attrs
		n.attrsSet = true
	}

	return nil
}

// HasAttrs reports whether the record carries an attrs block. Decoded records
// remember whether the block was present, even if it was empty.
func (n *Node) HasAttrs() bool {
	if n.attrsSet {
		return true
	}

	a := &n.Attrs

	return a.ID != "" || a.Status.Addr != "" || a.Spec.Name != "" || a.Version.Index != 0
}

func (n *Node) ID() string {
	return n.Attrs.ID
}

func (n *Node) Addr() string {
	return n.Attrs.Status.Addr
}

func (n *Node) InSwarm() bool {
	return n.SwarmID != ""
}

// Swarm is a simulated cluster.
type Swarm struct {
	ID        string      `json:"id"`
	State     State       `json:"state"`
	UnlockKey string      `json:"UnlockKey,omitempty"`
	Attrs     swarm.Swarm `json:"attrs"`

	attrsSet bool
}

func (s *Swarm) UnmarshalJSON(data []byte) error {
	type plain Swarm

	var rec struct {
		*plain
		Attrs *swarm.Swarm `json:"attrs"`
	}

	*s = Swarm{}
	rec.plain = (*plain)(s)

	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	if rec.Attrs != nil {
		s.Attrs = *rec.Attrs
		s.attrsSet = true
	}

	return nil
}

// HasAttrs reports whether the record carries an attrs block. Decoded records
// remember whether the block was present, even if it was empty.
func (s *Swarm) HasAttrs() bool {
	if s.attrsSet {
		return true
	}

	a := &s.Attrs

	return a.ID != "" || a.Spec.Name != "" || a.JoinTokens.Worker != "" ||
		a.JoinTokens.Manager != "" || a.Version.Index != 0
}
