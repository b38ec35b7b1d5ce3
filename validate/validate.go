// Package validate checks fixture records before they are handed to a
// simulated client. Swarm problems are always errors; nodes may additionally
// produce warnings that never make a fixture invalid.
package validate

import (
	"fmt"

	"github.com/kyleranous/docker-mocker/fixture"
	"github.com/kyleranous/docker-mocker/internal/multierror"
	"github.com/kyleranous/docker-mocker/internal/set"
)

// Issue is a single validation finding, keyed by a stable code.
type Issue struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

func issue(code, format string, args ...interface{}) *Issue {
	return &Issue{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Issues converts a list of errors back to issues, skipping foreign errors.
func Issues(errs []error) []Issue {
	issues := make([]Issue, 0, len(errs))

	for _, err := range errs {
		if is, ok := err.(*Issue); ok {
			issues = append(issues, *is)
		}
	}

	return issues
}

var (
	swarmStates = set.New(fixture.StateSuccess, fixture.StateLocked, fixture.StateFail)
	nodeStates  = set.New(fixture.StateSuccess, fixture.StateFail)
)

// SwarmReport maps a swarm key to its issues. Only failing swarms are present.
type SwarmReport struct {
	errs    *multierror.Error[string]
	Checked int
}

func (r *SwarmReport) add(key string, is *Issue) {
	r.errs.Add(key, is)
}

// Swarms validates swarm records. Swarms without an ID are keyed as
// swarm_<index>_no_id.
func Swarms(swarms []*fixture.Swarm) *SwarmReport {
	report := &SwarmReport{
		errs:    multierror.New[string](),
		Checked: len(swarms),
	}

	seen := make(map[string]int, len(swarms))

	for idx, sw := range swarms {
		key := sw.ID

		if sw.ID == "" {
			key = fmt.Sprintf("swarm_%d_no_id", idx)
			report.add(key, issue("id_error", "Swarm ID is required"))
		} else if first, dup := seen[sw.ID]; dup {
			report.add(key, issue("id_error", "Swarm ID must be unique, duplicate found at index: %d and %d", first, idx))
		} else {
			seen[sw.ID] = idx
		}

		switch {
		case sw.State == "":
			report.add(key, issue("state_error", "Swarm state is required"))
		case !swarmStates.Has(sw.State):
			report.add(key, issue("state_error", "Swarm state must be success, locked or fail"))
		}

		if sw.State == fixture.StateLocked && sw.UnlockKey == "" {
			report.add(key, issue("UnlockKey_error", "Swarm status is locked, UnlockKey is required"))
		}

		attrs := &sw.Attrs
		if !sw.HasAttrs() {
			report.add(key, issue("attrs_error", "Swarm attrs is required"))
			continue
		}

		if attrs.ID == "" {
			report.add(key, issue("attrs_ID_error", "Swarm attrs ID is required"))
		}

		if attrs.Spec.Name == "" {
			report.add(key, issue("attrs_Spec_Name_error", "Swarm attrs Spec Name is required"))
		}

		if attrs.JoinTokens.Worker == "" {
			report.add(key, issue("attrs_JoinTokens_Worker_error", "Swarm attrs JoinTokens Worker is required"))
		}

		if attrs.JoinTokens.Manager == "" {
			report.add(key, issue("attrs_JoinTokens_Manager_error", "Swarm attrs JoinTokens Manager is required"))
		}
	}

	return report
}

// Issues returns the issues reported for the swarm key.
func (r *SwarmReport) Issues(key string) []Issue {
	errs, _ := r.errs.Get(key)
	return Issues(errs)
}

// Keys returns the failing swarm keys in fixture order.
func (r *SwarmReport) Keys() []string {
	return r.errs.Keys()
}

// Len returns the number of failing swarms.
func (r *SwarmReport) Len() int {
	return r.errs.Len()
}

// Failed returns the number of swarms with at least one issue.
func (r *SwarmReport) Failed() int {
	return r.errs.Len()
}

func (r *SwarmReport) Error() string {
	return r.errs.Error()
}

func (r *SwarmReport) Unwrap() []error {
	return r.errs.Unwrap()
}

// Err returns the report as an error, or nil if every swarm is valid.
func (r *SwarmReport) Err() error {
	if r.errs.Len() == 0 {
		return nil
	}

	return r
}

// NodeResult holds the findings for a single node.
type NodeResult struct {
	Errors   []Issue `json:"errors" yaml:"errors"`
	Warnings []Issue `json:"warnings" yaml:"warnings"`
}

// NodeReport holds results for every validated node, in fixture order.
type NodeReport struct {
	checked int
	keys    []string
	results map[string]*NodeResult
	errs    *multierror.Error[string]
}

func newNodeReport() *NodeReport {
	return &NodeReport{
		results: make(map[string]*NodeResult),
		errs:    multierror.New[string](),
	}
}

func (r *NodeReport) result(key string) *NodeResult {
	res, ok := r.results[key]
	if !ok {
		res = &NodeResult{Errors: []Issue{}, Warnings: []Issue{}}
		r.results[key] = res
		r.keys = append(r.keys, key)
	}

	return res
}

func (r *NodeReport) addError(key string, is *Issue) {
	res := r.result(key)
	res.Errors = append(res.Errors, *is)
	r.errs.Add(key, is)
}

func (r *NodeReport) addWarning(key string, is *Issue) {
	res := r.result(key)
	res.Warnings = append(res.Warnings, *is)
}

// Keys returns node keys in fixture order.
func (r *NodeReport) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)

	return keys
}

// Result returns the findings for the node key.
func (r *NodeReport) Result(key string) (NodeResult, bool) {
	res, ok := r.results[key]
	if !ok {
		return NodeResult{}, false
	}

	return *res, true
}

// Checked returns the number of validated nodes.
func (r *NodeReport) Checked() int {
	return r.checked
}

// Failed returns the number of nodes with at least one error.
func (r *NodeReport) Failed() int {
	return r.errs.Len()
}

// Warnings returns the total number of warnings.
func (r *NodeReport) Warnings() int {
	var n int
	for _, res := range r.results {
		n += len(res.Warnings)
	}

	return n
}

// Err returns the node errors as a single error, or nil if there are none.
// Warnings are not included.
func (r *NodeReport) Err() error {
	return r.errs.Ret()
}

// Nodes validates node records. When swarms is not nil, nodes referencing an
// unknown swarm get a warning. Nodes without an ID are keyed as
// node_<index>_no_id and repeated IDs as node_<index>_dup_id.
func Nodes(nodes []*fixture.Node, swarms []*fixture.Swarm) *NodeReport {
	report := newNodeReport()
	report.checked = len(nodes)

	addrs := make(map[string]string, len(nodes))
	ids := make(map[string]int, len(nodes))

	var known set.Set[string]
	if swarms != nil {
		known = set.New[string]()
		for _, sw := range swarms {
			known.Add(sw.ID)
		}
	}

	for idx, node := range nodes {
		key := node.ID()
		first, dupID := ids[key]

		switch {
		case key == "":
			key = fmt.Sprintf("node_%d_no_id", idx)
		case dupID:
			key = fmt.Sprintf("node_%d_dup_id", idx)
		default:
			ids[key] = idx
		}

		// Every node is reported, even a clean one.
		report.result(key)

		if dupID {
			report.addError(key, issue("id_error", "Node ID must be unique, duplicate found at index: %d and %d", first, idx))
		}

		if node.InSwarm() && known != nil && !known.Has(node.SwarmID) {
			report.addWarning(key, issue("swarm_warning", "No swarm found with id %s", node.SwarmID))
		}

		switch {
		case node.State == "":
			report.addError(key, issue("state_error", "Node state is required"))
		case !nodeStates.Has(node.State):
			report.addError(key, issue("state_error", "Node state must be success or fail"))
		}

		if !node.HasAttrs() {
			report.addError(key, issue("attrs_error", "Node attrs is required"))
			continue
		}

		if node.ID() == "" {
			report.addError(key, issue("attrs_ID_error", "Node attrs ID is required"))
		}

		addr := node.Addr()
		switch {
		case addr == "":
			report.addError(key, issue("IP_addr_error", "Node IP Address is required"))
		case node.ID() == "":
			// Uniqueness is tracked by node ID, which is missing here.
		default:
			if owner, dup := addrs[addr]; dup {
				report.addError(key, issue("IP_addr_error", "Node Address must be unique, duplicate found at index: %s and %s", owner, node.ID()))
			} else {
				addrs[addr] = node.ID()
			}
		}
	}

	return report
}
