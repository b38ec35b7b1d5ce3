package validate

import (
	"testing"

	"github.com/docker/docker/api/types/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleranous/docker-mocker/fixture"
)

func validSwarm(id string) *fixture.Swarm {
	sw := &fixture.Swarm{ID: id, State: fixture.StateSuccess}
	sw.Attrs.ID = id
	sw.Attrs.Spec.Name = "default"
	sw.Attrs.JoinTokens = swarm.JoinTokens{Worker: "w-" + id, Manager: "m-" + id}

	return sw
}

func validNode(id, addr, swarmID string) *fixture.Node {
	n := &fixture.Node{SwarmID: swarmID, State: fixture.StateSuccess}
	n.Attrs.ID = id
	n.Attrs.Status.Addr = addr
	n.Attrs.Spec.Name = id

	return n
}

func codes(issues []Issue) []string {
	res := make([]string, len(issues))
	for i, is := range issues {
		res[i] = is.Code
	}

	return res
}

func TestSwarms_Valid(t *testing.T) {
	report := Swarms([]*fixture.Swarm{validSwarm("s1"), validSwarm("s2")})

	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 0, report.Failed())
	assert.NoError(t, report.Err())
}

func TestSwarms_MissingID(t *testing.T) {
	sw := validSwarm("")
	sw.Attrs.ID = "attrs-id"

	report := Swarms([]*fixture.Swarm{validSwarm("s1"), sw})
	require.Equal(t, []string{"swarm_1_no_id"}, report.Keys())
	assert.Equal(t, []string{"id_error"}, codes(report.Issues("swarm_1_no_id")))
}

func TestSwarms_DuplicateID(t *testing.T) {
	report := Swarms([]*fixture.Swarm{validSwarm("s1"), validSwarm("s2"), validSwarm("s1")})

	issues := report.Issues("s1")
	require.Len(t, issues, 1)
	assert.Equal(t, "id_error", issues[0].Code)
	assert.Contains(t, issues[0].Message, "index: 0 and 2")
}

func TestSwarms_State(t *testing.T) {
	missing := validSwarm("s1")
	missing.State = ""

	invalid := validSwarm("s2")
	invalid.State = "reload"

	locked := validSwarm("s3")
	locked.State = fixture.StateLocked

	unlocked := validSwarm("s4")
	unlocked.State = fixture.StateLocked
	unlocked.UnlockKey = "key"

	report := Swarms([]*fixture.Swarm{missing, invalid, locked, unlocked})

	assert.Equal(t, []string{"state_error"}, codes(report.Issues("s1")))
	assert.Equal(t, []string{"state_error"}, codes(report.Issues("s2")))
	assert.Equal(t, []string{"UnlockKey_error"}, codes(report.Issues("s3")))
	assert.Empty(t, report.Issues("s4"))
	assert.Equal(t, 3, report.Failed())
}

func TestSwarms_Attrs(t *testing.T) {
	noAttrs := &fixture.Swarm{ID: "s1", State: fixture.StateSuccess}

	partial := &fixture.Swarm{ID: "s2", State: fixture.StateFail}
	partial.Attrs.Version.Index = 1

	report := Swarms([]*fixture.Swarm{noAttrs, partial})

	assert.Equal(t, []string{"attrs_error"}, codes(report.Issues("s1")))
	assert.Equal(t, []string{
		"attrs_ID_error",
		"attrs_Spec_Name_error",
		"attrs_JoinTokens_Worker_error",
		"attrs_JoinTokens_Manager_error",
	}, codes(report.Issues("s2")))

	require.Error(t, report.Err())
	assert.Contains(t, report.Error(), "s2:attrs_ID_error")
}

func TestSwarms_EmptyAttrsBlock(t *testing.T) {
	store, err := fixture.Decode([]byte(`{"swarms": [
		{"id": "s1", "state": "success", "attrs": {"Spec": {"Labels": {"env": "test"}}}},
		{"id": "s2", "state": "success", "attrs": {}},
		{"id": "s3", "state": "success", "attrs": null},
		{"id": "s4", "state": "success"}
	]}`), fixture.FormatJSON)
	require.NoError(t, err)

	report := Swarms(store.Swarms)

	present := []string{
		"attrs_ID_error",
		"attrs_Spec_Name_error",
		"attrs_JoinTokens_Worker_error",
		"attrs_JoinTokens_Manager_error",
	}

	assert.Equal(t, present, codes(report.Issues("s1")))
	assert.Equal(t, present, codes(report.Issues("s2")))
	assert.Equal(t, []string{"attrs_error"}, codes(report.Issues("s3")))
	assert.Equal(t, []string{"attrs_error"}, codes(report.Issues("s4")))
}

func TestNodes_Valid(t *testing.T) {
	swarms := []*fixture.Swarm{validSwarm("s1")}
	nodes := []*fixture.Node{
		validNode("n1", "10.0.0.1", "s1"),
		validNode("n2", "10.0.0.2", ""),
	}

	report := Nodes(nodes, swarms)

	assert.Equal(t, []string{"n1", "n2"}, report.Keys())
	assert.Equal(t, 2, report.Checked())
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, 0, report.Warnings())
	assert.NoError(t, report.Err())

	res, ok := report.Result("n1")
	require.True(t, ok)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestNodes_UnknownSwarmWarning(t *testing.T) {
	nodes := []*fixture.Node{validNode("n1", "10.0.0.1", "ghost")}

	report := Nodes(nodes, []*fixture.Swarm{validSwarm("s1")})
	res, _ := report.Result("n1")
	assert.Equal(t, []string{"swarm_warning"}, codes(res.Warnings))
	assert.Equal(t, 1, report.Warnings())
	assert.NoError(t, report.Err())

	// Without swarms to compare against no warning is produced.
	report = Nodes(nodes, nil)
	assert.Equal(t, 0, report.Warnings())
}

func TestNodes_Errors(t *testing.T) {
	noState := validNode("n1", "10.0.0.1", "")
	noState.State = ""

	badState := validNode("n2", "10.0.0.2", "")
	badState.State = fixture.StateLocked

	noAttrs := &fixture.Node{State: fixture.StateSuccess}

	noAddr := validNode("n4", "", "")
	dupAddr := validNode("n5", "10.0.0.1", "")

	noID := validNode("", "10.0.0.6", "")

	report := Nodes([]*fixture.Node{noState, badState, noAttrs, noAddr, dupAddr, noID}, nil)

	expect := map[string][]string{
		"n1":           {"state_error"},
		"n2":           {"state_error"},
		"node_2_no_id": {"attrs_error"},
		"n4":           {"IP_addr_error"},
		"n5":           {"IP_addr_error"},
		"node_5_no_id": {"attrs_ID_error"},
	}

	for key, want := range expect {
		res, ok := report.Result(key)
		require.True(t, ok, key)
		assert.Equal(t, want, codes(res.Errors), key)
	}

	res, _ := report.Result("n5")
	assert.Contains(t, res.Errors[0].Message, "n1 and n5")

	assert.Equal(t, 6, report.Failed())
	assert.Error(t, report.Err())
}

func TestNodes_DuplicateID(t *testing.T) {
	nodes := []*fixture.Node{
		validNode("n1", "10.0.0.1", ""),
		validNode("n1", "10.0.0.2", ""),
		validNode("n2", "10.0.0.3", ""),
	}

	report := Nodes(nodes, nil)

	assert.Equal(t, 3, report.Checked())
	assert.Equal(t, []string{"n1", "node_1_dup_id", "n2"}, report.Keys())
	assert.Equal(t, 1, report.Failed())

	res, ok := report.Result("n1")
	require.True(t, ok)
	assert.Empty(t, res.Errors)

	res, ok = report.Result("node_1_dup_id")
	require.True(t, ok)
	require.Equal(t, []string{"id_error"}, codes(res.Errors))
	assert.Contains(t, res.Errors[0].Message, "index: 0 and 1")
}

func TestNodes_EmptyAttrsBlock(t *testing.T) {
	store, err := fixture.Decode([]byte(`{"nodes": [
		{"swarm": null, "state": "success", "attrs": {}},
		{"swarm": null, "state": "success"}
	]}`), fixture.FormatJSON)
	require.NoError(t, err)

	report := Nodes(store.Nodes, nil)

	res, _ := report.Result("node_0_no_id")
	assert.Equal(t, []string{"attrs_ID_error", "IP_addr_error"}, codes(res.Errors))

	res, _ = report.Result("node_1_no_id")
	assert.Equal(t, []string{"attrs_error"}, codes(res.Errors))
}

func TestIssues_SkipsForeignErrors(t *testing.T) {
	issues := Issues([]error{assert.AnError, &Issue{Code: "c", Message: "m"}})
	require.Len(t, issues, 1)
	assert.Equal(t, "c: m", issues[0].Error())
}
