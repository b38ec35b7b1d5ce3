package mockdocker

import (
	"time"

	"github.com/docker/docker/api/types/swarm"
	"golang.org/x/exp/maps"

	"github.com/kyleranous/docker-mocker/internal/generic"
)

// Defaults applied by Init to every option that is not provided. They are the
// Docker Engine defaults.
const (
	DefaultSwarmName                  = "default"
	DefaultTaskHistoryRetentionLimit  = 5
	DefaultSnapshotInterval           = 10000
	DefaultKeepOldSnapshots           = 0
	DefaultLogEntriesForSlowFollowers = 500
	DefaultHeartbeatTick              = 1
	DefaultElectionTick               = 10
	DefaultDispatcherHeartbeatPeriod  = 5 * time.Second
	DefaultNodeCertExpiry             = 90 * 24 * time.Hour
	DefaultSubnetSize                 = 24
	DefaultDataPathPort               = 4789
)

var DefaultAddrPool = []string{"10.0.0.0/8"}

// SpecOptions selects swarm spec fields to set. Nil fields are left alone, so
// the zero value changes nothing.
type SpecOptions struct {
	Name                       *string
	Labels                     map[string]string
	TaskHistoryRetentionLimit  *int64
	SnapshotInterval           *uint64
	KeepOldSnapshots           *uint64
	LogEntriesForSlowFollowers *uint64
	HeartbeatTick              *int
	ElectionTick               *int
	DispatcherHeartbeatPeriod  *time.Duration
	NodeCertExpiry             *time.Duration
	ExternalCAs                []*swarm.ExternalCA
	SigningCACert              *string
	SigningCAKey               *string
	CAForceRotate              *uint64
	AutoLockManagers           *bool
	LogDriver                  *swarm.Driver
}

func defaultSpec() swarm.Spec {
	return swarm.Spec{
		Annotations: swarm.Annotations{
			Name: DefaultSwarmName,
		},
		Orchestration: swarm.OrchestrationConfig{
			TaskHistoryRetentionLimit: generic.Ptr[int64](DefaultTaskHistoryRetentionLimit),
		},
		Raft: swarm.RaftConfig{
			SnapshotInterval:           DefaultSnapshotInterval,
			KeepOldSnapshots:           generic.Ptr[uint64](DefaultKeepOldSnapshots),
			LogEntriesForSlowFollowers: DefaultLogEntriesForSlowFollowers,
			HeartbeatTick:              DefaultHeartbeatTick,
			ElectionTick:               DefaultElectionTick,
		},
		Dispatcher: swarm.DispatcherConfig{
			HeartbeatPeriod: DefaultDispatcherHeartbeatPeriod,
		},
		CAConfig: swarm.CAConfig{
			NodeCertExpiry: DefaultNodeCertExpiry,
		},
	}
}

// apply copies the provided options into spec.
func (o *SpecOptions) apply(spec *swarm.Spec) {
	if o.Name != nil {
		spec.Name = *o.Name
	}

	if o.Labels != nil {
		spec.Labels = maps.Clone(o.Labels)
	}

	if o.TaskHistoryRetentionLimit != nil {
		spec.Orchestration.TaskHistoryRetentionLimit = generic.Ptr(*o.TaskHistoryRetentionLimit)
	}

	if o.SnapshotInterval != nil {
		spec.Raft.SnapshotInterval = *o.SnapshotInterval
	}

	if o.KeepOldSnapshots != nil {
		spec.Raft.KeepOldSnapshots = generic.Ptr(*o.KeepOldSnapshots)
	}

	if o.LogEntriesForSlowFollowers != nil {
		spec.Raft.LogEntriesForSlowFollowers = *o.LogEntriesForSlowFollowers
	}

	if o.HeartbeatTick != nil {
		spec.Raft.HeartbeatTick = *o.HeartbeatTick
	}

	if o.ElectionTick != nil {
		spec.Raft.ElectionTick = *o.ElectionTick
	}

	if o.DispatcherHeartbeatPeriod != nil {
		spec.Dispatcher.HeartbeatPeriod = *o.DispatcherHeartbeatPeriod
	}

	if o.NodeCertExpiry != nil {
		spec.CAConfig.NodeCertExpiry = *o.NodeCertExpiry
	}

	if o.ExternalCAs != nil {
		spec.CAConfig.ExternalCAs = cloneExternalCAs(o.ExternalCAs)
	}

	if o.SigningCACert != nil {
		spec.CAConfig.SigningCACert = *o.SigningCACert
	}

	if o.SigningCAKey != nil {
		spec.CAConfig.SigningCAKey = *o.SigningCAKey
	}

	if o.CAForceRotate != nil {
		spec.CAConfig.ForceRotate = *o.CAForceRotate
	}

	if o.AutoLockManagers != nil {
		spec.EncryptionConfig.AutoLockManagers = *o.AutoLockManagers
	}

	if o.LogDriver != nil {
		driver := *o.LogDriver
		driver.Options = maps.Clone(driver.Options)
		spec.TaskDefaults.LogDriver = &driver
	}
}

func cloneExternalCAs(cas []*swarm.ExternalCA) []*swarm.ExternalCA {
	res := make([]*swarm.ExternalCA, len(cas))

	for i, ca := range cas {
		if ca == nil {
			continue
		}

		c := *ca
		c.Options = maps.Clone(ca.Options)
		res[i] = &c
	}

	return res
}
