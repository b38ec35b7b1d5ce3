package mockdocker

import (
	"github.com/docker/docker/api/types/swarm"
	"github.com/go-kit/log/level"
	"golang.org/x/exp/slices"

	"github.com/kyleranous/docker-mocker/fixture"
	"github.com/kyleranous/docker-mocker/token"
)

// UnlockKeyResponse mirrors the payload of GET /swarm/unlockkey.
type UnlockKeyResponse struct {
	UnlockKey string
}

// InitOptions configure a new swarm. Zero fields take the Docker defaults.
type InitOptions struct {
	ListenAddr      string
	AdvertiseAddr   string
	DefaultAddrPool []string
	SubnetSize      uint32
	DataPathPort    uint32
	Availability    swarm.NodeAvailability
	SpecOptions
}

// UpdateOptions patch the swarm spec and optionally rotate its secrets.
type UpdateOptions struct {
	SpecOptions
	RotateWorkerToken      bool
	RotateManagerToken     bool
	RotateManagerUnlockKey bool
}

// Swarm is the view of the swarm the client's node belongs to. The view is
// resolved on every call, so once the node leaves, every accessor returns
// zero values.
type Swarm struct {
	client *Client
}

func (s *Swarm) ID() string {
	if rec := s.client.swarmRecord(); rec != nil {
		return rec.ID
	}

	return ""
}

// Attrs returns the swarm attributes, or nil if the node is not in a swarm.
func (s *Swarm) Attrs() *swarm.Swarm {
	if rec := s.client.swarmRecord(); rec != nil {
		return &rec.Attrs
	}

	return nil
}

func (s *Swarm) Version() uint64 {
	if rec := s.client.swarmRecord(); rec != nil {
		return rec.Attrs.Version.Index
	}

	return 0
}

func (s *Swarm) State() fixture.State {
	if rec := s.client.swarmRecord(); rec != nil {
		return rec.State
	}

	return ""
}

func (s *Swarm) UnlockKey() UnlockKeyResponse {
	if rec := s.client.swarmRecord(); rec != nil {
		return UnlockKeyResponse{UnlockKey: rec.UnlockKey}
	}

	return UnlockKeyResponse{}
}

// Init creates a new swarm with the client's node as its only manager and
// returns the swarm ID.
func (s *Swarm) Init(opts InitOptions) (string, error) {
	self := s.client.self
	store := s.client.store()
	gen := s.client.docker.tokens

	if self.InSwarm() {
		return "", unavailable(ErrAlreadyMember, "node %s is already part of swarm %s", self.ID(), self.SwarmID)
	}

	id := gen.ID()
	for _, taken := store.Swarm(id); taken; _, taken = store.Swarm(id) {
		id = gen.ID()
	}

	spec := defaultSpec()
	opts.SpecOptions.apply(&spec)

	addrPool := opts.DefaultAddrPool
	if len(addrPool) == 0 {
		addrPool = DefaultAddrPool
	}

	subnetSize := opts.SubnetSize
	if subnetSize == 0 {
		subnetSize = DefaultSubnetSize
	}

	dataPathPort := opts.DataPathPort
	if dataPathPort == 0 {
		dataPathPort = DefaultDataPathPort
	}

	rec := &fixture.Swarm{
		ID:        id,
		State:     fixture.StateSuccess,
		UnlockKey: gen.UnlockKey(),
		Attrs: swarm.Swarm{
			ClusterInfo: swarm.ClusterInfo{
				ID:              id,
				Meta:            swarm.Meta{Version: swarm.Version{Index: 1}},
				Spec:            spec,
				DefaultAddrPool: slices.Clone(addrPool),
				SubnetSize:      subnetSize,
				DataPathPort:    dataPathPort,
			},
			JoinTokens: swarm.JoinTokens{
				Worker:  gen.JoinToken(),
				Manager: gen.JoinToken(),
			},
		},
	}

	if err := store.AddSwarm(rec); err != nil {
		return "", err
	}

	self.SwarmID = id
	self.Attrs.Spec.Role = swarm.NodeRoleManager
	self.Attrs.ManagerStatus = &swarm.ManagerStatus{
		Leader:       true,
		Reachability: swarm.ReachabilityReachable,
		Addr:         managerAddr(opts.AdvertiseAddr, listenAddr(opts.ListenAddr), self.Addr()),
	}

	if opts.Availability != "" {
		self.Attrs.Spec.Availability = opts.Availability
	}

	level.Debug(s.client.logger).Log("msg", "swarm initialized", "swarm", id)

	return id, nil
}

// Join adds the client's node to the swarm of the first node listed in
// RemoteAddrs that is part of a swarm. The join token decides the role.
func (s *Swarm) Join(req swarm.JoinRequest) error {
	self := s.client.self
	store := s.client.store()
	logger := s.client.logger

	if self.InSwarm() {
		return unavailable(ErrAlreadyMember, "node %s is already part of swarm %s", self.ID(), self.SwarmID)
	}

	if req.JoinToken == "" {
		return unavailable(ErrAlreadyMember, "node %s cannot join without a join token", self.ID())
	}

	remotes := make([]string, len(req.RemoteAddrs))
	for i, addr := range req.RemoteAddrs {
		remotes[i] = stripPort(addr)
	}

	var swarmID string

	for _, rec := range store.Nodes {
		if rec.InSwarm() && slices.Contains(remotes, rec.Addr()) {
			swarmID = rec.SwarmID
			break
		}
	}

	if swarmID == "" {
		return notFound(ErrSwarmNotFound, "no swarm found at %v", req.RemoteAddrs)
	}

	target, ok := store.Swarm(swarmID)
	if !ok {
		return notFound(ErrSwarmNotFound, "swarm %s not found", swarmID)
	}

	var role swarm.NodeRole

	switch req.JoinToken {
	case target.Attrs.JoinTokens.Manager:
		role = swarm.NodeRoleManager
	case target.Attrs.JoinTokens.Worker:
		role = swarm.NodeRoleWorker
	default:
		level.Info(logger).Log("msg", "join rejected", "swarm", swarmID, "reason", "invalid token")
		return invalidParameter(ErrInvalidToken, "join token is invalid for swarm %s", swarmID)
	}

	self.SwarmID = swarmID
	self.Attrs.Spec.Role = role

	if role == swarm.NodeRoleManager {
		self.Attrs.ManagerStatus = &swarm.ManagerStatus{
			Reachability: swarm.ReachabilityReachable,
			Addr:         managerAddr(req.AdvertiseAddr, listenAddr(req.ListenAddr), self.Addr()),
		}
	}

	if req.Availability != "" {
		self.Attrs.Spec.Availability = req.Availability
	}

	level.Debug(logger).Log("msg", "joined swarm", "swarm", swarmID, "role", role)

	return nil
}

// Leave removes the client's node from its swarm. Managers must force it. The
// swarm record itself is kept even if no member is left.
func (s *Swarm) Leave(force bool) error {
	self := s.client.self

	if !self.InSwarm() {
		return unavailable(ErrNotInSwarm, "node %s is not part of a swarm", self.ID())
	}

	if self.Attrs.Spec.Role == swarm.NodeRoleManager && !force {
		return unavailable(ErrManagerLeave,
			"node %s is a manager of swarm %s, leaving requires force", self.ID(), self.SwarmID)
	}

	swarmID := self.SwarmID

	self.SwarmID = ""
	self.Attrs.Spec.Role = ""
	self.Attrs.ManagerStatus = nil

	level.Debug(s.client.logger).Log("msg", "left swarm", "swarm", swarmID, "force", force)

	return nil
}

// Unlock moves a locked swarm back to the success state.
func (s *Swarm) Unlock(key string) error {
	if key == "" {
		return invalidParameter(ErrInvalidArgument, "unlock key must be a non-empty string")
	}

	rec := s.client.swarmRecord()
	if rec == nil {
		return unavailable(ErrNotInSwarm, "node %s is not part of a swarm", s.client.self.ID())
	}

	if rec.State != fixture.StateLocked || key != rec.UnlockKey {
		level.Info(s.client.logger).Log("msg", "unlock rejected", "swarm", rec.ID, "state", rec.State)
		return invalidParameter(ErrInvalidUnlockKey, "swarm %s could not be unlocked: invalid key provided", rec.ID)
	}

	rec.State = fixture.StateSuccess

	level.Debug(s.client.logger).Log("msg", "swarm unlocked", "swarm", rec.ID)

	return nil
}

// Update patches the swarm spec with the provided options and rotates the
// requested secrets. Swarms in the fail state reject the update; after Reload
// a single update is let through.
func (s *Swarm) Update(opts UpdateOptions) error {
	rec := s.client.swarmRecord()
	if rec == nil {
		return unavailable(ErrNotInSwarm, "node %s is not part of a swarm", s.client.self.ID())
	}

	if rec.State.Failing() {
		level.Info(s.client.logger).Log("msg", "swarm update rejected", "swarm", rec.ID, "state", rec.State)
		return unavailable(ErrUpdateFailed, "failed to update swarm %s", rec.ID)
	}

	opts.SpecOptions.apply(&rec.Attrs.Spec)

	gen := s.client.docker.tokens
	tokens := &rec.Attrs.JoinTokens

	if opts.RotateWorkerToken {
		tokens.Worker = token.Rotate(tokens.Worker, gen.JoinToken)
	}

	if opts.RotateManagerToken {
		tokens.Manager = token.Rotate(tokens.Manager, gen.JoinToken)
	}

	if opts.RotateManagerUnlockKey {
		rec.UnlockKey = token.Rotate(rec.UnlockKey, gen.UnlockKey)
	}

	rec.Attrs.Version.Index++
	rec.State.ConsumeReload()

	level.Debug(s.client.logger).Log("msg", "swarm updated", "swarm", rec.ID, "version", rec.Attrs.Version.Index)

	return nil
}

// Reload arms a swarm in the fail state for exactly one more update. It does
// nothing when the node is not part of a swarm.
func (s *Swarm) Reload() {
	if rec := s.client.swarmRecord(); rec != nil {
		rec.State.ArmReload()
	}
}

func listenAddr(addr string) string {
	if addr == "" {
		return defaultListenAddr
	}

	return addr
}
