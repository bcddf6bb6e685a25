package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/vdevs/vdevs-go/pkg/log"
	"github.com/vdevs/vdevs-go/pkg/vdev"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// ErrClosed is returned by every operation after Shutdown.
var ErrClosed = errors.New("registry closed")

// Config configures a Registry.
type Config struct {
	// Logger receives operational messages. Nil disables logging.
	Logger *slog.Logger

	// EventLogger receives device events for the registry and for every
	// session it opens. Nil disables event logging.
	EventLogger log.Logger
}

// Registry holds the live device instances.
type Registry struct {
	mu sync.RWMutex

	logger *slog.Logger
	events log.Logger

	nextID    int
	instances map[int]*vdev.Instance

	// sessions holds open sessions per instance, keyed by session ID.
	sessions map[int]map[string]*vdev.Session

	// opening counts Open calls in flight per instance. They keep the
	// instance busy while the session is created outside the lock.
	opening map[int]int

	closed bool
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	return &Registry{
		logger:    cfg.Logger,
		events:    cfg.EventLogger,
		instances: make(map[int]*vdev.Instance),
		sessions:  make(map[int]map[string]*vdev.Session),
		opening:   make(map[int]int),
	}
}

// Register creates an instance with the next identifier and publishes it.
// The identifier is only consumed when creation succeeds.
func (r *Registry) Register(cfg vdev.Config) (*vdev.Instance, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	inst, err := vdev.NewInstance(r.nextID, cfg)
	if err != nil {
		r.mu.Unlock()
		if r.logger != nil {
			r.logger.Warn("Probe failed", "error", err)
		}
		r.emit(log.Event{
			DeviceID: -1,
			Op:       log.OpProbe,
			Category: log.CategoryError,
			Status:   vdev.StatusOf(err),
			Error:    log.NewErrorData(vdev.StatusOf(err), err),
			Lifecycle: &log.LifecycleEvent{
				Capacity:     cfg.Capacity,
				Permission:   uint8(cfg.Permission),
				SerialNumber: cfg.SerialNumber,
			},
		})
		return nil, err
	}
	r.nextID++
	r.instances[inst.ID()] = inst
	r.sessions[inst.ID()] = make(map[string]*vdev.Session)
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("Probe successful",
			"node", inst.Node(),
			"size", inst.Capacity(),
			"permission", inst.Permission().String(),
			"serial", inst.SerialNumber())
	}
	r.emit(log.Event{
		DeviceID: inst.ID(),
		Node:     inst.Node(),
		Op:       log.OpProbe,
		Category: log.CategoryLifecycle,
		Lifecycle: &log.LifecycleEvent{
			Capacity:     inst.Capacity(),
			Permission:   uint8(inst.Permission()),
			SerialNumber: inst.SerialNumber(),
		},
	})
	return inst, nil
}

// Unregister removes an instance. It fails with vdev.ErrNotFound for an
// unknown identifier and vdev.ErrBusy while sessions are open on it.
func (r *Registry) Unregister(id int) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	inst, ok := r.instances[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %d", vdev.ErrNotFound, id)
	}
	if open := len(r.sessions[id]) + r.opening[id]; open > 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s has %d open sessions", vdev.ErrBusy, inst.Node(), open)
	}
	delete(r.instances, id)
	delete(r.sessions, id)
	r.mu.Unlock()

	r.detached(inst)
	return nil
}

// Lookup returns the instance with the given identifier. Sessions must be
// opened through Registry.Open; a session created with vdev.Open on the
// returned instance is not counted and does not keep it from Unregister.
func (r *Registry) Lookup(id int) (*vdev.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	inst, ok := r.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", vdev.ErrNotFound, id)
	}
	return inst, nil
}

// LookupNode returns the instance with the given node name.
func (r *Registry) LookupNode(node string) (*vdev.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	for _, inst := range r.instances {
		if inst.Node() == node {
			return inst, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", vdev.ErrNotFound, node)
}

// Open opens a session on the instance with the given identifier. The
// session is tracked until it is closed. Loggers run without the registry
// lock held.
func (r *Registry) Open(id int, mode vdev.AccessMode) (*vdev.Session, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	inst, ok := r.instances[id]
	if !ok {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", vdev.ErrNotFound, id)
	}
	r.opening[id]++
	r.mu.Unlock()

	s, err := vdev.Open(inst, mode,
		vdev.WithLogger(r.logger),
		vdev.WithEventLogger(r.events),
		vdev.WithReleaseFunc(r.release))

	r.mu.Lock()
	if r.opening[id] > 1 {
		r.opening[id]--
	} else {
		delete(r.opening, id)
	}
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	if r.closed {
		r.mu.Unlock()
		s.Close()
		return nil, ErrClosed
	}
	r.sessions[id][s.ID()] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) release(s *vdev.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if table, ok := r.sessions[s.Instance().ID()]; ok {
		delete(table, s.ID())
	}
}

// Count returns the number of live instances.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}

// Instances returns the live instances ordered by identifier.
func (r *Registry) Instances() []*vdev.Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*vdev.Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		list = append(list, inst)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID() < list[j].ID()
	})
	return list
}

// Sessions returns the sessions open on an instance, ordered by ID.
func (r *Registry) Sessions(id int) ([]*vdev.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	table, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", vdev.ErrNotFound, id)
	}
	list := make([]*vdev.Session, 0, len(table))
	for _, s := range table {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID() < list[j].ID()
	})
	return list, nil
}

// Info returns a snapshot of an instance including its open session count.
func (r *Registry) Info(id int) (wire.DeviceInfo, error) {
	r.mu.RLock()
	inst, ok := r.instances[id]
	open := len(r.sessions[id])
	closed := r.closed
	r.mu.RUnlock()

	if closed {
		return wire.DeviceInfo{}, ErrClosed
	}
	if !ok {
		return wire.DeviceInfo{}, fmt.Errorf("%w: %d", vdev.ErrNotFound, id)
	}
	info := inst.Info()
	info.OpenSessions = open
	return info, nil
}

// Shutdown closes every open session and removes every instance. Later
// calls on the registry return ErrClosed.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true

	var open []*vdev.Session
	for _, table := range r.sessions {
		for _, s := range table {
			open = append(open, s)
		}
	}
	removed := make([]*vdev.Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		removed = append(removed, inst)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range open {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session %s: %w", s.ID(), err))
		}
	}

	r.mu.Lock()
	r.instances = make(map[int]*vdev.Instance)
	r.sessions = make(map[int]map[string]*vdev.Session)
	r.opening = make(map[int]int)
	r.mu.Unlock()

	sort.Slice(removed, func(i, j int) bool {
		return removed[i].ID() < removed[j].ID()
	})
	for _, inst := range removed {
		r.detached(inst)
	}
	return errors.Join(errs...)
}

func (r *Registry) detached(inst *vdev.Instance) {
	if r.logger != nil {
		r.logger.Info("Device detached", "node", inst.Node())
	}
	r.emit(log.Event{
		DeviceID: inst.ID(),
		Node:     inst.Node(),
		Op:       log.OpRemove,
		Category: log.CategoryLifecycle,
		Lifecycle: &log.LifecycleEvent{
			Capacity:     inst.Capacity(),
			Permission:   uint8(inst.Permission()),
			SerialNumber: inst.SerialNumber(),
		},
	})
}

func (r *Registry) emit(e log.Event) {
	if r.events == nil {
		return
	}
	e.Timestamp = time.Now()
	r.events.Log(e)
}
