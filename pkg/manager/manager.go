// Package manager keeps a scene of source and hole boxes and rebuilds the
// combined mesh, (union of sources) minus (union of holes), when the scene
// changes. Rebuilds requested through Schedule are debounced and run in the
// background; results of superseded requests are dropped.
package manager

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/LeeKevinRio/3D-unity-Test/pkg/csg"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/kernel"
	"github.com/LeeKevinRio/3D-unity-Test/pkg/logging"
)

// Stats describes the most recent accepted rebuild.
type Stats struct {
	Generation  uint64        `json:"generation"`
	Sources     int           `json:"sources"`
	Holes       int           `json:"holes"`
	HolesCut    int           `json:"holesCut"` // holes passing the bounds query
	Triangles   int           `json:"triangles"`
	Elapsed     time.Duration `json:"elapsed"`
	EmptyResult bool          `json:"emptyResult"`
}

// Manager owns a scene and its last good result. All methods are safe for
// concurrent use.
type Manager struct {
	cfg       Config
	eval      *csg.Evaluator
	log       *logrus.Entry
	debounced func(func())

	mu          sync.Mutex
	objects     map[uuid.UUID]Object
	order       []uuid.UUID
	generation  uint64
	result      *kernel.Mesh
	stats       Stats
	subscribers []func(*kernel.Mesh)
}

// New returns an empty manager.
func New(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eval, err := csg.NewEvaluator(cfg.csg())
	if err != nil {
		return nil, err
	}
	return &Manager{
		cfg:       cfg,
		eval:      eval,
		log:       logging.NamedLogger("manager"),
		debounced: debounce.New(cfg.Debounce),
		objects:   make(map[uuid.UUID]Object),
	}, nil
}

// Add inserts obj and returns its ID. A zero ID is replaced by a new
// random one; adding an existing ID replaces that object in place.
func (m *Manager) Add(obj Object) (uuid.UUID, error) {
	if err := obj.validate(); err != nil {
		return uuid.Nil, err
	}
	if obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[obj.ID]; !ok {
		m.order = append(m.order, obj.ID)
	}
	m.objects[obj.ID] = obj
	return obj.ID, nil
}

// Remove deletes the object with id and reports whether it was present.
func (m *Manager) Remove(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[id]; !ok {
		return false
	}
	delete(m.objects, id)
	m.order = slices.DeleteFunc(m.order, func(o uuid.UUID) bool { return o == id })
	return true
}

// SetTransform moves and rotates the object with id.
func (m *Manager) SetTransform(id uuid.UUID, position, rotation mgl64.Vec3) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[id]
	if !ok {
		return ErrNotFound
	}
	obj.Position = position
	obj.Rotation = rotation
	m.objects[id] = obj
	return nil
}

// Objects returns the scene in insertion order.
func (m *Manager) Objects() []Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) snapshot() []Object {
	return lo.Map(m.order, func(id uuid.UUID, _ int) Object { return m.objects[id] })
}

// Result returns the last accepted mesh, or nil before the first rebuild.
func (m *Manager) Result() *kernel.Mesh {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Stats returns the statistics of the last accepted rebuild.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// OnResult registers fn to receive every accepted mesh. fn runs on the
// goroutine that completed the rebuild and must not call back into Rebuild.
func (m *Manager) OnResult(fn func(*kernel.Mesh)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Rebuild evaluates the scene synchronously, stores the mesh as the current
// result and notifies subscribers. ctx is only checked before starting. If
// another Rebuild or Schedule call is made while it runs, the mesh is
// discarded and ErrSuperseded is returned.
func (m *Manager) Rebuild(ctx context.Context) (*kernel.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.generation++
	gen := m.generation
	objs := m.snapshot()
	m.mu.Unlock()

	mesh, stats, err := m.build(objs)
	if err != nil {
		m.log.WithError(err).Warn("rebuild failed, keeping last result")
		return nil, err
	}
	stats.Generation = gen
	if !m.accept(mesh, stats) {
		return nil, ErrSuperseded
	}
	return mesh, nil
}

// Schedule requests a background rebuild after the debounce period. Calls
// arriving within the period collapse into one rebuild.
func (m *Manager) Schedule() {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	m.debounced(func() { m.runScheduled(gen) })
}

func (m *Manager) runScheduled(gen uint64) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.log.WithField("generation", gen).Debug("scheduled rebuild superseded before start")
		return
	}
	objs := m.snapshot()
	m.mu.Unlock()

	mesh, stats, err := m.build(objs)
	if err != nil {
		m.log.WithError(err).WithField("generation", gen).Warn("rebuild failed, keeping last result")
		return
	}

	stats.Generation = gen
	m.accept(mesh, stats)
}

// accept publishes mesh unless a newer rebuild was requested since it
// started. The check and the store happen under one lock, so a slow
// rebuild can never replace a newer result.
func (m *Manager) accept(mesh *kernel.Mesh, stats Stats) bool {
	m.mu.Lock()
	if stats.Generation != m.generation {
		m.mu.Unlock()
		m.log.WithFields(logrus.Fields{
			"generation": stats.Generation,
			"current":    m.generation,
		}).Debug("dropping superseded rebuild")
		return false
	}
	m.result = mesh
	m.stats = stats
	subs := slices.Clone(m.subscribers)
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"generation": stats.Generation,
		"triangles":  stats.Triangles,
		"holes_cut":  stats.HolesCut,
		"elapsed":    stats.Elapsed,
	}).Debug("rebuild accepted")

	for _, fn := range subs {
		fn(mesh)
	}
	return true
}

// holeEntry indexes a hole solid by its world bounds.
type holeEntry struct {
	order int
	solid *csg.Solid
	rect  rtreego.Rect
}

func (h *holeEntry) Bounds() rtreego.Rect { return h.rect }

func boundsRect(s *csg.Solid) (rtreego.Rect, bool) {
	mn, mx, ok := s.Bounds()
	if !ok {
		return rtreego.Rect{}, false
	}
	r, err := rtreego.NewRectFromPoints(rtreego.Point{mn[0], mn[1], mn[2]}, rtreego.Point{mx[0], mx[1], mx[2]})
	return r, err == nil
}

// build computes (union of sources) minus (union of holes). Holes whose
// bounds miss the source union are not evaluated.
func (m *Manager) build(objs []Object) (*kernel.Mesh, Stats, error) {
	start := time.Now()
	sources := lo.Filter(objs, func(o Object, _ int) bool { return o.Role == RoleSource })
	holes := lo.Filter(objs, func(o Object, _ int) bool { return o.Role == RoleHole })
	stats := Stats{Sources: len(sources), Holes: len(holes)}

	if len(sources) == 0 {
		m.log.WithField("holes", len(holes)).Warn("scene has no source objects, result is empty")
		stats.EmptyResult = true
		stats.Elapsed = time.Since(start)
		return csg.BuildMesh(nil), stats, nil
	}

	var body *csg.Solid
	for _, o := range sources {
		s, err := o.Solid()
		if err != nil {
			return nil, stats, err
		}
		if body == nil {
			body = s
			continue
		}
		body = m.eval.UnionSolids(body, s)
	}

	if bodyRect, ok := boundsRect(body); ok && len(holes) > 0 {
		tree := rtreego.NewTree(3, 2, 8)
		for i, o := range holes {
			s, err := o.Solid()
			if err != nil {
				return nil, stats, err
			}
			if r, ok := boundsRect(s); ok {
				tree.Insert(&holeEntry{order: i, solid: s, rect: r})
			}
		}

		hits := lo.Map(tree.SearchIntersect(bodyRect), func(sp rtreego.Spatial, _ int) *holeEntry {
			return sp.(*holeEntry)
		})
		slices.SortFunc(hits, func(a, b *holeEntry) int { return a.order - b.order })

		for _, h := range hits {
			body = m.eval.SubtractSolids(body, h.solid)
		}
		stats.HolesCut = len(hits)
	}

	mesh := csg.BuildMesh(body)
	stats.Triangles = mesh.TriangleCount()
	stats.EmptyResult = mesh.IsEmpty()
	stats.Elapsed = time.Since(start)
	return mesh, stats, nil
}
