package scene

import (
	"fmt"
	"sync"

	"github.com/Faultbox/orrery/pkg/math"
)

// NodeID identifies a renderable node. The zero value means "no node" and is
// used as the parent of root nodes.
type NodeID int

// Shape selects how a node's bounds are intersected.
type Shape int

const (
	// ShapeNone marks grouping nodes that are never hit directly.
	ShapeNone Shape = iota
	ShapeSphere
	ShapeBox
)

// Node is one renderable object. Marked nodes are positioned at their
// entity's world position plus Offset; unmarked nodes at their parent's
// position plus Offset.
type Node struct {
	ID     NodeID
	Parent NodeID
	Name   string

	Offset      math.Vec3
	Shape       Shape
	Radius      float32   // ShapeSphere
	HalfExtents math.Vec3 // ShapeBox

	// Hidden nodes are hit by rays but not drawn.
	Hidden bool
}

// Bounds is a node's world-space volume at a given time.
type Bounds struct {
	Node        NodeID
	Shape       Shape
	Center      math.Vec3
	Radius      float32
	HalfExtents math.Vec3
	Hidden      bool
}

// Graph is the renderable node hierarchy plus the node → entity marker map.
// It replaces name-prefix matching: a node belongs to an entity only when it
// was explicitly marked.
type Graph struct {
	mu      sync.RWMutex
	source  Source
	nodes   map[NodeID]*Node
	order   []NodeID
	markers map[NodeID]string
	next    NodeID
}

// NewGraph creates an empty graph resolving marked positions through source.
func NewGraph(source Source) *Graph {
	return &Graph{
		source:  source,
		nodes:   make(map[NodeID]*Node),
		markers: make(map[NodeID]string),
	}
}

// Add inserts a node under parent (0 for a root) and returns its id.
func (g *Graph) Add(parent NodeID, n Node) (NodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if parent != 0 {
		if _, ok := g.nodes[parent]; !ok {
			return 0, fmt.Errorf("parent node %d not found", parent)
		}
	}

	g.next++
	n.ID = g.next
	n.Parent = parent
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return n.ID, nil
}

// Mark binds a node to an entity id.
func (g *Graph) Mark(id NodeID, entityID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("node %d not found", id)
	}
	g.markers[id] = entityID
	return nil
}

// RemoveEntity drops every node marked with entityID together with its
// descendants.
func (g *Graph) RemoveEntity(entityID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	doomed := make(map[NodeID]bool)
	for id, marker := range g.markers {
		if marker == entityID {
			doomed[id] = true
		}
	}
	// order is parent-before-child, so one pass catches all descendants.
	for _, id := range g.order {
		if doomed[g.nodes[id].Parent] {
			doomed[id] = true
		}
	}

	kept := g.order[:0]
	for _, id := range g.order {
		if doomed[id] {
			delete(g.nodes, id)
			delete(g.markers, id)
			continue
		}
		kept = append(kept, id)
	}
	g.order = kept
	return len(doomed)
}

// Node returns a copy of a node.
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Parent returns the parent of a node, false for roots and unknown nodes.
func (g *Graph) Parent(id NodeID) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok || n.Parent == 0 {
		return 0, false
	}
	return n.Parent, true
}

// Marker returns the entity id a node is bound to.
func (g *Graph) Marker(id NodeID) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.markers[id]
	return e, ok
}

// Owner walks up from a node to the first marked ancestor (or the node
// itself) and returns its entity id.
func (g *Graph) Owner(id NodeID) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for id != 0 {
		if e, ok := g.markers[id]; ok {
			return e, true
		}
		n, ok := g.nodes[id]
		if !ok {
			return "", false
		}
		id = n.Parent
	}
	return "", false
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Bounds returns the world-space bounds of every hittable node at time t.
// Nodes whose marked entity is no longer registered are skipped along with
// their descendants.
func (g *Graph) Bounds(t float64) []Bounds {
	g.mu.RLock()
	defer g.mu.RUnlock()

	centers := make(map[NodeID]math.Vec3, len(g.order))
	out := make([]Bounds, 0, len(g.order))

	for _, id := range g.order {
		n := g.nodes[id]

		var base math.Vec3
		if entityID, marked := g.markers[id]; marked {
			e, ok := g.source.Entity(entityID)
			if !ok {
				continue
			}
			base = e.WorldPosition(t)
		} else if n.Parent != 0 {
			parent, ok := centers[n.Parent]
			if !ok {
				continue
			}
			base = parent
		}

		center := base.Add(n.Offset)
		centers[id] = center

		if n.Shape == ShapeNone {
			continue
		}
		out = append(out, Bounds{
			Node:        id,
			Shape:       n.Shape,
			Center:      center,
			Radius:      n.Radius,
			HalfExtents: n.HalfExtents,
			Hidden:      n.Hidden,
		})
	}
	return out
}
