package graph

import (
	"go.uber.org/zap"

	"entity-graph/backend/internal/dataset"
	"entity-graph/backend/pkg/logger"
)

// Deriver computes the read-only projections the API serves. Every method is
// a pure function of the store, so a Deriver is safe for concurrent use.
type Deriver struct {
	store  *dataset.Store
	logger *zap.Logger
}

// NewDeriver creates a deriver over a loaded store
func NewDeriver(store *dataset.Store) *Deriver {
	return &Deriver{
		store:  store,
		logger: logger.Get(),
	}
}

// Dataset returns every record unchanged, in source order
func (d *Deriver) Dataset() []dataset.Record {
	return d.store.Records()
}

// Graph returns the parent-level network. Nodes are the distinct
// Entity1_Parent/Entity2_Parent values in first-seen order; edges are one per
// record, in record order, and may repeat.
func (d *Deriver) Graph() View {
	records := d.store.Records()

	nodes := newOrderedSet(len(records))
	edges := make([]Edge, 0, len(records))
	for _, r := range records {
		nodes.add(r.Entity1Parent)
		nodes.add(r.Entity2Parent)
		edges = append(edges, Edge{Source: r.Entity1Parent, Target: r.Entity2Parent})
	}

	d.logger.Debug("Derived graph view",
		zap.Int("nodes", len(nodes.list())),
		zap.Int("edges", len(edges)),
	)
	return View{Nodes: nodes.list(), Edges: edges}
}

// ChildNodes returns the "name/type" ids of both entities of every record
// where either side belongs to parent, deduplicated in first-seen order.
// Both sides are emitted even when only one of them matched.
func (d *Deriver) ChildNodes(parent string) []string {
	children := newOrderedSet(0)
	for _, r := range d.store.Records() {
		if r.Entity1Parent != parent && r.Entity2Parent != parent {
			continue
		}
		children.add(ChildID(r.Entity1, r.Entity1Type))
		children.add(ChildID(r.Entity2, r.Entity2Type))
	}

	d.logger.Debug("Derived child nodes",
		zap.String("parent", parent),
		zap.Int("count", len(children.list())),
	)
	return children.list()
}

// ConnectedParents returns the parents sharing at least one record with
// parent. Self loops never contribute. The result is a set; it is returned
// in first-seen order.
func (d *Deriver) ConnectedParents(parent string) []string {
	connected := newOrderedSet(0)
	for _, r := range d.store.Records() {
		if r.Entity1Parent == parent && r.Entity2Parent != parent {
			connected.add(r.Entity2Parent)
		}
		if r.Entity2Parent == parent && r.Entity1Parent != parent {
			connected.add(r.Entity1Parent)
		}
	}

	d.logger.Debug("Derived connected parents",
		zap.String("parent", parent),
		zap.Int("count", len(connected.list())),
	)
	return connected.list()
}

// RecordCount is the number of rows behind every view
func (d *Deriver) RecordCount() int {
	return d.store.Len()
}
