package dom

import "errors"

// ErrNoObservation is returned when mutation observation is requested from
// a document built without it.
var ErrNoObservation = errors.New("dom: document does not observe mutations")

// MutationKind discriminates mutation records.
type MutationKind uint8

const (
	MutChildList MutationKind = iota // children added or removed
	MutAttr                          // attribute set or removed
	MutText                          // text node content changed
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutChildList:
		return "ChildList"
	case MutAttr:
		return "Attr"
	case MutText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Mutation is a single observed change. For MutChildList the Target is the
// parent and Before anchors insertions (nil means appended). For MutAttr
// and MutText the Target is the changed node itself.
type Mutation struct {
	Kind    MutationKind
	Target  *Node
	Added   []*Node
	Removed []*Node
	Before  *Node
	Attr    string
	Value   string
	Deleted bool
}

// Observer receives mutation records synchronously, during the mutating
// call that produced them.
type Observer func(Mutation)

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithoutObservation builds a document that cannot report mutations.
// Observe and Disposal fail with ErrNoObservation on such a document.
func WithoutObservation() DocumentOption {
	return func(d *Document) { d.observing = false }
}

// WithLiveness replaces the connectivity check used to decide whether a
// watched node is still part of the document. The default considers a
// node live while it is reachable from the document root.
func WithLiveness(alive func(*Node) bool) DocumentOption {
	return func(d *Document) { d.liveness = alive }
}

// Document owns a tree of nodes rooted at a body element, observes its
// mutations, and resolves disposal watches. See the package comment for
// the goroutine confinement rule.
type Document struct {
	root      *Node
	observers []*observerReg
	watchers  []*watcher
	liveness  func(*Node) bool
	observing bool
}

type observerReg struct {
	fn      Observer
	removed bool
}

type watcher struct {
	node *Node
	ch   chan struct{}
}

// NewDocument creates an empty document with observation enabled.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{observing: true}
	for _, opt := range opts {
		opt(d)
	}
	root := newElement("body")
	root.doc = d
	d.root = root
	return d
}

// Root returns the document's body element.
func (d *Document) Root() *Node { return d.root }

// Contains reports whether n is reachable from the document root.
func (d *Document) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	return d.root.contains(n)
}

// FindByID returns the node with the given id, or nil.
func (d *Document) FindByID(id uint64) *Node {
	return d.root.FindByID(id)
}

// Observe registers fn for all subsequent mutations and returns a cancel
// function. It fails with ErrNoObservation on a non-observing document.
func (d *Document) Observe(fn Observer) (func(), error) {
	if !d.observing {
		return nil, ErrNoObservation
	}
	if fn == nil {
		return func() {}, nil
	}
	reg := &observerReg{fn: fn}
	d.observers = append(d.observers, reg)
	cancel := func() {
		if reg.removed {
			return
		}
		reg.removed = true
		for i, r := range d.observers {
			if r == reg {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				break
			}
		}
	}
	return cancel, nil
}

// CanObserve reports whether the document reports mutations.
func (d *Document) CanObserve() bool { return d.observing }

// alive applies the liveness policy to n.
func (d *Document) alive(n *Node) bool {
	if d.liveness != nil {
		return d.liveness(n)
	}
	return d.Contains(n)
}

// mutated delivers one record to all observers. The observer list is
// snapshotted so observers may cancel themselves or register others
// while being notified.
func (d *Document) mutated(m Mutation) {
	if !d.observing || len(d.observers) == 0 {
		return
	}
	snapshot := make([]*observerReg, len(d.observers))
	copy(snapshot, d.observers)
	for _, reg := range snapshot {
		if reg.removed {
			continue
		}
		reg.fn(m)
	}
}

// settle re-evaluates every disposal watch against the tree as it stands
// after a mutating call, closing the channels of nodes that are no longer
// live. Mutators call it exactly once per public operation, which gives
// watchers call-level granularity: intermediate states inside one call
// are never observed.
func (d *Document) settle() {
	if !d.observing || len(d.watchers) == 0 {
		return
	}
	kept := d.watchers[:0]
	for _, w := range d.watchers {
		if d.alive(w.node) {
			kept = append(kept, w)
			continue
		}
		close(w.ch)
	}
	for i := len(kept); i < len(d.watchers); i++ {
		d.watchers[i] = nil
	}
	d.watchers = kept
}

// watch registers a disposal watch for n. The caller has already checked
// observation capability and current liveness.
func (d *Document) watch(n *Node) <-chan struct{} {
	w := &watcher{node: n, ch: make(chan struct{})}
	d.watchers = append(d.watchers, w)
	return w.ch
}
