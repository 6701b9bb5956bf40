package dom

// closedDisposal is shared by every node that is already gone.
var closedDisposal = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Disposal returns a channel that closes when n stops being part of its
// document. A node that is already detached, or was never attached, gets
// a channel that is closed on return. Each call returns an independent
// channel; after a reattachment a fresh call arms a fresh watch.
//
// Liveness is evaluated once per mutating call, against the tree as that
// call leaves it. The channel may be consumed from any goroutine.
//
// Disposal fails with ErrNoObservation when the node's document was built
// with WithoutObservation, because such a document cannot promise that
// removals will ever be noticed.
func Disposal(n *Node) (<-chan struct{}, error) {
	if n == nil {
		return nil, ErrNilNode
	}
	d := n.document()
	if d == nil {
		return closedDisposal, nil
	}
	if !d.observing {
		return nil, ErrNoObservation
	}
	if !d.alive(n) {
		return closedDisposal, nil
	}
	return d.watch(n), nil
}
