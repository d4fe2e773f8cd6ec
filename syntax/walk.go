package syntax

// VisitResult steers a Walk.
type VisitResult int

const (
	// Continue descends into the node's children.
	Continue VisitResult = iota
	// SkipChildren moves on to the next sibling.
	SkipChildren
	// Stop unwinds the whole walk immediately.
	Stop
)

// Walk visits r and its descendants in pre-order. It returns false if a visit asked to Stop.
func (r Ref) Walk(visit func(Ref) VisitResult) bool {
	if r.IsNil() {
		return true
	}
	switch visit(r) {
	case Stop:
		return false
	case SkipChildren:
		return true
	}
	for _, c := range r.node().Children {
		if !(Ref{r.tree, c}).Walk(visit) {
			return false
		}
	}
	return true
}
