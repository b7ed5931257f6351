package gen

import "slices"

// FilterOperations returns the entity's operations whose action is in allowed,
// in introspection order. It returns nil when the entity is hidden or no
// operation survives; such an entity gets no router.
func FilterOperations(e *Entity, hidden Set, allowed []Action) []Operation {
	if hidden.Has(e.Name) {
		return nil
	}
	var ops []Operation
	for _, op := range e.Operations {
		if slices.Contains(allowed, op.Action()) {
			ops = append(ops, op)
		}
	}
	return ops
}
