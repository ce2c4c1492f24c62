package pipeline

import (
	"fmt"
)

// Registry maps step identifiers to implementations. Registration order is
// preserved for listing, but execution order is always the caller's request
// order; the registry's job is eager resolution so that unknown identifiers
// fail before any step runs.
type Registry struct {
	steps map[string]Step
	order []string
}

// NewRegistry creates an empty step registry.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[string]Step),
		order: make([]string, 0),
	}
}

// Register adds a step to the registry.
func (r *Registry) Register(step Step) error {
	if step == nil {
		return fmt.Errorf("cannot register nil step")
	}
	id := step.ID()
	if id == "" {
		return fmt.Errorf("step ID cannot be empty")
	}
	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("step with ID %s already registered", id)
	}

	r.steps[id] = step
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a step by ID.
func (r *Registry) Get(id string) (Step, error) {
	step, exists := r.steps[id]
	if !exists {
		return nil, NewUnknownStepError(id)
	}
	return step, nil
}

// Has checks if a step is registered.
func (r *Registry) Has(id string) bool {
	_, exists := r.steps[id]
	return exists
}

// Resolve maps the requested identifiers to steps, in request order. The
// whole request is rejected on the first unknown identifier.
func (r *Registry) Resolve(ids []string) ([]Step, error) {
	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		step, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// List returns all registered steps in registration order.
func (r *Registry) List() []Step {
	steps := make([]Step, 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// ListIDs returns all registered step IDs in registration order.
func (r *Registry) ListIDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Count returns the number of registered steps.
func (r *Registry) Count() int {
	return len(r.steps)
}
