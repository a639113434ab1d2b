package weddingform

import "github.com/skyphotography/wedding-portal-backend/internal/domain"

// Command is one state transition of a form working copy.
type Command interface {
	apply(state domain.FieldMap) domain.FieldMap
}

// LoadForm merges fetched values over the current state. Nil values are skipped.
type LoadForm struct {
	Data domain.FieldMap
}

// UpdateField replaces one value.
type UpdateField struct {
	Name  string
	Value any
}

// UpdateSection merges many values in a single transition.
type UpdateSection struct {
	Values domain.FieldMap
}

// ResetForm returns to defaults.
type ResetForm struct{}

// Reduce applies cmd without mutating state.
func Reduce(state domain.FieldMap, cmd Command) domain.FieldMap {
	if cmd == nil {
		return state
	}
	return cmd.apply(state)
}

func (c LoadForm) apply(state domain.FieldMap) domain.FieldMap {
	next := state.Clone()
	for k, v := range c.Data {
		if v == nil {
			continue
		}
		next[k] = normalize(v)
	}
	return next
}

func (c UpdateField) apply(state domain.FieldMap) domain.FieldMap {
	next := state.Clone()
	next[c.Name] = normalize(c.Value)
	return next
}

func (c UpdateSection) apply(state domain.FieldMap) domain.FieldMap {
	next := state.Clone()
	for k, v := range c.Values {
		next[k] = normalize(v)
	}
	return next
}

func (ResetForm) apply(domain.FieldMap) domain.FieldMap {
	return Defaults()
}
