package domain

import (
	"fmt"
	"slices"
	"sort"
)

// FieldUpdates maps updatable fields to normalized values.
type FieldUpdates map[FieldName]any

// Fields returns the field names in a deterministic order.
func (u FieldUpdates) Fields() []FieldName {
	fields := make([]FieldName, 0, len(u))
	for f := range u {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Wire converts the updates to JSON-ready values (dates become ISO strings).
func (u FieldUpdates) Wire() map[string]any {
	out := make(map[string]any, len(u))
	for f, v := range u {
		out[string(f)] = WireValue(v)
	}
	return out
}

// WireValue converts a normalized field value into its JSON representation.
func WireValue(v any) any {
	switch t := v.(type) {
	case *Date:
		if t == nil {
			return nil
		}
		return t.String()
	case []string:
		if t == nil {
			return []string{}
		}
		return t
	}
	return v
}

// NormalizeFieldValue converts a decoded JSON value into the typed value used for
// field f. Empty strings and null clear a date; null clears followers.
func NormalizeFieldValue(f FieldName, raw any) (any, error) {
	if !IsUpdatable(f) {
		return nil, fmt.Errorf("field %q is not updatable", f)
	}
	switch f {
	case FieldActualClosingDate:
		switch t := raw.(type) {
		case nil:
			return (*Date)(nil), nil
		case *Date:
			return t, nil
		case Date:
			return t.Ptr(), nil
		case string:
			if t == "" {
				return (*Date)(nil), nil
			}
			d, err := ParseDate(t)
			if err != nil {
				return nil, err
			}
			return d.Ptr(), nil
		}
		return nil, fmt.Errorf("field %q expects a date string, got %T", f, raw)
	case FieldFollowUpFriday:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("field %q expects a boolean, got %T", f, raw)
		}
		return b, nil
	case FieldFollowers:
		switch t := raw.(type) {
		case nil:
			return []string(nil), nil
		case []string:
			return slices.Clone(t), nil
		case []any:
			out := make([]string, 0, len(t))
			for _, item := range t {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("field %q expects a list of strings, got element %T", f, item)
				}
				out = append(out, s)
			}
			return out, nil
		}
		return nil, fmt.Errorf("field %q expects a list of strings, got %T", f, raw)
	}
	switch t := raw.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	}
	return nil, fmt.Errorf("field %q expects a string, got %T", f, raw)
}

// NormalizeUpdates normalizes a decoded JSON object of field updates.
func NormalizeUpdates(raw map[string]any) (FieldUpdates, error) {
	out := make(FieldUpdates, len(raw))
	for k, v := range raw {
		nv, err := NormalizeFieldValue(FieldName(k), v)
		if err != nil {
			return nil, err
		}
		out[FieldName(k)] = nv
	}
	return out, nil
}

// FieldValuesEqual compares two normalized values of field f.
// Absent and empty follower lists are equal.
func FieldValuesEqual(f FieldName, a, b any) bool {
	switch f {
	case FieldActualClosingDate:
		da, _ := a.(*Date)
		db, _ := b.(*Date)
		return DatesEqual(da, db)
	case FieldFollowers:
		fa, _ := a.([]string)
		fb, _ := b.([]string)
		return slices.Equal(fa, fb)
	}
	return a == b
}

// DiffUpdates returns the subset of updates whose value differs from the stored
// record. Boolean fields that are present are always kept so an unchanged boolean
// can be re-submitted on purpose.
func DiffUpdates(stored *Opportunity, updates FieldUpdates) (FieldUpdates, error) {
	diff := FieldUpdates{}
	for f, v := range updates {
		current, err := stored.Get(f)
		if err != nil {
			return nil, err
		}
		if _, isBool := v.(bool); isBool {
			diff[f] = v
			continue
		}
		if !FieldValuesEqual(f, current, v) {
			diff[f] = v
		}
	}
	return diff, nil
}

// ChangedEditableFields compares two versions of a record across the edit allow-list.
func ChangedEditableFields(seed, working *Opportunity) FieldUpdates {
	changed := FieldUpdates{}
	for _, f := range EditableFields {
		a, _ := seed.Get(f)
		b, _ := working.Get(f)
		if !FieldValuesEqual(f, a, b) {
			changed[f] = b
		}
	}
	return changed
}

// ApplyUpdates returns a copy of o with every update merged.
func (o *Opportunity) ApplyUpdates(updates FieldUpdates) (*Opportunity, error) {
	c := o.Clone()
	for f, v := range updates {
		if err := c.set(f, v); err != nil {
			return nil, err
		}
	}
	return c, nil
}
