package types

// This file implements spec.md §4.1's row-unification algorithm,
// shared by Record (KRecordRow) and EffectRow (KEffectRow): partition
// both sides' labels into common and side-unique sets, unify the
// common labels' payload types pairwise, then reconcile the unique
// labels against the other side's tail. Grounded on the teacher's
// types/row_unification.go row-extension algorithm, generalized to
// also drive EffectRow (the teacher only rows records).

func (u *Unifier) unifyRecordRow(a, b *Record) error {
	aFields := map[string]Type{}
	for _, f := range a.Fields {
		aFields[f.Name] = f.Type
	}
	bFields := map[string]Type{}
	for _, f := range b.Fields {
		bFields[f.Name] = f.Type
	}

	var onlyA, onlyB []RecordField
	for _, f := range a.Fields {
		if bt, ok := bFields[f.Name]; ok {
			if err := u.Unify(u.resolve(f.Type), u.resolve(bt)); err != nil {
				return err
			}
		} else {
			onlyA = append(onlyA, f)
		}
	}
	for _, f := range b.Fields {
		if _, ok := aFields[f.Name]; !ok {
			onlyB = append(onlyB, f)
		}
	}

	switch {
	case len(onlyA) == 0 && len(onlyB) == 0:
		return u.unifyRowTails(a.Row, b.Row, func(fields []RecordField, tail *Var) Type {
			return &Record{Fields: fields, Row: tail}
		})
	case len(onlyA) > 0 && b.Row == nil:
		return &UnifyError{Reason: "missing_field", Left: a, Right: b}
	case len(onlyB) > 0 && a.Row == nil:
		return &UnifyError{Reason: "missing_field", Left: a, Right: b}
	case b.Row == nil:
		// Only the closed side b has unique fields: a's tail closes over them.
		return u.bind(a.Row.ID, &Record{Fields: onlyB})
	case a.Row == nil:
		return u.bind(b.Row.ID, &Record{Fields: onlyA})
	default:
		// Both sides are open: extend each tail with the fields only the
		// other side has, closing both over a freshly minted shared tail
		// variable. Binding either tail to the other's own *Var would make
		// that var occur in its own binding once wrapped in the Record, so
		// occursIn would always fail the unification.
		shared := &Var{ID: u.freshRowVar()}
		if err := u.bind(a.Row.ID, &Record{Fields: onlyB, Row: shared}); err != nil {
			return err
		}
		if err := u.bind(b.Row.ID, &Record{Fields: onlyA, Row: shared}); err != nil {
			return err
		}
		return nil
	}
}

func (u *Unifier) unifyRowTails(a, b *Var, _ func([]RecordField, *Var) Type) error {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return &UnifyError{Reason: "missing_field", Left: &Record{}, Right: &Record{Row: b}}
	case b == nil:
		return &UnifyError{Reason: "missing_field", Left: &Record{Row: a}, Right: &Record{}}
	default:
		return u.bind(a.ID, b)
	}
}

func (u *Unifier) unifyEffectRow(a, b *EffectRow) error {
	aCases := map[string]Type{}
	for _, c := range a.Cases {
		aCases[c.Label] = c.Payload
	}
	bCases := map[string]Type{}
	for _, c := range b.Cases {
		bCases[c.Label] = c.Payload
	}

	var onlyA, onlyB []EffectCase
	for _, c := range a.Cases {
		if bp, ok := bCases[c.Label]; ok {
			if c.Payload != nil && bp != nil {
				if err := u.Unify(u.resolve(c.Payload), u.resolve(bp)); err != nil {
					return err
				}
			}
		} else {
			onlyA = append(onlyA, c)
		}
	}
	for _, c := range b.Cases {
		if _, ok := aCases[c.Label]; !ok {
			onlyB = append(onlyB, c)
		}
	}

	// A wildcard tail absorbs any unmatched label from the other side
	// without requiring a tail variable of its own (spec.md §9's unified
	// discharge rule: a catch-all arm's row is the wildcard row).
	if a.HasTailWildcard && b.HasTailWildcard {
		return nil
	}
	if a.HasTailWildcard {
		return nil
	}
	if b.HasTailWildcard {
		return nil
	}

	switch {
	case len(onlyA) == 0 && len(onlyB) == 0:
		return u.unifyEffectTails(a.Tail, b.Tail)
	case a.Tail == nil && len(onlyB) > 0:
		return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
	case b.Tail == nil && len(onlyA) > 0:
		return &UnifyError{Reason: "type_mismatch", Left: a, Right: b}
	case b.Tail == nil:
		// Only the closed side b has unique labels: a's tail closes over them.
		return u.bind(a.Tail.ID, &EffectRow{Cases: onlyB})
	case a.Tail == nil:
		return u.bind(b.Tail.ID, &EffectRow{Cases: onlyA})
	default:
		// Same shared-fresh-tail fix as unifyRecordRow's both-open case:
		// binding b.Tail into a value that itself carries b.Tail would
		// make it occur in its own binding.
		shared := &Var{ID: u.freshRowVar()}
		if err := u.bind(a.Tail.ID, &EffectRow{Cases: onlyB, Tail: shared}); err != nil {
			return err
		}
		if err := u.bind(b.Tail.ID, &EffectRow{Cases: onlyA, Tail: shared}); err != nil {
			return err
		}
		return nil
	}
}

func (u *Unifier) unifyEffectTails(a, b *Var) error {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return &UnifyError{Reason: "type_mismatch", Left: &EffectRow{}, Right: &EffectRow{Tail: b}}
	case b == nil:
		return &UnifyError{Reason: "type_mismatch", Left: &EffectRow{Tail: a}, Right: &EffectRow{}}
	default:
		return u.bind(a.ID, b)
	}
}
