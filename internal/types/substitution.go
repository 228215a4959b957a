package types

// Substitution maps unification-variable ids to the types they have
// been resolved to. Grounded on the teacher's types/unification.go
// Substitution map plus its apply/compose helpers.
type Substitution map[uint64]Type

// ApplySubstitution walks t, replacing any Var whose id is in sub with
// its mapping, recursively (so chains a -> b -> Int resolve fully as
// long as sub itself is kept path-compressed by the caller).
func ApplySubstitution(sub Substitution, t Type) Type {
	if len(sub) == 0 {
		return t
	}
	switch t := t.(type) {
	case *Var:
		if repl, ok := sub[t.ID]; ok {
			return ApplySubstitution(sub, repl)
		}
		return t
	case *Func:
		return &Func{From: ApplySubstitution(sub, t.From), To: ApplySubstitution(sub, t.To)}
	case *Tuple:
		elems := make([]Type, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = ApplySubstitution(sub, e)
		}
		return &Tuple{Elements: elems}
	case *Record:
		fields := make([]RecordField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = RecordField{Name: f.Name, Type: ApplySubstitution(sub, f.Type)}
		}
		row := t.Row
		if row != nil {
			if repl, ok := sub[row.ID]; ok {
				switch r := ApplySubstitution(sub, repl).(type) {
				case *Record:
					// row variable resolved to another (possibly open) record;
					// splice its fields in and adopt its tail.
					fields = append(fields, r.Fields...)
					return &Record{Fields: fields, Row: r.Row}
				case *Var:
					return &Record{Fields: fields, Row: r}
				}
			}
		}
		return &Record{Fields: fields, Row: row}
	case *Constructor:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = ApplySubstitution(sub, a)
		}
		return &Constructor{Name: t.Name, Args: args}
	case *Array:
		return &Array{Length: t.Length, Element: ApplySubstitution(sub, t.Element)}
	case *EffectRow:
		return applySubstitutionEffectRow(sub, t)
	default:
		return t
	}
}

func applySubstitutionEffectRow(sub Substitution, t *EffectRow) Type {
	cases := make([]EffectCase, len(t.Cases))
	for i, c := range t.Cases {
		cc := EffectCase{Label: c.Label}
		if c.Payload != nil {
			cc.Payload = ApplySubstitution(sub, c.Payload)
		}
		cases[i] = cc
	}
	tail := t.Tail
	hasWildcard := t.HasTailWildcard
	if tail != nil {
		if repl, ok := sub[tail.ID]; ok {
			switch r := ApplySubstitution(sub, repl).(type) {
			case *EffectRow:
				cases = append(cases, r.Cases...)
				tail = r.Tail
				hasWildcard = hasWildcard || r.HasTailWildcard
			case *Var:
				tail = r
			}
		}
	}
	return &EffectRow{Cases: cases, Tail: tail, HasTailWildcard: hasWildcard}
}

// Compose returns the substitution equivalent to applying `inner` then
// `outer` (outer after inner), matching the teacher's compose order.
func Compose(outer, inner Substitution) Substitution {
	out := Substitution{}
	for k, v := range inner {
		out[k] = ApplySubstitution(outer, v)
	}
	for k, v := range outer {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
