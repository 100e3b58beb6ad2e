package tsast

// TypeRefs calls visit for every named type referenced by t, depth first
// in source order. Type arguments are visited after their reference.
func TypeRefs(t Type, visit func(name string)) {
	switch t := t.(type) {
	case *TypeRef:
		visit(t.Name)
		for _, a := range t.Args {
			TypeRefs(a, visit)
		}
	case *Union:
		for _, m := range t.Types {
			TypeRefs(m, visit)
		}
	case *Intersection:
		for _, m := range t.Types {
			TypeRefs(m, visit)
		}
	case *ArrayOf:
		TypeRefs(t.Elem, visit)
	case *TypeLit:
		for _, m := range t.Members {
			TypeRefs(m.Type, visit)
		}
		if t.Index != nil {
			TypeRefs(t.Index.KeyType, visit)
			TypeRefs(t.Index.Value, visit)
		}
	case *IndexedAccess:
		TypeRefs(t.Object, visit)
		TypeRefs(t.Index, visit)
	case *Commented:
		TypeRefs(t.Type, visit)
	}
}
