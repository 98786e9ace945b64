package runtime

import "fmt"

// ARKind tags the role an ActivationRecord plays in the scope chain
// (spec §3 "ActivationRecord").
type ARKind int

const (
	KindBuiltIn ARKind = iota
	KindGlobal
	KindProcedure
	KindFunction
	KindClass
	KindInternClass
	KindModule
	KindUser
	KindPrivate
)

func (k ARKind) String() string {
	switch k {
	case KindBuiltIn:
		return "BuiltIn"
	case KindGlobal:
		return "Global"
	case KindProcedure:
		return "Procedure"
	case KindFunction:
		return "Function"
	case KindClass:
		return "Class"
	case KindInternClass:
		return "InternClass"
	case KindModule:
		return "Module"
	case KindUser:
		return "User"
	case KindPrivate:
		return "Private"
	}
	return "Unknown"
}

// ProtectionError is raised on a write to a read-only ActivationRecord.
type ProtectionError struct{ Message string }

func (e *ProtectionError) Error() string { return e.Message }

// NameError is raised when a lookup walks the whole parent chain without
// finding the requested name.
type NameError struct{ Name string }

func (e *NameError) Error() string { return fmt.Sprintf("%q [On KandyScript]", e.Name) }

// ActivationRecord is an ordered name->Record binding map tagged with a
// kind, a nesting level, and a parent link forming the lexical scope
// chain (spec §3 "ActivationRecord").
type ActivationRecord struct {
	Name          string
	Kind          ARKind
	NestingLevel  int
	Parent        *ActivationRecord
	ReadOnly      bool

	order   []string
	members map[string]*Record
}

// NewActivationRecord creates an empty AR with the given identity and
// lexical parent (nil for a root frame).
func NewActivationRecord(name string, kind ARKind, nestingLevel int, parent *ActivationRecord) *ActivationRecord {
	return &ActivationRecord{
		Name:         name,
		Kind:         kind,
		NestingLevel: nestingLevel,
		Parent:       parent,
		members:      make(map[string]*Record),
	}
}

// Define inserts or replaces a binding by name, bypassing read-only
// enforcement — used for initial seeding before an AR is frozen.
func (ar *ActivationRecord) Define(name string, rec *Record) {
	if _, exists := ar.members[name]; !exists {
		ar.order = append(ar.order, name)
	}
	ar.members[name] = rec
}

// Set inserts or replaces a binding, honoring ReadOnly.
func (ar *ActivationRecord) Set(name string, rec *Record) error {
	if ar.ReadOnly {
		return &ProtectionError{Message: "Access denied to edit values in this space."}
	}
	ar.Define(name, rec)
	return nil
}

// Has reports whether name is bound locally in this AR.
func (ar *ActivationRecord) Has(name string) bool {
	_, ok := ar.members[name]
	return ok
}

// Local returns the locally-bound Record, if any.
func (ar *ActivationRecord) Local(name string) (*Record, bool) {
	r, ok := ar.members[name]
	return r, ok
}

// Get resolves name per spec §3's lookup semantics: check the local map
// first; if absent and not localOnly, recurse along Parent with
// privateAllowed forced false so private names are never inherited
// across frames.
func (ar *ActivationRecord) Get(name string, localOnly bool, privateAllowed bool) (*Record, error) {
	if rec, ok := ar.members[name]; ok {
		if rec.Private && !privateAllowed {
			// fall through to parent lookup as if not found locally
		} else {
			return rec, nil
		}
	}
	if !localOnly && ar.Parent != nil {
		return ar.Parent.Get(name, false, false)
	}
	return nil, &NameError{Name: name}
}

// Remove deletes a binding — the evaluator's DeleteStatement is a
// deliberate no-op (spec §9(b)), so nothing in the core currently calls
// this, but it mirrors the original's `__delitem__` for parity.
func (ar *ActivationRecord) Remove(name string) {
	delete(ar.members, name)
	for i, n := range ar.order {
		if n == name {
			ar.order = append(ar.order[:i], ar.order[i+1:]...)
			break
		}
	}
}

// Names returns bound names in insertion order.
func (ar *ActivationRecord) Names() []string {
	out := make([]string, len(ar.order))
	copy(out, ar.order)
	return out
}

// Len returns the number of locally-bound names.
func (ar *ActivationRecord) Len() int { return len(ar.members) }

func (ar *ActivationRecord) String() string {
	s := fmt.Sprintf("AR in level %d: [%s] %s", ar.NestingLevel, ar.Kind, ar.Name)
	for _, name := range ar.order {
		s += fmt.Sprintf("\n   %-20s: %v", name, ar.members[name].Value)
	}
	return s
}
