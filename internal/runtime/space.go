package runtime

import "fmt"

// Space is implemented by every reflective scope-object handle (spec §3
// "Scope objects (Spaces)"): a first-class value that exposes an
// ActivationRecord for attribute-style reads and `using`-entry.
type Space interface {
	AR() (*ActivationRecord, error)
	String() string
}

// ModuleSpace exposes an imported module's frozen Global AR.
type ModuleSpace struct {
	Filename string
	Name     string
	Global   *ActivationRecord
}

func (m *ModuleSpace) AR() (*ActivationRecord, error) { return m.Global, nil }
func (m *ModuleSpace) String() string {
	return fmt.Sprintf("Module(<Name: %q, File: %s>)", m.Name, m.Filename)
}

// NamedSpace is an AR promoted to a first-class value by `export`.
type NamedSpace struct {
	Name string
	Rec  *ActivationRecord
}

func (s *NamedSpace) AR() (*ActivationRecord, error) { return s.Rec, nil }
func (s *NamedSpace) String() string {
	return fmt.Sprintf("Space(<Name: %q, Space: %s, Values: %d>)", s.Name, s.Rec.Name, s.Rec.Len())
}

// CurrentSpace reflects the live top frame of the owning CallStack at
// read time (not a snapshot).
type CurrentSpace struct {
	Stack *CallStack
}

func (c *CurrentSpace) AR() (*ActivationRecord, error) { return c.Stack.Peek(), nil }
func (c *CurrentSpace) String() string {
	ar := c.Stack.Peek()
	return fmt.Sprintf("Space(<Name: CurrentSpace, Space: %s, Values: %d>)", ar.Name, ar.Len())
}

// PrevSpace reflects the frame directly below the top.
type PrevSpace struct {
	Stack *CallStack
}

func (p *PrevSpace) AR() (*ActivationRecord, error) { return p.Stack.PeekPrev(1), nil }
func (p *PrevSpace) String() string {
	ar := p.Stack.PeekPrev(1)
	return fmt.Sprintf("Space(<Name: PrevSpace, Space: %s, Values: %d>)", ar.Name, ar.Len())
}

// IdentityError is raised when a PrivateSpace handle's owning-evaluator
// identity does not match the evaluator attempting to use it.
type IdentityError struct{}

func (e *IdentityError) Error() string { return "access denied: Private space identity mismatch" }

// PrivateSpace exposes the evaluator's detached Private AR and records
// the owning evaluator's identity in OwnerID (spec §3 "Scope objects").
// AR() performs no identity check; VerifyIdentity is the only comparison
// against OwnerID.
type PrivateSpace struct {
	OwnerID  int64
	Private  *ActivationRecord
}

func (p *PrivateSpace) AR() (*ActivationRecord, error) { return p.Private, nil }
func (p *PrivateSpace) String() string {
	return fmt.Sprintf("Space(<Name: Private, Space: %s, Values: %d>)", p.Private.Name, p.Private.Len())
}

// VerifyIdentity checks a caller-supplied identity against the space's
// owning evaluator.
func (p *PrivateSpace) VerifyIdentity(id int64) error {
	if id != p.OwnerID {
		return &IdentityError{}
	}
	return nil
}
