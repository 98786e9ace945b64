package runtime

import "fmt"

// CallStack is a LIFO of ActivationRecords representing the dynamic
// invocation chain (spec §3 "CallStack"). The top frame is the current
// binding target.
type CallStack struct {
	frames []*ActivationRecord
}

func NewCallStack() *CallStack { return &CallStack{} }

func (c *CallStack) Push(ar *ActivationRecord) { c.frames = append(c.frames, ar) }

func (c *CallStack) Pop() *ActivationRecord {
	n := len(c.frames)
	ar := c.frames[n-1]
	c.frames = c.frames[:n-1]
	return ar
}

func (c *CallStack) Peek() *ActivationRecord {
	return c.frames[len(c.frames)-1]
}

// PeekPrev returns the frame `count` positions below the top, clamping to
// the bottom frame when the stack is shallower than requested — mirrors
// the original's peek_prev saturating behavior.
func (c *CallStack) PeekPrev(count int) *ActivationRecord {
	if count <= 0 {
		panic(fmt.Sprintf("invalid peek value %d on CallStack", count))
	}
	n := len(c.frames)
	if n >= count+1 {
		return c.frames[n-1-count]
	}
	if n >= 1 {
		return c.frames[n-1]
	}
	return nil
}

func (c *CallStack) Clear() { c.frames = nil }

func (c *CallStack) Len() int { return len(c.frames) }

// Get returns the frame at index, clamped to the top of the stack.
func (c *CallStack) Get(index int) *ActivationRecord {
	if index >= len(c.frames) {
		index = len(c.frames) - 1
	}
	return c.frames[index]
}

// CopyInto copies every binding from src into the frame at dstIndex,
// temporarily lifting read-only protection when ignoreReadOnly is set
// (spec §9(c) "ActivationRecord.copy(ignore_read_only)" — used when
// seeding a freshly-imported module's User AR with the importer's
// bindings).
func (c *CallStack) CopyInto(src *ActivationRecord, dstIndex int, ignoreReadOnly bool) error {
	dst := c.Get(dstIndex)
	wasReadOnly := dst.ReadOnly
	if ignoreReadOnly {
		dst.ReadOnly = false
	}
	var err error
	for _, name := range src.Names() {
		rec, _ := src.Local(name)
		if e := dst.Set(name, rec); e != nil {
			err = e
			break
		}
	}
	if ignoreReadOnly {
		dst.ReadOnly = wasReadOnly
	}
	return err
}

func (c *CallStack) String() string {
	s := fmt.Sprintf("%80s\n", " CALL-STACK ")
	for i := len(c.frames) - 1; i >= 0; i-- {
		s += c.frames[i].String() + "\n\n"
	}
	return s
}
