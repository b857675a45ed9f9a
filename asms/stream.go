package asms

import (
	"iter"
)

// Handle addresses an instruction in a Stream.
// A handle goes stale when its instruction is removed; stale handles are rejected.
type Handle struct {
	index int32
	gen   uint32
}

func (h Handle) Valid() bool {
	return h.gen != 0
}

const none int32 = -1

type slot struct {
	inst *Instruction
	gen  uint32
	prev int32
	next int32
	live bool
}

// Stream is an instruction arena linked in program order.
type Stream struct {
	owner string
	slots []slot
	free  []int32
	head  int32
	tail  int32
	count int

	// labels bound to an instruction; pending labels bind to the next append or to the end
	marks   map[*Label]Handle
	pending []*Label

	code   []*Instruction
	frozen bool
	err    error
}

func NewStream(owner string) *Stream {
	return &Stream{
		owner: owner,
		head:  none,
		tail:  none,
		marks: make(map[*Label]Handle),
	}
}

func (s *Stream) Owner() string {
	return s.owner
}

func (s *Stream) Len() int {
	return s.count
}

// Err returns the first error recorded by Emit or EmitLabel.
func (s *Stream) Err() error {
	return s.err
}

// Emit appends the result of an instruction constructor, recording the first error.
func (s *Stream) Emit(inst *Instruction, err error) Handle {
	if s.err != nil {
		return Handle{}
	}
	if err != nil {
		s.err = err
		return Handle{}
	}
	h, err := s.Append(inst)
	if err != nil {
		s.err = err
	}
	return h
}

// EmitLabel marks label at the next emitted instruction, recording the first error.
func (s *Stream) EmitLabel(label *Label) {
	if s.err != nil {
		return
	}
	if err := s.Mark(label); err != nil {
		s.err = err
	}
}

func (s *Stream) checkMutable(inst *Instruction) error {
	if s.frozen {
		return assemblyError("stream %q is finalized", s.owner)
	}
	if inst == nil {
		return argumentError("nil instruction")
	}
	if inst.stream != nil {
		return argumentError("instruction %v already belongs to a stream", inst)
	}
	return nil
}

func (s *Stream) alloc(inst *Instruction) int32 {
	var idx int32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{})
		idx = int32(len(s.slots) - 1)
	}
	sl := &s.slots[idx]
	sl.gen++
	sl.inst = inst
	sl.live = true
	sl.prev = none
	sl.next = none
	inst.stream = s
	inst.Method = s.owner
	s.count++
	return idx
}

func (s *Stream) handle(idx int32) Handle {
	if idx == none {
		return Handle{}
	}
	return Handle{index: idx, gen: s.slots[idx].gen}
}

func (s *Stream) lookup(h Handle) (int32, error) {
	if !h.Valid() || int(h.index) >= len(s.slots) {
		return none, argumentError("invalid handle")
	}
	sl := s.slots[h.index]
	if !sl.live || sl.gen != h.gen {
		return none, argumentError("stale handle")
	}
	return h.index, nil
}

// Append links inst at the end of the stream and binds pending labels to it.
func (s *Stream) Append(inst *Instruction) (Handle, error) {
	if err := s.checkMutable(inst); err != nil {
		return Handle{}, err
	}
	idx := s.alloc(inst)
	s.linkAfter(s.tail, idx)
	h := s.handle(idx)
	for _, label := range s.pending {
		s.marks[label] = h
	}
	s.pending = s.pending[:0]
	return h, nil
}

func (s *Stream) InsertBefore(at Handle, inst *Instruction) (Handle, error) {
	if err := s.checkMutable(inst); err != nil {
		return Handle{}, err
	}
	pos, err := s.lookup(at)
	if err != nil {
		return Handle{}, err
	}
	idx := s.alloc(inst)
	s.linkAfter(s.slots[pos].prev, idx)
	return s.handle(idx), nil
}

func (s *Stream) InsertAfter(at Handle, inst *Instruction) (Handle, error) {
	if err := s.checkMutable(inst); err != nil {
		return Handle{}, err
	}
	pos, err := s.lookup(at)
	if err != nil {
		return Handle{}, err
	}
	idx := s.alloc(inst)
	s.linkAfter(pos, idx)
	return s.handle(idx), nil
}

// linkAfter links the detached slot idx after prev; prev == none links at head.
func (s *Stream) linkAfter(prev, idx int32) {
	var next int32
	if prev == none {
		next = s.head
		s.head = idx
	} else {
		next = s.slots[prev].next
		s.slots[prev].next = idx
	}
	if next == none {
		s.tail = idx
	} else {
		s.slots[next].prev = idx
	}
	s.slots[idx].prev = prev
	s.slots[idx].next = next
}

// Remove unlinks the instruction at h. Labels bound to it move to its successor.
func (s *Stream) Remove(h Handle) error {
	if s.frozen {
		return assemblyError("stream %q is finalized", s.owner)
	}
	idx, err := s.lookup(h)
	if err != nil {
		return err
	}
	sl := &s.slots[idx]
	prev, next := sl.prev, sl.next
	if prev == none {
		s.head = next
	} else {
		s.slots[prev].next = next
	}
	if next == none {
		s.tail = prev
	} else {
		s.slots[next].prev = prev
	}

	successor := s.handle(next)
	for label, at := range s.marks {
		if at == h {
			if successor.Valid() {
				s.marks[label] = successor
			} else {
				// end of stream: re-bind to whatever is appended next
				delete(s.marks, label)
				s.pending = append(s.pending, label)
			}
		}
	}

	sl.inst.stream = nil
	sl.inst = nil
	sl.live = false
	sl.prev = none
	sl.next = none
	s.free = append(s.free, idx)
	s.count--
	return nil
}

func (s *Stream) Get(h Handle) (*Instruction, error) {
	idx, err := s.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.slots[idx].inst, nil
}

func (s *Stream) First() Handle {
	return s.handle(s.head)
}

func (s *Stream) Last() Handle {
	return s.handle(s.tail)
}

// Next returns the handle following h, or the zero handle at the end.
func (s *Stream) Next(h Handle) Handle {
	idx, err := s.lookup(h)
	if err != nil {
		return Handle{}
	}
	return s.handle(s.slots[idx].next)
}

func (s *Stream) Prev(h Handle) Handle {
	idx, err := s.lookup(h)
	if err != nil {
		return Handle{}
	}
	return s.handle(s.slots[idx].prev)
}

func (s *Stream) All() iter.Seq2[Handle, *Instruction] {
	return func(yield func(Handle, *Instruction) bool) {
		for idx := s.head; idx != none; idx = s.slots[idx].next {
			if !yield(s.handle(idx), s.slots[idx].inst) {
				return
			}
		}
	}
}

// Mark binds label to the next appended instruction, or to the end of the stream.
func (s *Stream) Mark(label *Label) error {
	if err := s.checkLabel(label); err != nil {
		return err
	}
	label.marked = true
	label.stream = s
	s.pending = append(s.pending, label)
	return nil
}

// MarkAt binds label to the instruction at h.
func (s *Stream) MarkAt(label *Label, h Handle) error {
	if err := s.checkLabel(label); err != nil {
		return err
	}
	if _, err := s.lookup(h); err != nil {
		return err
	}
	label.marked = true
	label.stream = s
	s.marks[label] = h
	return nil
}

func (s *Stream) checkLabel(label *Label) error {
	if s.frozen {
		return assemblyError("stream %q is finalized", s.owner)
	}
	if label == nil {
		return argumentError("nil label")
	}
	if label.marked {
		return assemblyError("label %s marked twice", label)
	}
	return nil
}

// finalize assigns offsets in link order and resolves every marked label.
func (s *Stream) finalize() error {
	if s.err != nil {
		return s.err
	}
	if s.frozen {
		return assemblyError("stream %q finalized twice", s.owner)
	}

	code := make([]*Instruction, 0, s.count)
	offsets := make(map[Handle]int, s.count)
	for h, inst := range s.All() {
		inst.Offset = len(code)
		offsets[h] = len(code)
		code = append(code, inst)
	}

	for label, at := range s.marks {
		if err := label.resolve(offsets[at]); err != nil {
			return err
		}
	}
	for _, label := range s.pending {
		if err := label.resolve(len(code)); err != nil {
			return err
		}
	}
	s.pending = nil

	for _, inst := range code {
		if inst.Target == nil {
			continue
		}
		if !inst.Target.resolved {
			return assemblyError("%s: %04d %v: unresolved label %s", s.owner, inst.Offset, inst, inst.Target)
		}
		if inst.Target.stream != s {
			return assemblyError("%s: %04d %v: label %s belongs to another stream", s.owner, inst.Offset, inst, inst.Target)
		}
	}

	s.code = code
	s.frozen = true
	return nil
}

// Code returns the finalized instructions indexed by offset.
func (s *Stream) Code() []*Instruction {
	return s.code
}
