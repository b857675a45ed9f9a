package asms

import "fmt"

// Label is a jump target. Its offset is assigned once, when the owning stream is finalized.
type Label struct {
	Name     string
	offset   int
	resolved bool
	marked   bool
	stream   *Stream
}

func NewLabel(name string) *Label {
	return &Label{
		Name: name,
	}
}

func (l *Label) Offset() (int, bool) {
	return l.offset, l.resolved
}

func (l *Label) Resolved() bool {
	return l.resolved
}

func (l *Label) resolve(offset int) error {
	if l.resolved {
		return assemblyError("label %s resolved twice", l)
	}
	l.offset = offset
	l.resolved = true
	return nil
}

func (l *Label) String() string {
	if l.Name != "" {
		return l.Name
	}
	if l.resolved {
		return fmt.Sprintf("L%04d", l.offset)
	}
	return fmt.Sprintf("L%p", l)
}
