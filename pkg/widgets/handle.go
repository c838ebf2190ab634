package widgets

// Handle is the editor-side contract the render pass drives. It mirrors one
// node of a widget tree.
//
// SetText writes the primitive input slot. SetEnabled drives the enable
// control of an optional and emits its expansion event. SetLength drives
// the length control of a vector and emits its resize event. Select drives
// the tag selector of a variant and emits its change event. Child returns
// the i-th child handle as materialised after those events: record and
// tuple members by position, vector and optional items by index, and the
// active alternative of a variant at index 0.
type Handle interface {
	SetText(text string) error
	Text() string
	SetEnabled(enabled bool) error
	SetLength(n int) error
	Select(index int) error
	Child(index int) (Handle, error)
}
