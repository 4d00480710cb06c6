package imui

// PointerButtonID identifies a pointer (mouse) button.
type PointerButtonID int

const (
	PointerButtonPrimary PointerButtonID = iota
	PointerButtonSecondary
	PointerButtonMiddle
)

// Event is a single platform input event forwarded into the toolkit.
// The toolkit does not interpret events beyond recording them in
// [InputState]; interpretation is left to the content callback.
type Event interface {
	isEvent()
}

// PointerMoveEvent reports the pointer moving to a logical position.
type PointerMoveEvent struct {
	Pos Pos2
}

// PointerButtonEvent reports a pointer button press or release.
type PointerButtonEvent struct {
	Pos     Pos2
	Button  PointerButtonID
	Pressed bool
}

// KeyEvent reports a keyboard key press or release. Key codes are
// platform-defined; imui stores them opaquely.
type KeyEvent struct {
	Key     int
	Pressed bool
}

// ScrollEvent reports scroll-wheel movement in logical points.
type ScrollEvent struct {
	Delta Pos2
}

// TextEvent reports committed text input.
type TextEvent struct {
	Text string
}

func (PointerMoveEvent) isEvent()   {}
func (PointerButtonEvent) isEvent() {}
func (KeyEvent) isEvent()           {}
func (ScrollEvent) isEvent()        {}
func (TextEvent) isEvent()          {}

// InputState accumulates events between frames. BeginFrame snapshots it
// for the content callback and clears the per-frame fields.
type InputState struct {
	// PointerPos is the last known pointer position.
	PointerPos Pos2

	// Down tracks which pointer buttons are currently held.
	Down map[PointerButtonID]bool

	// Events holds the raw events received since the previous frame,
	// in arrival order.
	Events []Event

	// Time is the seconds elapsed since the context was created,
	// set by [Context.UpdateTime] before each frame.
	Time float64
}

func newInputState() *InputState {
	return &InputState{Down: make(map[PointerButtonID]bool)}
}

// record ingests one event, updating the derived pointer fields and
// appending to the raw event list.
func (s *InputState) record(ev Event) {
	switch e := ev.(type) {
	case PointerMoveEvent:
		s.PointerPos = e.Pos
	case PointerButtonEvent:
		s.PointerPos = e.Pos
		s.Down[e.Button] = e.Pressed
	}
	s.Events = append(s.Events, ev)
}

// beginFrame clears the per-frame event list, keeping persistent state
// (pointer position, held buttons) intact.
func (s *InputState) beginFrame() {
	s.Events = s.Events[:0]
}
