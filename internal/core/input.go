package core

// Action is a semantic input, decoupled from physical keys.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // Up arrow, W - move cursor up
	ActionDown            // Down arrow, S - move cursor down
	ActionLeft            // Left arrow, A - move cursor left
	ActionRight           // Right arrow, D - move cursor right
	ActionConfirm         // Enter, Space - place the selected piece
	ActionSlot1           // 1 - select tray slot 1
	ActionSlot2           // 2 - select tray slot 2
	ActionSlot3           // 3 - select tray slot 3
	ActionNextSlot        // Tab - cycle to the next unused slot
	ActionUndo            // U, Ctrl+Z - undo last placement
	ActionHint            // H - flash a legal move
	ActionRestart         // N, or R after game over - new game
	ActionPause           // P - pause/unpause
	ActionBack            // Esc, B - back to menu
	ActionQuit            // Q, Ctrl+C - exit
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActionUp:       "Up",
	ActionDown:     "Down",
	ActionLeft:     "Left",
	ActionRight:    "Right",
	ActionConfirm:  "Confirm",
	ActionSlot1:    "Slot1",
	ActionSlot2:    "Slot2",
	ActionSlot3:    "Slot3",
	ActionNextSlot: "NextSlot",
	ActionUndo:     "Undo",
	ActionHint:     "Hint",
	ActionRestart:  "Restart",
	ActionPause:    "Pause",
	ActionBack:     "Back",
	ActionQuit:     "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame collects the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether the action was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
