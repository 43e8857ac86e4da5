package engine

// TraySize is the number of pieces offered at once.
const TraySize = 3

// Tray holds the offered pieces. A slot is either unused and holding a shape, or
// used and waiting for the next refill. Refills replace all slots at once.
type Tray struct {
	Slots [TraySize]ShapeID
	Used  [TraySize]bool
}

// ValidSlot reports whether slot indexes the tray.
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < TraySize
}

// Available reports whether slot can still be placed.
func (t *Tray) Available(slot int) bool {
	return ValidSlot(slot) && !t.Used[slot]
}

// AllUsed reports whether every slot has been placed.
func (t *Tray) AllUsed() bool {
	for _, u := range t.Used {
		if !u {
			return false
		}
	}
	return true
}

// Remaining returns the number of unused slots.
func (t *Tray) Remaining() int {
	n := 0
	for _, u := range t.Used {
		if !u {
			n++
		}
	}
	return n
}

// NextAvailable returns the first unused slot after from, wrapping around.
// It returns -1 when every slot is used.
func (t *Tray) NextAvailable(from int) int {
	for i := 1; i <= TraySize; i++ {
		slot := ((from+i)%TraySize + TraySize) % TraySize
		if !t.Used[slot] {
			return slot
		}
	}
	return -1
}
