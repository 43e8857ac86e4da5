package engine

import (
	"math/rand"

	"github.com/kamstrup/intmap"
)

// Dispenser defaults.
const (
	DefaultWeightCap = 8  // weight = max(1, cap - cells)
	DefaultBagMin    = 10 // refill the bag before a draw when it holds fewer shapes
)

// Dispenser feeds shapes to the tray from a shuffled, weighted bag.
// Smaller shapes get more copies per batch, so they come up more often.
type Dispenser struct {
	rng     *rand.Rand
	bag     []ShapeID
	bagMin  int
	weights *intmap.Map[ShapeID, int]
	drawn   *intmap.Map[ShapeID, int]
	batch   int // shapes per refill
}

// NewDispenser creates a dispenser with an empty bag.
// Non-positive weightCap or bagMin fall back to the defaults.
func NewDispenser(rng *rand.Rand, weightCap, bagMin int) *Dispenser {
	if weightCap <= 0 {
		weightCap = DefaultWeightCap
	}
	if bagMin <= 0 {
		bagMin = DefaultBagMin
	}

	d := &Dispenser{
		rng:     rng,
		bagMin:  bagMin,
		weights: intmap.New[ShapeID, int](ShapeCount()),
		drawn:   intmap.New[ShapeID, int](ShapeCount()),
	}
	for _, s := range catalog {
		w := Weight(s, weightCap)
		d.weights.Put(s.ID, w)
		d.batch += w
	}
	return d
}

// Weight is the number of copies of s in one bag batch.
func Weight(s Shape, weightCap int) int {
	return max(1, weightCap-s.Size())
}

// RefillBag appends one shuffled weighted batch to the bag tail.
func (d *Dispenser) RefillBag() {
	batch := make([]ShapeID, 0, d.batch)
	for id := range shapeCount {
		w, _ := d.weights.Get(id)
		for range w {
			batch = append(batch, id)
		}
	}

	d.rng.Shuffle(len(batch), func(i, j int) {
		batch[i], batch[j] = batch[j], batch[i]
	})

	d.bag = append(d.bag, batch...)
}

// Draw removes and returns the next shape, topping up the bag first if it is low.
func (d *Dispenser) Draw() ShapeID {
	if len(d.bag) < d.bagMin {
		d.RefillBag()
	}

	last := len(d.bag) - 1
	id := d.bag[last]
	d.bag = d.bag[:last]

	n, _ := d.drawn.Get(id)
	d.drawn.Put(id, n+1)
	return id
}

// RefillTray replaces every slot with a fresh draw and marks all slots unused.
func (d *Dispenser) RefillTray(t *Tray) {
	for i := range TraySize {
		t.Slots[i] = d.Draw()
		t.Used[i] = false
	}
}

// Bag returns a copy of the pending shapes. The next draw comes from the end.
func (d *Dispenser) Bag() []ShapeID {
	out := make([]ShapeID, len(d.bag))
	copy(out, d.bag)
	return out
}

// SetBag replaces the pending shapes, dropping IDs that are not in the catalog.
func (d *Dispenser) SetBag(bag []ShapeID) {
	kept := make([]ShapeID, 0, len(bag))
	for _, id := range bag {
		if id.Valid() {
			kept = append(kept, id)
		}
	}
	d.bag = kept
}

// Reset empties the bag.
func (d *Dispenser) Reset() {
	d.bag = nil
}

// Drawn returns how many times id has been drawn by this dispenser.
func (d *Dispenser) Drawn(id ShapeID) int {
	n, _ := d.drawn.Get(id)
	return n
}

// Odds returns the chance of each shape being drawn from a fresh batch.
func (d *Dispenser) Odds() map[ShapeID]float64 {
	odds := make(map[ShapeID]float64, d.weights.Len())
	for id := range shapeCount {
		w, _ := d.weights.Get(id)
		odds[id] = float64(w) / float64(d.batch)
	}
	return odds
}
