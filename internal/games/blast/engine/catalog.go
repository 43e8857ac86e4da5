// Package engine implements the block puzzle rules: the shape catalog, the piece
// dispenser, placement with line clears and scoring, the move oracle and undo history.
// It has no dependencies on the terminal platform so it can be driven by any front end.
package engine

// Point is a cell offset relative to a shape's top-left corner.
// X grows to the right (columns), Y grows downward (rows).
type Point struct {
	X, Y int
}

// ShapeID identifies a catalog shape. IDs are persisted, so their order is fixed.
type ShapeID int

// Catalog shape IDs.
const (
	ShapeDot ShapeID = iota
	ShapeH2
	ShapeH3
	ShapeH4
	ShapeH5
	ShapeV2
	ShapeV3
	ShapeV4
	ShapeV5
	ShapeSquare2
	ShapeRectWide
	ShapeRectTall
	ShapeSquare3
	ShapeCornerBL
	ShapeCornerBR
	ShapeTFlat
	ShapeTUp
	ShapeCornerTR
	ShapeCornerTL
	ShapeBigL
	ShapeBigJ
	ShapePlus
	ShapeStair

	shapeCount
)

// Shape is an immutable polyomino. Offsets are non-negative and the bounding box
// touches the origin on both axes.
type Shape struct {
	ID     ShapeID
	Name   string
	cells  []Point
	width  int
	height int
}

// Cells returns a copy of the shape's offsets.
func (s Shape) Cells() []Point {
	out := make([]Point, len(s.cells))
	copy(out, s.cells)
	return out
}

// Size is the number of cells, which is also the base score for placing it.
func (s Shape) Size() int {
	return len(s.cells)
}

// Width returns the bounding box width in cells.
func (s Shape) Width() int {
	return s.width
}

// Height returns the bounding box height in cells.
func (s Shape) Height() int {
	return s.height
}

// Has reports whether the offset (x, y) is part of the shape.
func (s Shape) Has(x, y int) bool {
	for _, p := range s.cells {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

// newShape derives the bounding box from the offsets.
func newShape(id ShapeID, name string, cells ...Point) Shape {
	w, h := 0, 0
	for _, p := range cells {
		w = max(w, p.X+1)
		h = max(h, p.Y+1)
	}
	return Shape{ID: id, Name: name, cells: cells, width: w, height: h}
}

// catalog is indexed by ShapeID.
var catalog = [shapeCount]Shape{
	newShape(ShapeDot, "dot", Point{0, 0}),

	newShape(ShapeH2, "line-h2", Point{0, 0}, Point{1, 0}),
	newShape(ShapeH3, "line-h3", Point{0, 0}, Point{1, 0}, Point{2, 0}),
	newShape(ShapeH4, "line-h4", Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{3, 0}),
	newShape(ShapeH5, "line-h5", Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{3, 0}, Point{4, 0}),
	newShape(ShapeV2, "line-v2", Point{0, 0}, Point{0, 1}),
	newShape(ShapeV3, "line-v3", Point{0, 0}, Point{0, 1}, Point{0, 2}),
	newShape(ShapeV4, "line-v4", Point{0, 0}, Point{0, 1}, Point{0, 2}, Point{0, 3}),
	newShape(ShapeV5, "line-v5", Point{0, 0}, Point{0, 1}, Point{0, 2}, Point{0, 3}, Point{0, 4}),

	newShape(ShapeSquare2, "square-2x2",
		Point{0, 0}, Point{1, 0}, Point{0, 1}, Point{1, 1}),
	newShape(ShapeRectWide, "block-3x2",
		Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{0, 1}, Point{1, 1}, Point{2, 1}),
	newShape(ShapeRectTall, "block-2x3",
		Point{0, 0}, Point{1, 0}, Point{0, 1}, Point{1, 1}, Point{0, 2}, Point{1, 2}),
	newShape(ShapeSquare3, "square-3x3",
		Point{0, 0}, Point{1, 0}, Point{2, 0},
		Point{0, 1}, Point{1, 1}, Point{2, 1},
		Point{0, 2}, Point{1, 2}, Point{2, 2}),

	newShape(ShapeCornerBL, "corner-bl", Point{0, 0}, Point{0, 1}, Point{1, 1}),
	newShape(ShapeCornerBR, "corner-br", Point{1, 0}, Point{0, 1}, Point{1, 1}),
	newShape(ShapeTFlat, "t-flat", Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{1, 1}),
	newShape(ShapeTUp, "t-up", Point{1, 0}, Point{0, 1}, Point{1, 1}, Point{2, 1}),
	newShape(ShapeCornerTR, "corner-tr", Point{0, 0}, Point{1, 0}, Point{1, 1}),
	newShape(ShapeCornerTL, "corner-tl", Point{0, 0}, Point{1, 0}, Point{0, 1}),

	newShape(ShapeBigL, "big-l", Point{0, 0}, Point{0, 1}, Point{0, 2}, Point{1, 2}),
	newShape(ShapeBigJ, "big-j", Point{1, 0}, Point{1, 1}, Point{1, 2}, Point{0, 2}),

	newShape(ShapePlus, "plus", Point{1, 0}, Point{0, 1}, Point{1, 1}, Point{2, 1}, Point{1, 2}),
	newShape(ShapeStair, "stair", Point{0, 0}, Point{1, 0}, Point{1, 1}, Point{2, 1}),
}

// Shapes returns every catalog shape ordered by ID.
func Shapes() []Shape {
	out := make([]Shape, len(catalog))
	copy(out, catalog[:])
	return out
}

// ShapeCount returns the number of shapes in the catalog.
func ShapeCount() int {
	return int(shapeCount)
}

// ShapeByID looks up a catalog shape.
func ShapeByID(id ShapeID) (Shape, bool) {
	if id < 0 || id >= shapeCount {
		return Shape{}, false
	}
	return catalog[id], true
}

// MustShape is ShapeByID for IDs known to be valid. It panics otherwise.
func MustShape(id ShapeID) Shape {
	s, ok := ShapeByID(id)
	if !ok {
		panic("engine: unknown shape id")
	}
	return s
}

// Valid reports whether id names a catalog shape.
func (id ShapeID) Valid() bool {
	return id >= 0 && id < shapeCount
}

// String returns the shape name.
func (id ShapeID) String() string {
	if s, ok := ShapeByID(id); ok {
		return s.Name
	}
	return "unknown"
}
