package engine

import (
	"encoding/json"
	"math/rand"
)

// Record is the persisted form of a game. Field names match the save format:
// one whole-state document per write.
type Record struct {
	Board   [][]int       `json:"board"`
	Bag     []int         `json:"bag"`
	Tray    []int         `json:"tray"`
	Used    []bool        `json:"used"`
	Score   int           `json:"score"`
	Best    int           `json:"best"`
	History []EntryRecord `json:"history"`
}

// EntryRecord is the persisted form of a history entry.
type EntryRecord struct {
	Snapshot  [][]int `json:"snapshot"`
	Score     int     `json:"score"`
	TrayIndex int     `json:"trayIndex"`
}

// Record captures the full state for saving.
func (s *State) Record() Record {
	rec := Record{
		Board: boardRows(&s.board),
		Tray:  make([]int, TraySize),
		Used:  make([]bool, TraySize),
		Score: s.score,
		Best:  s.best,
	}
	for _, id := range s.disp.bag {
		rec.Bag = append(rec.Bag, int(id))
	}
	for i := range TraySize {
		rec.Tray[i] = int(s.tray.Slots[i])
		rec.Used[i] = s.tray.Used[i]
	}
	for _, e := range s.history.entries {
		rec.History = append(rec.History, EntryRecord{
			Snapshot:  boardRows(&e.Board),
			Score:     e.Score,
			TrayIndex: e.Slot,
		})
	}
	return rec
}

// Encode serializes the record.
func (r Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRecord parses a saved document. It never fails: each field is decoded on
// its own and falls back to a default when missing or malformed. Best is raised to
// at least the loaded score.
func DecodeRecord(data []byte) Record {
	var rec Record

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return rec
	}

	decodeField(fields, "board", &rec.Board)
	decodeField(fields, "bag", &rec.Bag)
	decodeField(fields, "tray", &rec.Tray)
	decodeField(fields, "used", &rec.Used)
	decodeField(fields, "score", &rec.Score)
	decodeField(fields, "best", &rec.Best)
	decodeField(fields, "history", &rec.History)

	rec.Score = max(rec.Score, 0)
	rec.Best = max(rec.Best, rec.Score, 0)
	return rec
}

// decodeField leaves dst at its zero value unless the field parses cleanly.
func decodeField[T any](fields map[string]json.RawMessage, name string, dst *T) {
	raw, ok := fields[name]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// Restore rebuilds a state from a record. Invalid parts are replaced: a malformed
// board becomes empty, unknown bag IDs are dropped, a malformed tray is dealt fresh,
// and history entries with bad snapshots are discarded.
func Restore(rec Record, rng *rand.Rand, opts Options) *State {
	s := &State{
		history: NewHistory(opts.HistoryLimit),
		disp:    NewDispenser(rng, opts.WeightCap, opts.BagMin),
		score:   max(rec.Score, 0),
		best:    max(rec.Best, rec.Score, 0),
	}

	if b, ok := parseBoard(rec.Board); ok {
		s.board = b
	}

	bag := make([]ShapeID, 0, len(rec.Bag))
	for _, id := range rec.Bag {
		bag = append(bag, ShapeID(id))
	}
	s.disp.SetBag(bag)

	if t, ok := parseTray(rec.Tray, rec.Used); ok {
		s.tray = t
	} else {
		s.disp.RefillTray(&s.tray)
	}

	for _, er := range rec.History {
		b, ok := parseBoard(er.Snapshot)
		if !ok || !ValidSlot(er.TrayIndex) {
			continue
		}
		s.history.Record(&b, max(er.Score, 0), er.TrayIndex)
	}

	return s
}

// parseBoard accepts only a full BoardSize x BoardSize grid of 0/1 values.
func parseBoard(rows [][]int) (Board, bool) {
	var b Board
	if len(rows) != BoardSize {
		return b, false
	}
	for r, row := range rows {
		if len(row) != BoardSize {
			return Board{}, false
		}
		for c, v := range row {
			if v != 0 && v != 1 {
				return Board{}, false
			}
			b[r][c] = uint8(v)
		}
	}
	return b, true
}

// parseTray requires three known shape IDs. A missing or short used list means
// every slot is unused. A fully used tray is not a resting state, so it is rejected.
func parseTray(ids []int, used []bool) (Tray, bool) {
	var t Tray
	if len(ids) != TraySize {
		return t, false
	}
	for i, id := range ids {
		sid := ShapeID(id)
		if !sid.Valid() {
			return Tray{}, false
		}
		t.Slots[i] = sid
	}
	if len(used) == TraySize {
		copy(t.Used[:], used)
	}
	if t.AllUsed() {
		return Tray{}, false
	}
	return t, true
}

func boardRows(b *Board) [][]int {
	rows := make([][]int, BoardSize)
	for r := range BoardSize {
		rows[r] = make([]int, BoardSize)
		for c := range BoardSize {
			rows[r][c] = int(b[r][c])
		}
	}
	return rows
}
