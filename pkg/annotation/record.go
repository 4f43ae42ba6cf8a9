package annotation

//Origin tells who created a record. It is set once, when the record is loaded or drawn
type Origin int

const (
	//OriginModel is a box predicted by the computer vision model. It can be relabelled but never deleted
	OriginModel Origin = iota
	//OriginUser is a box drawn by a reviewer
	OriginUser
)

func (o Origin) String() string {
	if o == OriginUser {
		return "user"
	}
	return "model"
}

//Record is one bounding box with a label on one video frame.
//Left, Top, Width and Height are in display space while a session edits them.
type Record struct {
	RecordID          *int64  `json:"id,omitempty"`
	FrameNum          int     `json:"frameNum"`
	ObjectID          int     `json:"objectId"`
	Label             string  `json:"label"`
	Left              float64 `json:"trackerL"`
	Top               float64 `json:"trackerT"`
	Width             float64 `json:"trackerW"`
	Height            float64 `json:"trackerH"`
	ModelConfidence   float64 `json:"modelConfidence"`
	TrackerConfidence float64 `json:"trackerConfidence"`
	CsvID             int64   `json:"csvId"`
	Modified          bool    `json:"modified"`
	Origin            Origin  `json:"origin"`

	//version of the session edit that last touched this record, 0 when loaded
	Version uint64 `json:"-"`
}

//Box returns the record's rectangle
func (r Record) Box() Box {
	return Box{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}

//SetBox moves/ resizes the record to given rectangle
func (r *Record) SetBox(b Box) {
	r.Left, r.Top, r.Width, r.Height = b.Left, b.Top, b.Width, b.Height
}

//Clone returns a deep copy, the persisted id pointer included
func (r Record) Clone() Record {
	c := r
	if r.RecordID != nil {
		id := *r.RecordID
		c.RecordID = &id
	}
	return c
}

//WireRecord is a record as the backend stores it: intrinsic video coordinates, rounded to whole pixels
type WireRecord struct {
	ID                *int64  `json:"id,omitempty"`
	FrameNum          int     `json:"frameNum"`
	ObjectID          int     `json:"objectId"`
	Label             string  `json:"label"`
	TrackerL          int     `json:"trackerL"`
	TrackerT          int     `json:"trackerT"`
	TrackerW          int     `json:"trackerW"`
	TrackerH          int     `json:"trackerH"`
	ModelConfidence   float64 `json:"modelConfidence"`
	TrackerConfidence float64 `json:"trackerConfidence"`
	CsvID             int64   `json:"csvId"`
}

//FromWire builds an intrinsic space record out of a backend record
func FromWire(w WireRecord, origin Origin) Record {
	r := Record{
		FrameNum:          w.FrameNum,
		ObjectID:          w.ObjectID,
		Label:             w.Label,
		Left:              float64(w.TrackerL),
		Top:               float64(w.TrackerT),
		Width:             float64(w.TrackerW),
		Height:            float64(w.TrackerH),
		ModelConfidence:   w.ModelConfidence,
		TrackerConfidence: w.TrackerConfidence,
		CsvID:             w.CsvID,
		Origin:            origin,
	}
	if w.ID != nil {
		id := *w.ID
		r.RecordID = &id
	}
	return r
}
