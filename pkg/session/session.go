package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/scoring"
	"github.com/chenBenjamin97/model-checker/pkg/telemetry"
	"github.com/chenBenjamin97/model-checker/pkg/utils"
	"github.com/cyclopcam/logs"
)

//Notice is a passive or blocking message for the reviewer
type Notice int

const (
	NoticeSaved Notice = iota
	NoticeAutoSaved
	NoticeUnlabelled
	NoticeAutoSaveFailed
	NoticeSubmitFailed
)

func (n Notice) String() string {
	switch n {
	case NoticeSaved:
		return "saved"
	case NoticeAutoSaved:
		return "auto-saved"
	case NoticeUnlabelled:
		return "unlabelled boxes remain"
	case NoticeAutoSaveFailed:
		return "auto-save failed"
	case NoticeSubmitFailed:
		return "submission failed"
	}
	return fmt.Sprintf("notice(%d)", int(n))
}

//Notifier receives notices. frames is set for NoticeUnlabelled and NoticeAutoSaveFailed caused by unlabelled boxes
type Notifier func(n Notice, frames []int)

//Config holds what a session needs besides the records
type Config struct {
	ContainerID string
	Vocabulary  annotation.Vocabulary
	//Intrinsic is the video resolution, Display the player canvas
	Intrinsic annotation.Size
	Display   annotation.Size
	FPS       float64
	//boxes drawn smaller than that are discarded, 0 means utils.MinBoxWidth/ utils.MinBoxHeight
	MinBoxWidth  float64
	MinBoxHeight float64

	Transport Transport
	Notify    Notifier
	Telemetry *telemetry.Telemetry
}

//Session edits the corrected annotations of one container.
//The store, the deletion ledger and the pointer state are guarded by mu; submissions are serialized by submitMu and
//never hold mu while waiting on the transport.
type Session struct {
	log logs.Log
	cfg Config

	mu          sync.Mutex
	store       *annotation.Store
	ledger      annotation.Ledger
	predictions []annotation.Record
	version     uint64
	nextObject  int
	csvID       int64
	frame       int
	pointer     pointer

	submitMu sync.Mutex
}

//New starts a session. predictions and corrected are in intrinsic video coordinates; corrected records whose object
//id is above every predicted one were drawn by a reviewer in an earlier session. An empty corrected list starts the
//review from the predictions.
func New(log logs.Log, cfg Config, predictions, corrected []annotation.Record) (*Session, error) {
	if cfg.Vocabulary.Len() == 0 {
		return nil, annotation.ErrEmptyVocabulary
	}
	if !cfg.Intrinsic.Valid() || !cfg.Display.Valid() {
		return nil, ErrInvalidSize
	}
	if cfg.Transport == nil {
		return nil, ErrNoTransport
	}
	if cfg.MinBoxWidth <= 0 {
		cfg.MinBoxWidth = utils.MinBoxWidth
	}
	if cfg.MinBoxHeight <= 0 {
		cfg.MinBoxHeight = utils.MinBoxHeight
	}

	s := &Session{
		log: log,
		cfg: cfg,
	}

	lastPredicted := -1
	s.predictions = make([]annotation.Record, len(predictions))
	for i, p := range predictions {
		p.Origin = annotation.OriginModel
		p.Modified = false
		s.predictions[i] = annotation.ToDisplaySpace(p, cfg.Intrinsic, cfg.Display)
		lastPredicted = max(lastPredicted, p.ObjectID)
	}

	if len(corrected) == 0 {
		corrected = predictions
	}
	s.store = annotation.NewStore()
	for _, c := range corrected {
		if c.FrameNum < 0 {
			return nil, fmt.Errorf("New: object %d: %w", c.ObjectID, ErrInvalidFrame)
		}
		c.Origin = annotation.OriginModel
		if c.ObjectID > lastPredicted {
			c.Origin = annotation.OriginUser
		}
		c.Modified = false
		c.Version = 0
		s.store.Upsert(c.FrameNum, annotation.ToDisplaySpace(c, cfg.Intrinsic, cfg.Display))
		s.csvID = c.CsvID
	}

	s.nextObject = max(lastPredicted, s.store.MaxObjectID()) + 1
	s.log.Infof("New: Session of container '%s' loaded with %d predictions, %d corrected records on %d frames",
		cfg.ContainerID, len(s.predictions), s.store.Len(), len(s.store.Frames()))
	return s, nil
}

//Vocabulary returns the labels boxes can take
func (s *Session) Vocabulary() annotation.Vocabulary {
	return s.cfg.Vocabulary
}

//Display returns the player canvas size records are expressed in
func (s *Session) Display() annotation.Size {
	return s.cfg.Display
}

//Intrinsic returns the video resolution
func (s *Session) Intrinsic() annotation.Size {
	return s.cfg.Intrinsic
}

//FPS returns the frame rate playback time is converted with
func (s *Session) FPS() float64 {
	return s.cfg.FPS
}

//Get returns the records of given frame, in display space
func (s *Session) Get(frame int) []annotation.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(frame)
}

//Records returns every corrected record, frames ascending
func (s *Session) Records() []annotation.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

//IntrinsicRecords returns every corrected record scaled back to video coordinates
func (s *Session) IntrinsicRecords() []annotation.Record {
	records := s.Records()
	for i := range records {
		records[i] = annotation.ToIntrinsicSpace(records[i], s.cfg.Intrinsic, s.cfg.Display)
	}
	return records
}

//Predictions returns the model predictions the session was loaded with, in display space
func (s *Session) Predictions() []annotation.Record {
	res := make([]annotation.Record, len(s.predictions))
	for i, p := range s.predictions {
		res[i] = p.Clone()
	}
	return res
}

//Deleted returns the deletions not reported to the backend yet
func (s *Session) Deleted() []annotation.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Records()
}

//Pending returns how many records are modified and how many deletions wait for the next submission
func (s *Session) Pending() (modified, deleted int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.store.All() {
		if r.Modified {
			modified++
		}
	}
	return modified, s.ledger.Len()
}

//Frame returns the frame the player currently shows
func (s *Session) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

//SetFrame moves the session to given frame
func (s *Session) SetFrame(frame int) error {
	if frame < 0 {
		return ErrInvalidFrame
	}
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
	return nil
}

//SetMediaTime syncs the session with the player's media time (seconds) and returns the derived frame
func (s *Session) SetMediaTime(mediaTime float64) int {
	frame := utils.FrameAt(mediaTime, s.cfg.FPS)
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
	return frame
}

//NextObjectFrame returns the first frame after current holding at least one box, and the media time to seek to
func (s *Session) NextObjectFrame(current int) (int, float64, bool) {
	s.mu.Lock()
	frames := s.store.Frames()
	s.mu.Unlock()

	i := sort.SearchInts(frames, current+1)
	if i == len(frames) {
		return 0, 0, false
	}
	return frames[i], utils.SeekTime(frames[i], s.cfg.FPS), true
}

//ComputeMetrics scores the predictions against the current corrections
func (s *Session) ComputeMetrics() scoring.Metrics {
	m := scoring.ComputeMetrics(s.cfg.Vocabulary, s.Predictions(), s.Records())
	s.cfg.Telemetry.Inc(telemetry.MetricsComputed)
	return m
}

//touch stamps r as edited by a new session version. Caller holds mu
func (s *Session) touch(r *annotation.Record) {
	s.version++
	r.Modified = true
	r.Version = s.version
}

func (s *Session) tooSmall(b annotation.Box) bool {
	return b.Width < s.cfg.MinBoxWidth || b.Height < s.cfg.MinBoxHeight
}

//CreateBox adds a reviewer box to given frame. The box is clipped to the canvas; a box smaller than the minimum
//size is discarded and false is returned.
func (s *Session) CreateBox(frame int, box annotation.Box) (annotation.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBox(frame, box)
}

func (s *Session) createBox(frame int, box annotation.Box) (annotation.Record, bool) {
	box = annotation.ClipBox(box, s.cfg.Display)
	if frame < 0 || s.tooSmall(box) {
		s.cfg.Telemetry.Inc(telemetry.BoxesDiscarded)
		return annotation.Record{}, false
	}

	r := annotation.Record{
		FrameNum: frame,
		ObjectID: s.nextObject,
		Label:    utils.UnlabelledLabel,
		CsvID:    s.csvID,
		Origin:   annotation.OriginUser,
	}
	r.SetBox(box)
	s.touch(&r)
	s.nextObject++
	s.store.Upsert(frame, r)

	s.cfg.Telemetry.Inc(telemetry.BoxesCreated)
	s.log.Debugf("CreateBox: Object %d created on frame %d", r.ObjectID, frame)
	return r.Clone(), true
}

//MoveOrResizeBox replaces the rectangle of a box. Like drawing, a result smaller than the minimum size is
//discarded and false is returned with a nil error.
func (s *Session) MoveOrResizeBox(frame, objectID int, box annotation.Box) (annotation.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveOrResizeBox(frame, objectID, box)
}

func (s *Session) moveOrResizeBox(frame, objectID int, box annotation.Box) (annotation.Record, bool, error) {
	if _, ok := s.store.Lookup(frame, objectID); !ok {
		return annotation.Record{}, false, ErrNotFound
	}
	box = annotation.ClipBox(box, s.cfg.Display)
	if s.tooSmall(box) {
		return annotation.Record{}, false, nil
	}

	var res annotation.Record
	s.store.Update(frame, objectID, func(r *annotation.Record) {
		r.SetBox(box)
		s.touch(r)
		res = r.Clone()
	})
	s.cfg.Telemetry.Inc(telemetry.BoxesEdited)
	return res, true, nil
}

//RelabelBox sets the label of a box, model boxes included
func (s *Session) RelabelBox(frame, objectID int, label string) (annotation.Record, error) {
	if !s.cfg.Vocabulary.Contains(label) {
		return annotation.Record{}, fmt.Errorf("RelabelBox: '%s': %w", label, ErrUnknownLabel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var res annotation.Record
	found := s.store.Update(frame, objectID, func(r *annotation.Record) {
		r.Label = label
		s.touch(r)
		res = r.Clone()
	})
	if !found {
		return annotation.Record{}, ErrNotFound
	}
	s.cfg.Telemetry.Inc(telemetry.BoxesRelabelled)
	return res, nil
}

//DeleteBox removes a reviewer box and keeps it in the deletion ledger until the next successful submission.
//Boxes predicted by the model are left untouched and ErrModelRecord is returned.
func (s *Session) DeleteBox(frame, objectID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.store.Lookup(frame, objectID)
	if !ok {
		return ErrNotFound
	}
	if r.Origin != annotation.OriginUser {
		return ErrModelRecord
	}

	s.store.RemoveByObjectID(frame, objectID)
	s.ledger.Append(r)
	s.pointer.reset()

	s.cfg.Telemetry.Inc(telemetry.BoxesDeleted)
	s.cfg.Telemetry.SetPendingDeletions(s.ledger.Len())
	s.log.Debugf("DeleteBox: Object %d deleted from frame %d", objectID, frame)
	return nil
}

//unlabelledFrames returns the frames still holding an "unlabelled" box. Caller holds mu
func (s *Session) unlabelledFrames() []int {
	var frames []int
	for _, r := range s.store.All() {
		if r.Label == utils.UnlabelledLabel {
			frames = append(frames, r.FrameNum)
		}
	}
	return utils.UniqueSorted(frames)
}

func (s *Session) notify(n Notice, frames []int) {
	if s.cfg.Notify != nil {
		s.cfg.Notify(n, frames)
	}
}
