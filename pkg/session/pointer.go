package session

import (
	"fmt"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
)

//PointerState is the step of the current pointer interaction
type PointerState int

const (
	PointerIdle PointerState = iota
	PointerDrawing
	PointerSelected
	PointerMoving
	PointerResizing
	//PointerCreated and PointerCommitted are only reported by PointerUp, the session is back to idle right after
	PointerCreated
	PointerCommitted
)

var pointerStateNames = [...]string{"idle", "drawing", "selected", "moving", "resizing", "created", "committed"}

func (p PointerState) String() string {
	if p < 0 || int(p) >= len(pointerStateNames) {
		return fmt.Sprintf("pointer(%d)", int(p))
	}
	return pointerStateNames[p]
}

func (p PointerState) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

//Handle is the part of a box the pointer went down on
type Handle int

const (
	HandleNone Handle = iota
	HandleBody
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

//Point is a position on the player canvas
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

//Hit tells what is under the pointer when it goes down. A HandleNone hit starts drawing a new box
type Hit struct {
	ObjectID int    `json:"objectId"`
	Handle   Handle `json:"handle"`
}

//PointerResult describes the outcome of a pointer event
type PointerResult struct {
	State   PointerState      `json:"state"`
	Frame   int               `json:"frame"`
	Box     annotation.Box    `json:"box"`
	Record  annotation.Record `json:"record"`
	Changed bool              `json:"changed"`
}

type pointer struct {
	state    PointerState
	frame    int
	objectID int
	handle   Handle
	start    Point
	origin   annotation.Box
	current  annotation.Box
}

func (p *pointer) reset() {
	*p = pointer{}
}

//anchor returns the corner that stays in place while resizing from given handle
func anchor(b annotation.Box, h Handle) Point {
	switch h {
	case HandleTopLeft:
		return Point{b.Right(), b.Bottom()}
	case HandleTopRight:
		return Point{b.Left, b.Bottom()}
	case HandleBottomLeft:
		return Point{b.Right(), b.Top}
	default:
		return Point{b.Left, b.Top}
	}
}

func (s *Session) clip(p Point) Point {
	x, y := annotation.ClipPoint(p.X, p.Y, s.cfg.Display)
	return Point{x, y}
}

//PointerState returns the current step of the pointer interaction
func (s *Session) PointerState() PointerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer.state
}

//PointerDown starts drawing on empty canvas, or selects the box that was hit on the current frame
func (s *Session) PointerDown(p Point, hit Hit) PointerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = s.clip(p)
	s.pointer.reset()
	s.pointer.frame = s.frame
	s.pointer.start = p

	if hit.Handle == HandleNone {
		s.pointer.state = PointerDrawing
		s.pointer.current = annotation.BoxFromCorners(p.X, p.Y, p.X, p.Y)
		return PointerResult{State: PointerDrawing, Frame: s.frame, Box: s.pointer.current}
	}

	r, ok := s.store.Lookup(s.frame, hit.ObjectID)
	if !ok {
		return PointerResult{State: PointerIdle, Frame: s.frame}
	}
	s.pointer.state = PointerSelected
	s.pointer.objectID = hit.ObjectID
	s.pointer.handle = hit.Handle
	s.pointer.origin = r.Box()
	s.pointer.current = r.Box()
	return PointerResult{State: PointerSelected, Frame: s.frame, Box: r.Box(), Record: r}
}

//PointerMove updates the box being drawn, moved or resized
func (s *Session) PointerMove(p Point) PointerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = s.clip(p)
	ptr := &s.pointer
	switch ptr.state {
	case PointerDrawing:
		ptr.current = annotation.BoxFromCorners(ptr.start.X, ptr.start.Y, p.X, p.Y)
	case PointerSelected, PointerMoving, PointerResizing:
		if ptr.handle == HandleBody {
			ptr.state = PointerMoving
			ptr.current = s.shift(ptr.origin, p.X-ptr.start.X, p.Y-ptr.start.Y)
		} else {
			ptr.state = PointerResizing
			a := anchor(ptr.origin, ptr.handle)
			ptr.current = annotation.BoxFromCorners(a.X, a.Y, p.X, p.Y)
		}
	}
	return PointerResult{State: ptr.state, Frame: ptr.frame, Box: ptr.current}
}

//shift moves b by (dx, dy) keeping it whole inside the canvas
func (s *Session) shift(b annotation.Box, dx, dy float64) annotation.Box {
	b.Left = min(max(b.Left+dx, 0), max(s.cfg.Display.Width-b.Width, 0))
	b.Top = min(max(b.Top+dy, 0), max(s.cfg.Display.Height-b.Height, 0))
	return b
}

//PointerUp ends the interaction: a drawn box is created, a moved or resized box is committed, a box clicked
//without dragging stays selected for relabelling. The session is idle afterwards.
func (s *Session) PointerUp(p Point) (PointerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p = s.clip(p)
	ptr := s.pointer
	s.pointer.reset()

	switch ptr.state {
	case PointerDrawing:
		box := annotation.BoxFromCorners(ptr.start.X, ptr.start.Y, p.X, p.Y)
		r, ok := s.createBox(ptr.frame, box)
		if !ok {
			return PointerResult{State: PointerIdle, Frame: ptr.frame, Box: box}, nil
		}
		return PointerResult{State: PointerCreated, Frame: ptr.frame, Box: r.Box(), Record: r, Changed: true}, nil

	case PointerSelected:
		r, ok := s.store.Lookup(ptr.frame, ptr.objectID)
		if !ok {
			return PointerResult{State: PointerIdle, Frame: ptr.frame}, nil
		}
		return PointerResult{State: PointerSelected, Frame: ptr.frame, Box: r.Box(), Record: r}, nil

	case PointerMoving, PointerResizing:
		var box annotation.Box
		if ptr.state == PointerMoving {
			box = s.shift(ptr.origin, p.X-ptr.start.X, p.Y-ptr.start.Y)
		} else {
			a := anchor(ptr.origin, ptr.handle)
			box = annotation.BoxFromCorners(a.X, a.Y, p.X, p.Y)
		}
		r, changed, err := s.moveOrResizeBox(ptr.frame, ptr.objectID, box)
		if err != nil {
			return PointerResult{State: PointerIdle, Frame: ptr.frame}, err
		}
		if !changed {
			return PointerResult{State: PointerIdle, Frame: ptr.frame, Box: box}, nil
		}
		return PointerResult{State: PointerCommitted, Frame: ptr.frame, Box: r.Box(), Record: r, Changed: true}, nil
	}

	return PointerResult{State: PointerIdle, Frame: s.frame}, nil
}
