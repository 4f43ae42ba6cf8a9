package session

import (
	"fmt"
	"strings"
)

type sessionError string

func (e sessionError) Error() string { return string(e) }

const (
	ErrModelRecord   = sessionError("boxes predicted by the model can not be deleted, relabel them as false_detection instead")
	ErrNotFound      = sessionError("no box with given object id on given frame")
	ErrUnknownLabel  = sessionError("label is not part of the class vocabulary")
	ErrNoTransport   = sessionError("session has no transport to submit through")
	ErrInvalidSize   = sessionError("intrinsic and display sizes must be positive")
	ErrInvalidFrame  = sessionError("frame number must not be negative")
	ErrAlreadyActive = sessionError("auto saver is already running")
)

//UnlabelledError refuses a submission while boxes are still labelled "unlabelled"
type UnlabelledError struct {
	//Frames holds the offending frame numbers, sorted and unique
	Frames []int
	//Automatic is true when the refused submission was an auto-save
	Automatic bool
}

func (e *UnlabelledError) Error() string {
	frames := make([]string, len(e.Frames))
	for i, f := range e.Frames {
		frames[i] = fmt.Sprint(f)
	}
	kind := "submission"
	if e.Automatic {
		kind = "auto-save"
	}
	return fmt.Sprintf("%s refused, unlabelled boxes remain on frames %s", kind, strings.Join(frames, ", "))
}

//TransportError wraps a failed round trip to the backend. The session state is kept as it was
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
