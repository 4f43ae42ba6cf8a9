package session

import (
	"context"

	"github.com/chenBenjamin97/model-checker/pkg/annotation"
	"github.com/chenBenjamin97/model-checker/pkg/telemetry"
)

//stamp identifies the edit of a record that went out with a submission
type stamp struct {
	frame    int
	objectID int
	version  uint64
}

//Submit sends the modified records and the deletion ledger to the backend.
//A manual submission blocked by unlabelled boxes notifies NoticeUnlabelled, an automatic one NoticeAutoSaveFailed;
//either way the session is left as it was. Modified flags and the deletion ledger are only cleared once both the
//upsert and the delete call succeed, so a retry resends the same change set. Edits made while the round trip is in
//flight stay modified.
func (s *Session) Submit(ctx context.Context, manual bool) error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	s.mu.Lock()
	if frames := s.unlabelledFrames(); len(frames) > 0 {
		s.mu.Unlock()
		s.cfg.Telemetry.Inc(telemetry.SubmitBlocked)
		if manual {
			s.notify(NoticeUnlabelled, frames)
		} else {
			s.cfg.Telemetry.Inc(telemetry.AutoSaveFailed)
			s.notify(NoticeAutoSaveFailed, frames)
		}
		s.log.Warnf("Submit: Refused, unlabelled boxes remain on %d frames", len(frames))
		return &UnlabelledError{Frames: frames, Automatic: !manual}
	}
	snapshot := s.store.Clone()
	deleted := s.ledger.Records()
	s.mu.Unlock()

	var changed []annotation.WireRecord
	var stamps []stamp
	for _, r := range snapshot.All() {
		if !r.Modified {
			continue
		}
		changed = append(changed, annotation.ToWire(r, s.cfg.Intrinsic, s.cfg.Display))
		stamps = append(stamps, stamp{frame: r.FrameNum, objectID: r.ObjectID, version: r.Version})
	}

	if len(changed) > 0 {
		if err := s.cfg.Transport.Submit(ctx, s.cfg.ContainerID, changed); err != nil {
			return s.failed(manual, &TransportError{Op: "submit", Err: err})
		}
	}

	if len(deleted) > 0 {
		wire := make([]annotation.WireRecord, len(deleted))
		for i, r := range deleted {
			wire[i] = annotation.ToWire(r, s.cfg.Intrinsic, s.cfg.Display)
		}
		if err := s.cfg.Transport.DeleteRecords(ctx, wire); err != nil {
			return s.failed(manual, &TransportError{Op: "delete records", Err: err})
		}
	}

	//both calls went through, the change set is persisted
	s.mu.Lock()
	for _, st := range stamps {
		s.store.Update(st.frame, st.objectID, func(r *annotation.Record) {
			if r.Version == st.version {
				r.Modified = false
			}
		})
	}
	s.ledger.DropFirst(len(deleted))
	s.cfg.Telemetry.SetPendingDeletions(s.ledger.Len())
	s.mu.Unlock()
	s.cfg.Telemetry.Add(telemetry.RecordsSubmitted, len(changed))
	s.cfg.Telemetry.Add(telemetry.RecordsDeleted, len(deleted))

	s.cfg.Telemetry.Inc(telemetry.SubmitSucceeded)
	s.log.Infof("Submit: Container '%s' saved, %d records sent, %d deletions reported", s.cfg.ContainerID, len(changed), len(deleted))
	if manual {
		s.notify(NoticeSaved, nil)
	} else {
		s.notify(NoticeAutoSaved, nil)
	}
	return nil
}

func (s *Session) failed(manual bool, err *TransportError) error {
	s.cfg.Telemetry.Inc(telemetry.SubmitFailed)
	if !manual {
		s.cfg.Telemetry.Inc(telemetry.AutoSaveFailed)
	}
	s.log.Errorf("Submit: %v", err)
	s.notify(NoticeSubmitFailed, nil)
	return err
}
