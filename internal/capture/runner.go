package capture

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/scrollshot/scrollshot/internal/caperr"
	"github.com/scrollshot/scrollshot/internal/config"
	"github.com/scrollshot/scrollshot/internal/cv"
	"github.com/scrollshot/scrollshot/internal/database"
	"github.com/scrollshot/scrollshot/internal/display"
	"github.com/scrollshot/scrollshot/internal/events"
	"github.com/scrollshot/scrollshot/internal/logging"
	"github.com/scrollshot/scrollshot/internal/session"
	"github.com/scrollshot/scrollshot/internal/storage"
)

// Outcome summarizes a finished live capture session.
type Outcome struct {
	OutputPath  string
	PreviewPath string
	Stitch      *cv.StitchResult
	Progress    session.Progress
	StopReason  session.StopReason
}

// Runner orchestrates one live scroll-capture flow at a time: it polls
// the region on the configured cadence, books accepted frames into the
// session, and stitches the result when the session stops. At most one
// capture is in flight per runner; concurrent Run calls fail fast.
type Runner struct {
	backend  Backend
	settings config.Settings
	logger   *logging.Logger
	bus      events.EventBus
	history  *database.DB

	inFlight sync.Mutex
}

// NewRunner creates a runner over the given backend and settings.
func NewRunner(backend Backend, settings config.Settings) *Runner {
	return &Runner{
		backend:  backend,
		settings: settings,
		logger:   logging.NewLogger("runner"),
	}
}

// WithEventBus attaches a bus for session/frame/stitch events.
func (r *Runner) WithEventBus(bus events.EventBus) *Runner {
	r.bus = bus
	return r
}

// WithHistory attaches a capture-history store.
func (r *Runner) WithHistory(db *database.DB) *Runner {
	r.history = db
	return r
}

// Run captures the region until the session auto-stops or ctx is
// cancelled, then stitches the accepted frames and persists the
// composite. Cancelling before two frames were accepted aborts with a
// Cancelled error and no output.
func (r *Runner) Run(ctx context.Context, rect display.CaptureRect) (*Outcome, error) {
	if !r.inFlight.TryLock() {
		return nil, caperr.New(caperr.KindCaptureFailed,
			"another capture is already in progress")
	}
	defer r.inFlight.Unlock()

	if !rect.Valid() {
		return nil, caperr.New(caperr.KindValidationFailed, "capture area is too small")
	}

	sess := session.New(r.settings.Scroll)
	poller := session.NewPoller(r.settings.ChangeThreshold)
	poller.Reset()
	dedupe := NewDeduper(r.settings.DedupeDistance)
	dedupe.Reset()

	var sessionID int64
	if r.history != nil {
		id, err := r.history.StartSession()
		if err != nil {
			r.logger.Error("failed to record session start", err)
		} else {
			sessionID = id
		}
	}

	r.publish(events.EventTypeSessionStarted, map[string]interface{}{
		"rect": rect,
	})
	sess.MarkCapturing()

	throttle := time.Duration(r.settings.Scroll.ThrottleMs) * time.Millisecond
	if throttle <= 0 {
		throttle = 100 * time.Millisecond
	}
	ticker := time.NewTicker(throttle)
	defer ticker.Stop()

	var frames []*image.RGBA
	var lastKept *image.RGBA
	stopReason := session.StopUser

poll:
	for {
		select {
		case <-ctx.Done():
			sess.Cancel()
			stopReason = session.StopUser
			r.publish(events.EventTypeSessionCancelled, nil)
			break poll

		case <-ticker.C:
			frame, err := r.backend.Capture(rect)
			if err != nil {
				if caperr.IsKind(err, caperr.KindPermission) || caperr.IsKind(err, caperr.KindCancelled) {
					r.failHistory(sessionID, err)
					return nil, err
				}
				r.logger.Error("capture poll failed", err)
				if res := sess.AppendFailed(); res.Kind == session.AppendAutoStopped {
					stopReason = res.Stop
					r.publishAutoStop(res.Stop)
					break poll
				}
				continue
			}

			result := poller.Poll(frame)
			if result.State != session.PollCaptured {
				continue
			}

			if len(frames) == 0 {
				frames = append(frames, result.Frame)
				lastKept = result.Frame
				sess.AppendAccepted(frame.Bounds().Dy(), 0)
				r.publishFrame(len(frames))
				continue
			}

			if dedupe.IsDuplicate(result.Frame) {
				r.publishSkip("duplicate")
				continue
			}

			overlap, score, err := cv.FindBestOverlap(lastKept, result.Frame)
			if err != nil {
				r.publishSkip("match_failed")
				if res := sess.AppendFailed(); res.Kind == session.AppendAutoStopped {
					stopReason = res.Stop
					r.publishAutoStop(res.Stop)
					break poll
				}
				continue
			}

			dy := result.Frame.Bounds().Dy() - overlap
			if dy < display.MinCaptureDimension {
				r.publishSkip("too_small_delta")
				continue
			}

			frames = append(frames, result.Frame)
			lastKept = result.Frame
			r.publishFrame(len(frames))

			if res := sess.AppendAccepted(dy, score); res.Kind == session.AppendAutoStopped {
				stopReason = res.Stop
				r.publishAutoStop(res.Stop)
				break poll
			}
		}
	}

	return r.finish(sessionID, sess, frames, stopReason)
}

// finish stitches the accepted frames and persists the composite.
func (r *Runner) finish(sessionID int64, sess *session.Session, frames []*image.RGBA, stopReason session.StopReason) (*Outcome, error) {
	progress := sess.Progress()

	if len(frames) < 2 {
		r.abortHistory(sessionID, stopReason)
		if stopReason == session.StopConsecutiveFailures {
			return nil, caperr.New(caperr.KindCaptureFailed,
				"capture stopped after repeated frame failures")
		}
		return nil, caperr.New(caperr.KindCancelled,
			"capture stopped before enough frames were collected")
	}

	composite, result, err := cv.Stitch(frames, cv.StitchOptions{
		Mode:            cv.StitchStrict,
		FrameCap:        r.settings.Scroll.MaxFrames,
		ChangeThreshold: r.settings.ChangeThreshold,
	})
	if err != nil {
		r.publish(events.EventTypeStitchFailed, map[string]interface{}{"error": err.Error()})
		r.failHistory(sessionID, err)
		return nil, err
	}

	outputPath, err := storage.SavePNG(composite, r.settings.SaveDir, "scrollshot")
	if err != nil {
		r.failHistory(sessionID, err)
		return nil, err
	}

	previewPath, err := storage.SavePreview(composite, r.settings.SaveDir, r.settings.PreviewMaxWidth)
	if err != nil {
		// The composite is already saved; a missing thumbnail is not fatal.
		r.logger.Error("failed to save preview", err)
		previewPath = ""
	}

	if r.history != nil && sessionID != 0 {
		if err := r.history.CompleteSession(sessionID, stopReason.String(),
			result.TotalFrames, result.UsedFrames, result.SkippedFrames,
			result.FinalHeight, outputPath); err != nil {
			r.logger.Error("failed to record session completion", err)
		}
	}

	r.publish(events.EventTypeStitchCompleted, map[string]interface{}{
		"output":       outputPath,
		"used_frames":  result.UsedFrames,
		"final_height": result.FinalHeight,
	})

	r.logger.InfoWithContext("capture session finished", map[string]interface{}{
		"frames": result.TotalFrames,
		"used":   result.UsedFrames,
		"height": result.FinalHeight,
		"output": outputPath,
	})

	return &Outcome{
		OutputPath:  outputPath,
		PreviewPath: previewPath,
		Stitch:      result,
		Progress:    progress,
		StopReason:  stopReason,
	}, nil
}

func (r *Runner) publish(eventType events.EventType, data map[string]interface{}) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(events.Event{Type: eventType, Source: "runner", Data: data})
}

func (r *Runner) publishFrame(count int) {
	r.publish(events.EventTypeFrameCaptured, map[string]interface{}{"frames": count})
}

func (r *Runner) publishSkip(reason string) {
	r.publish(events.EventTypeFrameSkipped, map[string]interface{}{"reason": reason})
}

func (r *Runner) publishAutoStop(reason session.StopReason) {
	r.publish(events.EventTypeSessionAutoStopped, map[string]interface{}{"reason": reason.String()})
}

func (r *Runner) failHistory(sessionID int64, cause error) {
	if r.history == nil || sessionID == 0 {
		return
	}
	if err := r.history.FailSession(sessionID, cause.Error()); err != nil {
		r.logger.Error("failed to record session failure", err)
	}
}

func (r *Runner) abortHistory(sessionID int64, reason session.StopReason) {
	if r.history == nil || sessionID == 0 {
		return
	}
	if err := r.history.AbortSession(sessionID, reason.String()); err != nil {
		r.logger.Error("failed to record session abort", err)
	}
}
