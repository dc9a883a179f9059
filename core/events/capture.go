package events

const (
	// KindCaptureStarted identifies a capture device that is now listening.
	KindCaptureStarted Kind = "capture.started"
	// KindCaptureFailed identifies a capture device that could not start.
	KindCaptureFailed Kind = "capture.failed"
)

// CaptureStarted reports that the listen request AttemptID succeeded.
type CaptureStarted struct {
	Base
	AttemptID string
}

func NewCaptureStarted(attemptID string) CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted), AttemptID: attemptID}
}

// CaptureFailed reports that the listen request AttemptID failed.
type CaptureFailed struct {
	Base
	AttemptID string
	Err       error
}

func NewCaptureFailed(attemptID string, err error) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), AttemptID: attemptID, Err: err}
}
