package llmcall

// Recorder receives every model call attempt.
type Recorder interface {
	RecordCall(call *Call)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(call *Call)

// RecordCall calls f.
func (f RecorderFunc) RecordCall(call *Call) {
	if call != nil {
		f(call)
	}
}

// Verify interface
var (
	_ Recorder = (*Store)(nil)
	_ Recorder = RecorderFunc(nil)
)
