package span

import "fmt"

// LiveError is an error tied to a span in a registered file.
type LiveError struct {
	Span    Span
	Message string
	Err     error // sentinel for errors.Is, may be nil
}

// NewLiveError creates a LiveError wrapping a sentinel error.
func NewLiveError(sp Span, sentinel error, format string, args ...any) *LiveError {
	return &LiveError{
		Span:    sp,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

func (e *LiveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Message)
}

func (e *LiveError) Unwrap() error {
	return e.Err
}

// ToFileError attaches the file name for reporting.
func (e *LiveError) ToFileError(fileName string) *FileError {
	return &FileError{
		FileName: fileName,
		Span:     e.Span,
		Message:  e.Message,
		Err:      e.Err,
	}
}

// FileError is returned when registering a file fails.
type FileError struct {
	FileName string
	Span     Span
	Message  string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.FileName, e.Span.Start, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
