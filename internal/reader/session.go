package reader

import "errors"

// State is the lifecycle state of an open document
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	ErrNotReady          = errors.New("document is not ready")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Session is one open document. A session is owned by a single caller and
// is not safe for concurrent use.
type Session struct {
	state    State
	document Document
	progress Progress
	err      error
}

// NewSession returns a session waiting for its text
func NewSession() *Session {
	return &Session{state: StateLoading}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Load paginates the retrieved text and makes the session ready. Text with
// no words becomes a single placeholder page.
func (s *Session) Load(text string, pageSize int) error {
	doc := Paginate(text, pageSize)
	if doc.TotalPages() == 0 {
		doc = Placeholder(NoTextMessage)
	}
	return s.LoadDocument(doc)
}

// LoadDocument makes the session ready with an already paginated document
func (s *Session) LoadDocument(doc Document) error {
	if s.state != StateLoading {
		return ErrInvalidTransition
	}
	s.document = doc
	s.progress = NewProgress(doc.TotalPages())
	s.err = nil
	s.state = StateReady
	return nil
}

// Fail records a fetch or pagination failure
func (s *Session) Fail(err error) error {
	if s.state != StateLoading {
		return ErrInvalidTransition
	}
	s.err = err
	s.state = StateError
	return nil
}

// Retry leaves the error state so the text can be fetched again
func (s *Session) Retry() error {
	if s.state != StateError {
		return ErrInvalidTransition
	}
	s.err = nil
	s.state = StateLoading
	return nil
}

// Resume restores a persisted watermark
func (s *Session) Resume(highest int) (Progress, error) {
	if s.state != StateReady {
		return Progress{}, ErrNotReady
	}
	s.progress = Resume(highest, s.document.TotalPages())
	return s.progress, nil
}

// Advance navigates to a page
func (s *Session) Advance(requested int) (Progress, error) {
	if s.state != StateReady {
		return Progress{}, ErrNotReady
	}
	s.progress = Advance(s.progress, requested)
	return s.progress, nil
}

// CurrentPage returns the text and number of the page being read
func (s *Session) CurrentPage() (string, int, error) {
	if s.state != StateReady {
		return "", 0, ErrNotReady
	}
	text, n := s.document.Page(s.progress.CurrentPage)
	return text, n, nil
}

func (s *Session) Progress() Progress { return s.progress }
func (s *Session) Document() Document { return s.document }
func (s *Session) Err() error         { return s.err }
