package entity

// View identifies which screen the client is showing. Exactly one view is
// active at any time; the controller is the only writer.
type View string

const (
	ViewLogin     View = "anonymous-login"
	ViewRegister  View = "anonymous-register"
	ViewDashboard View = "dashboard"
	ViewInterview View = "in-interview"
	ViewFeedback  View = "feedback-review"
)

// Session is the root aggregate for one user's interaction lifetime.
// All mutation happens through the session controller.
type Session struct {
	Token string
	User  *User
	View  View

	// Loading is true for the entire lifetime of exactly the one
	// outstanding request. No second mutating action may be dispatched
	// while it is set.
	Loading bool

	// Alert holds the message surfaced by the last failed action.
	// Cleared when the next action is accepted.
	Alert string

	// Resume form. ResumeFile is the selected path, cleared after a
	// successful upload. ResumeUploaded is advisory only and does not
	// gate starting an interview; that guard lives server-side.
	ResumeFile     string
	ResumeUploaded bool

	Setup InterviewSetup

	Interview     *Interview
	QuestionIndex int
	Responses     []string
	CurrentAnswer string
	Feedback      string

	History []InterviewRecord
}

// NewSession returns an anonymous session on the login view.
func NewSession() *Session {
	return &Session{View: ViewLogin, Setup: DefaultSetup()}
}

func (s *Session) Authenticated() bool {
	return s.Token != ""
}

// CurrentQuestion returns the question at the current index, if any.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Interview == nil || s.QuestionIndex >= len(s.Interview.Questions) {
		return Question{}, false
	}
	return s.Interview.Questions[s.QuestionIndex], true
}

// Progress reports the 1-based position and total for display.
func (s *Session) Progress() (current, total int) {
	if s.Interview == nil {
		return 0, 0
	}
	return s.QuestionIndex + 1, len(s.Interview.Questions)
}

// ClearInterview discards the current interview attempt: the Interview
// aggregate, response log, scratch answer and feedback.
func (s *Session) ClearInterview() {
	s.Interview = nil
	s.QuestionIndex = 0
	s.Responses = nil
	s.CurrentAnswer = ""
	s.Feedback = ""
}
