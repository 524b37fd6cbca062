package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/prepdeck/prepdeck/internal/domain/entity"
	repo "github.com/prepdeck/prepdeck/internal/domain/repository"
	"github.com/prepdeck/prepdeck/internal/infrastructure/api"
	"github.com/prepdeck/prepdeck/pkg/validation"
)

var (
	ErrRequestInFlight = errors.New("another request is still in flight")
	ErrNotAllowed      = errors.New("action not available in the current view")
	ErrNoFileSelected  = errors.New("select a resume file first")
	ErrNotPDF          = errors.New("only PDF files are allowed")
	ErrBlankAnswer     = errors.New("answer cannot be blank")
)

// Fixed fallback messages, one per operation, used when the service's
// error carries no detail.
const (
	loginFallback    = "Login failed. Please try again."
	registerFallback = "Registration failed. Please try again."
	uploadFallback   = "Resume upload failed. Please try again."
	startFallback    = "Failed to start interview. Please try again."
	submitFallback   = "Failed to submit your answer. Please try again."
	historyFallback  = "Failed to load interview history."
)

// SessionController owns the session state and drives every transition
// between views. It serializes Interview Service calls: the Loading flag
// is claimed before each request and released when it resolves, so at
// most one request is ever in flight.
type SessionController struct {
	session  *entity.Session
	gateway  repo.InterviewGateway
	tokens   repo.TokenRepository
	validate *validation.Validator
	logger   *logrus.Logger
}

func NewSessionController(gateway repo.InterviewGateway, tokens repo.TokenRepository, logger *logrus.Logger) *SessionController {
	return &SessionController{
		session:  entity.NewSession(),
		gateway:  gateway,
		tokens:   tokens,
		validate: validation.New(),
		logger:   logger,
	}
}

// Session exposes the state for rendering. Callers must treat it as
// read-only; every mutation goes through a controller method.
func (c *SessionController) Session() *entity.Session {
	return c.session
}

// begin claims the single in-flight slot. Pair with a deferred release
// so the flag never sticks, whichever way the request resolves.
func (c *SessionController) begin() error {
	if c.session.Loading {
		return ErrRequestInFlight
	}
	c.session.Loading = true
	c.session.Alert = ""
	return nil
}

func (c *SessionController) release() {
	c.session.Loading = false
}

// fail records the alert for a failed request: the service's detail
// verbatim when present, otherwise the per-operation fallback.
func (c *SessionController) fail(op, fallback string, err error) error {
	msg := fallback
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		msg = apiErr.Detail
	}
	c.session.Alert = msg
	c.logger.WithError(err).WithField("op", op).Warn("request failed")
	return err
}

// reject blocks an action on a client-side validation error. No request
// is made and no state changes beyond the surfaced alert.
func (c *SessionController) reject(err error) error {
	c.session.Alert = err.Error()
	return err
}

// Start brings the controller to its initial view. A token surviving
// from a previous run is validated once against the service; any
// failure clears it and demotes to the login view without an alert.
func (c *SessionController) Start(ctx context.Context) {
	token, err := c.tokens.Load()
	if err != nil {
		c.logger.WithError(err).Warn("token slot read failed")
	}
	if token == "" {
		c.session.View = entity.ViewLogin
		return
	}
	if err := c.begin(); err != nil {
		return
	}
	defer c.release()

	if err := c.gateway.ValidateToken(ctx, token); err != nil {
		c.logger.WithError(err).Info("stored token rejected, starting anonymous")
		if err := c.tokens.Clear(); err != nil {
			c.logger.WithError(err).Warn("token slot clear failed")
		}
		c.session.View = entity.ViewLogin
		return
	}
	c.session.Token = token
	c.session.View = entity.ViewDashboard
	c.logger.Info("session rehydrated")
}

// ShowRegister switches the anonymous view to the registration form.
func (c *SessionController) ShowRegister() error {
	if c.session.View != entity.ViewLogin {
		return ErrNotAllowed
	}
	if c.session.Loading {
		return ErrRequestInFlight
	}
	c.session.View = entity.ViewRegister
	c.session.Alert = ""
	return nil
}

// ShowLogin switches the anonymous view back to the login form.
func (c *SessionController) ShowLogin() error {
	if c.session.View != entity.ViewRegister {
		return ErrNotAllowed
	}
	if c.session.Loading {
		return ErrRequestInFlight
	}
	c.session.View = entity.ViewLogin
	c.session.Alert = ""
	return nil
}

func (c *SessionController) Login(ctx context.Context, email, password string) error {
	if c.session.View != entity.ViewLogin {
		return ErrNotAllowed
	}
	creds := entity.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := c.validate.Struct(creds); err != nil {
		return c.reject(err)
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.release()

	grant, err := c.gateway.Login(ctx, creds)
	if err != nil {
		return c.fail("login", loginFallback, err)
	}
	c.establish(grant)
	return nil
}

func (c *SessionController) Register(ctx context.Context, name, email, password string) error {
	if c.session.View != entity.ViewRegister {
		return ErrNotAllowed
	}
	reg := entity.Registration{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := c.validate.Struct(reg); err != nil {
		return c.reject(err)
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.release()

	grant, err := c.gateway.Register(ctx, reg)
	if err != nil {
		return c.fail("register", registerFallback, err)
	}
	c.establish(grant)
	return nil
}

// establish promotes the session after a successful login/registration.
func (c *SessionController) establish(grant entity.AuthGrant) {
	c.session.Token = grant.Token
	u := grant.User
	c.session.User = &u
	c.session.View = entity.ViewDashboard
	if err := c.tokens.Save(grant.Token); err != nil {
		// losing the slot only costs a re-login on the next start
		c.logger.WithError(err).Warn("token slot write failed")
	}
	c.logger.WithFields(logrus.Fields{"user": u.Email}).Info("session authenticated")
}

// SelectResume records the file chosen in the upload form.
func (c *SessionController) SelectResume(path string) error {
	if c.session.View != entity.ViewDashboard {
		return ErrNotAllowed
	}
	if c.session.Loading {
		return ErrRequestInFlight
	}
	c.session.ResumeFile = strings.TrimSpace(path)
	return nil
}

// UploadResume sends the selected file to the service. The client checks
// only that a file is selected and carries the .pdf extension; content
// and size enforcement is the service's responsibility.
func (c *SessionController) UploadResume(ctx context.Context) error {
	if c.session.View != entity.ViewDashboard {
		return ErrNotAllowed
	}
	file := c.session.ResumeFile
	if file == "" {
		return c.reject(ErrNoFileSelected)
	}
	if !strings.EqualFold(filepath.Ext(file), ".pdf") {
		return c.reject(ErrNotPDF)
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.release()

	f, err := os.Open(file)
	if err != nil {
		return c.fail("upload-resume", uploadFallback, err)
	}
	defer f.Close()

	receipt, err := c.gateway.UploadResume(ctx, c.session.Token, filepath.Base(file), f)
	if err != nil {
		return c.fail("upload-resume", uploadFallback, err)
	}
	c.session.ResumeUploaded = true
	c.session.ResumeFile = ""
	c.logger.WithField("resume_id", receipt.ResumeID).Info("resume uploaded")
	return nil
}

// StartInterview requests a fresh interview for the given setup. On
// success the previous attempt (if any) is discarded and the first
// question becomes current. On failure the dashboard stays as it was.
// Whether a resume exists is deliberately not checked here; the service
// owns that guard.
func (c *SessionController) StartInterview(ctx context.Context, setup entity.InterviewSetup) error {
	if c.session.View != entity.ViewDashboard {
		return ErrNotAllowed
	}
	setup.JobRole = strings.TrimSpace(setup.JobRole)
	if setup.ExperienceLevel == "" {
		setup.ExperienceLevel = entity.ExperienceMid
	}
	if setup.InterviewType == "" {
		setup.InterviewType = entity.InterviewText
	}
	if err := c.validate.Struct(setup); err != nil {
		return c.reject(err)
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.release()

	c.session.Setup = setup
	iv, err := c.gateway.StartInterview(ctx, c.session.Token, setup)
	if err != nil {
		return c.fail("start-interview", startFallback, err)
	}
	if iv.TotalQuestions() == 0 {
		// a questionless interview would have no way forward
		return c.fail("start-interview", startFallback, errors.New("service returned no questions"))
	}
	c.session.ClearInterview()
	c.session.Interview = iv
	c.session.View = entity.ViewInterview
	c.logger.WithFields(logrus.Fields{
		"interview": iv.ID,
		"questions": iv.TotalQuestions(),
	}).Info("interview started")
	return nil
}

// SetAnswer updates the scratch answer for the displayed question.
func (c *SessionController) SetAnswer(text string) error {
	if c.session.View != entity.ViewInterview {
		return ErrNotAllowed
	}
	if c.session.Loading {
		return ErrRequestInFlight
	}
	c.session.CurrentAnswer = text
	return nil
}

// SubmitAnswer submits the scratch answer for the current question.
// When the service reports completion the feedback is stored and the
// view moves to the review screen; otherwise the next question in order
// becomes current. Questions cannot be skipped or answered out of order.
func (c *SessionController) SubmitAnswer(ctx context.Context) error {
	if c.session.View != entity.ViewInterview {
		return ErrNotAllowed
	}
	answer := strings.TrimSpace(c.session.CurrentAnswer)
	if answer == "" {
		return c.reject(ErrBlankAnswer)
	}
	q, ok := c.session.CurrentQuestion()
	if !ok {
		return ErrNotAllowed
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.release()

	res, err := c.gateway.SubmitResponse(ctx, c.session.Token, q.ID, answer)
	if err != nil {
		return c.fail("submit-response", submitFallback, err)
	}
	c.session.Responses = append(c.session.Responses, answer)
	c.session.CurrentAnswer = ""
	if res.Completed {
		c.session.Feedback = res.Feedback
		c.session.View = entity.ViewFeedback
		c.logger.WithField("interview", c.session.Interview.ID).Info("interview completed")
		return nil
	}
	c.session.QuestionIndex++
	return nil
}

// FinishReview leaves the feedback screen and discards the attempt.
func (c *SessionController) FinishReview() error {
	if c.session.View != entity.ViewFeedback {
		return ErrNotAllowed
	}
	c.session.ClearInterview()
	c.session.Alert = ""
	c.session.View = entity.ViewDashboard
	return nil
}

// PracticeAgain is the feedback screen's second exit; it performs the
// same reset as FinishReview.
func (c *SessionController) PracticeAgain() error {
	return c.FinishReview()
}

// LoadHistory refreshes the dashboard's list of past interviews.
func (c *SessionController) LoadHistory(ctx context.Context) error {
	if c.session.View != entity.ViewDashboard {
		return ErrNotAllowed
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.release()

	records, err := c.gateway.History(ctx, c.session.Token)
	if err != nil {
		return c.fail("interview-history", historyFallback, err)
	}
	c.session.History = records
	return nil
}

// Logout discards the token, profile and any interview state from any
// authenticated view and returns to the login form.
func (c *SessionController) Logout() error {
	if !c.session.Authenticated() {
		return ErrNotAllowed
	}
	if c.session.Loading {
		return ErrRequestInFlight
	}
	if err := c.tokens.Clear(); err != nil {
		c.logger.WithError(err).Warn("token slot clear failed")
	}
	c.session.Token = ""
	c.session.User = nil
	c.session.ResumeFile = ""
	c.session.ResumeUploaded = false
	c.session.History = nil
	c.session.Setup = entity.DefaultSetup()
	c.session.ClearInterview()
	c.session.Alert = ""
	c.session.View = entity.ViewLogin
	c.logger.Info("logged out")
	return nil
}
