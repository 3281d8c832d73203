package signin

import (
  "context"
  "errors"
  "sync"
)

// GenericFailureMessage is shown when the authentication call fails without a message
// from the authentication service, eg. the service could not be reached.
const GenericFailureMessage = "Something went wrong. Please try again."

// Session is what the authentication service hands back on a successful sign in.
type Session struct {
  Token  string
  UserId string
  Email  string
  Name   string
}

// AuthError is a failure reported by the authentication service. Message is shown verbatim.
type AuthError struct {
  Status  int
  Code    string
  Message string
}

func (e *AuthError) Error() string {
  return e.Message
}

type Authenticator interface {
  SignInEmail(ctx context.Context, credentials Credentials) (*Session, error)
}

type Router interface {
  Push(path string)
}

type Phase int

const (
  PhaseIdle Phase = iota
  PhaseValidating
  PhaseInvalid
  PhaseSubmitting
  PhaseSucceeded
  PhaseFailed
)

func (p Phase) String() string {
  switch p {
  case PhaseIdle:
    return "idle"
  case PhaseValidating:
    return "validating"
  case PhaseInvalid:
    return "invalid"
  case PhaseSubmitting:
    return "submitting"
  case PhaseSucceeded:
    return "succeeded"
  case PhaseFailed:
    return "failed"
  }
  return "unknown"
}

type Option func(*View)

// WithRootPath sets where the router is pushed to after signing in. Defaults to "/".
func WithRootPath(path string) Option {
  return func(v *View) {
    v.rootPath = path
  }
}

// View mediates between the sign in form and the authentication service.
type View struct {
  auth   Authenticator
  router Router
  form   *Form

  rootPath string

  mu              sync.Mutex
  phase           Phase
  submissionError string
  session         *Session
}

func NewView(auth Authenticator, router Router, opts ...Option) *View {
  v := &View{
    auth: auth,
    router: router,
    form: NewForm(),
    rootPath: "/",
  }
  for _, opt := range opts {
    opt(v)
  }
  return v
}

func (v *View) Form() *Form {
  return v.form
}

func (v *View) SetValue(field string, value string) error {
  return v.form.SetValue(field, value)
}

func (v *View) Phase() Phase {
  v.mu.Lock()
  defer v.mu.Unlock()
  return v.phase
}

func (v *View) SubmissionError() string {
  v.mu.Lock()
  defer v.mu.Unlock()
  return v.submissionError
}

// Session returns the session of a successful submission, nil otherwise.
func (v *View) Session() *Session {
  v.mu.Lock()
  defer v.mu.Unlock()
  return v.session
}

// Submit validates the form and, when valid, signs in and waits for the outcome.
// It returns nil after navigating, ErrInvalid on field errors, ErrSubmitInFlight when
// another submission is pending, or the error of the authentication call.
func (v *View) Submit(ctx context.Context) error {
  if v.form.IsSubmitting() {
    return ErrSubmitInFlight
  }
  v.setPhase(PhaseValidating)
  err := v.form.HandleSubmit(ctx, v.onSubmit)
  if errors.Is(err, ErrInvalid) {
    v.setPhase(PhaseInvalid)
  }
  return err
}

func (v *View) onSubmit(ctx context.Context, credentials Credentials) error {
  if err := v.form.beginSubmit(); err != nil {
    return err
  }
  defer v.form.endSubmit()

  v.mu.Lock()
  v.submissionError = ""
  v.session = nil
  v.phase = PhaseSubmitting
  v.mu.Unlock()

  session, err := v.auth.SignInEmail(ctx, credentials)
  if err != nil {
    message := GenericFailureMessage
    var authErr *AuthError
    if errors.As(err, &authErr) && authErr.Message != "" {
      message = authErr.Message
    }
    v.mu.Lock()
    v.submissionError = message
    v.phase = PhaseFailed
    v.mu.Unlock()
    return err
  }

  v.mu.Lock()
  v.session = session
  v.phase = PhaseSucceeded
  v.mu.Unlock()

  // Pending is cleared before navigating, the deferred reset covers the failure path.
  v.form.endSubmit()
  v.router.Push(v.rootPath)
  return nil
}

func (v *View) setPhase(p Phase) {
  v.mu.Lock()
  v.phase = p
  v.mu.Unlock()
}

// Restore rebuilds the view from the outcome of an earlier submit so it can be rendered
// again, eg. after a post-redirect-get round trip. The password is never restored.
func (v *View) Restore(email string, fieldErrors map[string]string, submissionError string) {
  v.form.restore(email, fieldErrors)

  v.mu.Lock()
  defer v.mu.Unlock()
  v.submissionError = submissionError
  v.session = nil
  switch {
  case len(v.form.FieldErrors()) > 0:
    v.phase = PhaseInvalid
  case submissionError != "":
    v.phase = PhaseFailed
  default:
    v.phase = PhaseIdle
  }
}

// Page is everything the sign in template needs. The password is never echoed back.
type Page struct {
  Email           string
  EmailError      string
  PasswordError   string
  SubmissionError string
  IsSubmitting    bool
}

func (v *View) Page() Page {
  values := v.form.Values()
  return Page{
    Email: values.Email,
    EmailError: v.form.FieldError(FieldEmail),
    PasswordError: v.form.FieldError(FieldPassword),
    SubmissionError: v.SubmissionError(),
    IsSubmitting: v.form.IsSubmitting(),
  }
}
