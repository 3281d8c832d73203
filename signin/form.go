package signin

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "sync"

  "github.com/charmixer/meetui/validators"
)

const (
  FieldEmail = "email"
  FieldPassword = "password"
)

var (
  ErrInvalid = errors.New("signin: form has validation errors")
  ErrSubmitInFlight = errors.New("signin: a submission is already in flight")
)

// Credentials are held only for the duration of a submission and never persisted.
type Credentials struct {
  Email    string `form:"email" validate:"notblank,email" msg:"Invalid email"`
  Password string `form:"password" validate:"min=6" msg:"Password must be at least 6 characters long"`
}

var validate = validators.New()

// Validate runs the sign in schema. A nil map means the credentials are valid.
func Validate(credentials Credentials) map[string]string {
  messages, err := validators.Messages(credentials, validate.Struct(credentials))
  if err != nil {
    // Only reachable if the struct tags above are broken.
    panic(err)
  }
  if len(messages) == 0 {
    return nil
  }
  fieldErrors := make(map[string]string, len(messages))
  for field, msgs := range messages {
    fieldErrors[field] = strings.Join(msgs, ", ")
  }
  return fieldErrors
}

// Form holds the values, field errors and submission flag of the sign in form.
// Fields are first validated on submit, after that every change revalidates the changed field.
type Form struct {
  mu sync.Mutex

  values      Credentials
  fieldErrors map[string]string
  submitted   bool
  submitting  bool
}

func NewForm() *Form {
  return &Form{
    fieldErrors: make(map[string]string),
  }
}

func (f *Form) Values() Credentials {
  f.mu.Lock()
  defer f.mu.Unlock()
  return f.values
}

func (f *Form) SetValue(field string, value string) error {
  f.mu.Lock()
  defer f.mu.Unlock()

  switch field {
  case FieldEmail:
    f.values.Email = value
  case FieldPassword:
    f.values.Password = value
  default:
    return fmt.Errorf("signin: unknown field %q", field)
  }

  if f.submitted {
    f.revalidate(field)
  }
  return nil
}

func (f *Form) FieldError(field string) string {
  f.mu.Lock()
  defer f.mu.Unlock()
  return f.fieldErrors[field]
}

func (f *Form) FieldErrors() map[string]string {
  f.mu.Lock()
  defer f.mu.Unlock()
  out := make(map[string]string, len(f.fieldErrors))
  for k, v := range f.fieldErrors {
    out[k] = v
  }
  return out
}

func (f *Form) IsSubmitting() bool {
  f.mu.Lock()
  defer f.mu.Unlock()
  return f.submitting
}

// HandleSubmit validates the whole form and calls handler with the credentials only when
// they are valid. Otherwise the field errors are populated and ErrInvalid is returned.
func (f *Form) HandleSubmit(ctx context.Context, handler func(context.Context, Credentials) error) error {
  f.mu.Lock()
  f.submitted = true
  if f.submitting {
    f.mu.Unlock()
    return ErrSubmitInFlight
  }
  f.fieldErrors = Validate(f.values)
  if f.fieldErrors == nil {
    f.fieldErrors = make(map[string]string)
  }
  if len(f.fieldErrors) > 0 {
    f.mu.Unlock()
    return ErrInvalid
  }
  values := f.values
  f.mu.Unlock()

  return handler(ctx, values)
}

// restore puts back the outcome of an earlier submit, eg. one carried over a redirect.
// Known fields only, unknown ones are dropped.
func (f *Form) restore(email string, fieldErrors map[string]string) {
  f.mu.Lock()
  defer f.mu.Unlock()
  f.values = Credentials{Email: email}
  f.fieldErrors = make(map[string]string)
  for _, field := range []string{FieldEmail, FieldPassword} {
    if msg, ok := fieldErrors[field]; ok && msg != "" {
      f.fieldErrors[field] = msg
    }
  }
  f.submitted = len(f.fieldErrors) > 0
}

// beginSubmit marks the form pending. It fails if another submission holds it.
func (f *Form) beginSubmit() error {
  f.mu.Lock()
  defer f.mu.Unlock()
  if f.submitting {
    return ErrSubmitInFlight
  }
  f.submitting = true
  return nil
}

func (f *Form) endSubmit() {
  f.mu.Lock()
  f.submitting = false
  f.mu.Unlock()
}

// revalidate must be called with f.mu held.
func (f *Form) revalidate(field string) {
  if msg, ok := Validate(f.values)[field]; ok {
    f.fieldErrors[field] = msg
    return
  }
  delete(f.fieldErrors, field)
}
