package credentials

import (
  "errors"
  "net/http"
  "github.com/sirupsen/logrus"
  "github.com/gin-gonic/gin"
  "github.com/gorilla/csrf"
  "github.com/gin-contrib/sessions"

  "github.com/charmixer/meetui/app"
  "github.com/charmixer/meetui/config"
  "github.com/charmixer/meetui/metrics"
  "github.com/charmixer/meetui/signin"
)

type signInForm struct {
  Email    string `form:"email"`
  Password string `form:"password"`
}

// redirector is the signin.Router of a single request. The target is turned into a 302 by the handler.
type redirector struct {
  to string
}

func (r *redirector) Push(path string) {
  r.to = path
}

func ShowLogin(env *app.Environment) gin.HandlerFunc {
  fn := func(c *gin.Context) {

    log := c.MustGet(env.Constants.LogKey).(*logrus.Entry)
    log = log.WithFields(logrus.Fields{
      "func": "ShowLogin",
    })

    // Already signed in, nothing to do here.
    if s := app.CurrentSession(env, c); s != nil && s.Token != "" {
      redirectTo := config.GetString("meetui.public.endpoints.root")
      log.WithFields(logrus.Fields{"redirect_to": redirectTo}).Debug("Redirecting")
      c.Redirect(http.StatusFound, redirectTo)
      c.Abort()
      return
    }

    session := sessions.Default(c)

    // Values retained from the last submit, except passwords!
    var email, submitError string
    var fieldErrors map[string]string
    if flashes := session.Flashes(SIGNIN_EMAIL); len(flashes) > 0 {
      email, _ = flashes[0].(string)
    }
    if flashes := session.Flashes(SIGNIN_ERRORS); len(flashes) > 0 {
      fieldErrors, _ = flashes[0].(map[string]string)
    }
    if flashes := session.Flashes(SIGNIN_SUBMIT_ERROR); len(flashes) > 0 {
      submitError, _ = flashes[0].(string)
    }
    err := session.Save() // Remove flashes read
    if err != nil {
      log.Debug(err.Error())
    }

    view := signin.NewView(env.AuthService, nil)
    view.Restore(email, fieldErrors, submitError)
    log.WithFields(logrus.Fields{"phase": view.Phase().String()}).Debug("Showing sign in")

    c.HTML(http.StatusOK, "signin.html", gin.H{
      "links": []map[string]string{
        {"href": "/public/css/credentials.css"},
      },
      "title": "Sign In",
      csrf.TemplateTag: csrf.TemplateField(c.Request),
      "form": view.Page(),
      "signInUrl": config.GetString("meetui.public.endpoints.signin"),
      "signUpUrl": config.GetString("meetui.public.endpoints.signup"),
      "brandName": config.GetString("brand.name"),
      "brandLogo": config.GetString("brand.logo"),
      "brandYear": config.GetInt("brand.year"),
    })
  }
  return gin.HandlerFunc(fn)
}

func SubmitLogin(env *app.Environment) gin.HandlerFunc {
  fn := func(c *gin.Context) {

    log := c.MustGet(env.Constants.LogKey).(*logrus.Entry)
    log = log.WithFields(logrus.Fields{
      "func": "SubmitLogin",
    })

    var form signInForm
    err := c.ShouldBind(&form)
    if err != nil {
      log.Debug(err.Error())
      c.AbortWithStatus(http.StatusBadRequest)
      return
    }

    session := sessions.Default(c)

    router := &redirector{}
    view := signin.NewView(env.AuthService, router, signin.WithRootPath(config.GetString("meetui.public.endpoints.root")))
    for _, field := range []struct{ name, value string }{
      {signin.FieldEmail, form.Email},
      {signin.FieldPassword, form.Password},
    } {
      err = view.SetValue(field.name, field.value)
      if err != nil {
        log.Debug(err.Error())
        c.AbortWithStatus(http.StatusInternalServerError)
        return
      }
    }

    redirectTo := c.Request.URL.RequestURI()

    err = view.Submit(c.Request.Context())
    log = log.WithFields(logrus.Fields{"phase": view.Phase().String()})
    if err == nil {
      signedIn := view.Session()

      err = app.StartSession(env, c, signedIn)
      if err != nil {
        log.Debug(err.Error())
        c.AbortWithStatus(http.StatusInternalServerError)
        return
      }

      metrics.SignInAttemptsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
      log.WithFields(logrus.Fields{
        "id": signedIn.UserId,
        "redirect_to": router.to,
      }).Debug("Signed in. Redirecting")
      c.Redirect(http.StatusFound, router.to)
      c.Abort()
      return
    }

    if errors.Is(err, signin.ErrInvalid) {
      // Retain the email for the redirect, never the password.
      session.AddFlash(form.Email, SIGNIN_EMAIL)
      session.AddFlash(view.Form().FieldErrors(), SIGNIN_ERRORS)
      err = session.Save()
      if err != nil {
        log.Debug(err.Error())
      }

      metrics.SignInAttemptsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
      log.WithFields(logrus.Fields{"redirect_to": redirectTo}).Debug("Redirecting")
      c.Redirect(http.StatusFound, redirectTo)
      c.Abort()
      return
    }

    // Deny by default
    var authErr *signin.AuthError
    if errors.As(err, &authErr) {
      metrics.SignInAttemptsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
      log.WithFields(logrus.Fields{"status": authErr.Status, "code": authErr.Code}).Debug(authErr.Message)
    } else {
      metrics.SignInAttemptsTotal.WithLabelValues(metrics.OutcomeError).Inc()
      log.Debug(err.Error())
    }

    session.AddFlash(form.Email, SIGNIN_EMAIL)
    session.AddFlash(view.SubmissionError(), SIGNIN_SUBMIT_ERROR)
    err = session.Save()
    if err != nil {
      log.Debug(err.Error())
    }

    log.WithFields(logrus.Fields{"redirect_to": redirectTo}).Debug("Redirecting")
    c.Redirect(http.StatusFound, redirectTo)
    c.Abort()
  }
  return gin.HandlerFunc(fn)
}
