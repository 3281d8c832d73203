package credentials

import (
  "net/http"
  "github.com/sirupsen/logrus"
  "github.com/gin-gonic/gin"

  "github.com/charmixer/meetui/app"
  "github.com/charmixer/meetui/config"
  "github.com/charmixer/meetui/metrics"
)

// SubmitLogout ends the session with the authentication service and in the browser. A failing
// call to the authentication service is logged, the browser session is cleared regardless.
func SubmitLogout(env *app.Environment) gin.HandlerFunc {
  fn := func(c *gin.Context) {

    log := c.MustGet(env.Constants.LogKey).(*logrus.Entry)
    log = log.WithFields(logrus.Fields{
      "func": "SubmitLogout",
    })

    if s := app.CurrentSession(env, c); s != nil && s.Token != "" {
      err := env.AuthService.SignOut(c.Request.Context(), s.Token)
      if err != nil {
        log.WithFields(logrus.Fields{"id": s.UserId}).Debug(err.Error())
      }
    }

    err := app.EndSession(env, c)
    if err != nil {
      log.Debug(err.Error())
      c.AbortWithStatus(http.StatusInternalServerError)
      return
    }
    metrics.SignOutTotal.Inc()

    redirectTo := config.GetString("meetui.public.endpoints.signin")
    log.WithFields(logrus.Fields{"redirect_to": redirectTo}).Debug("Redirecting")
    c.Redirect(http.StatusFound, redirectTo)
    c.Abort()
  }
  return gin.HandlerFunc(fn)
}
