package app

import (
  "encoding/gob"
  "net/http"
  "github.com/sirupsen/logrus"
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/sessions"

  "github.com/charmixer/meetui/signin"
)

func init() {
  gob.Register(&signin.Session{}) // Required to persist the signed in session in the cookie store.
  gob.Register(make(map[string]string)) // Field error flashes
}

// SessionRequired lets the request through only when a signed in session exists.
// Everybody else is sent to redirectTo, which should be the sign in page.
func SessionRequired(env *Environment, redirectTo string) gin.HandlerFunc {
  fn := func(c *gin.Context) {

    log := c.MustGet(env.Constants.LogKey).(*logrus.Entry)
    log = log.WithFields(logrus.Fields{
      "func": "SessionRequired",
    })

    session := CurrentSession(env, c)
    if session == nil || session.Token == "" {
      log.WithFields(logrus.Fields{"redirect_to": redirectTo}).Debug("Missing session. Redirecting")
      c.Redirect(http.StatusFound, redirectTo)
      c.Abort()
      return
    }

    c.Set(env.Constants.ContextSessionKey, session)
    c.Next()
  }
  return gin.HandlerFunc(fn)
}

// CurrentSession returns the signed in session, looking at the request context before the cookie.
func CurrentSession(env *Environment, c *gin.Context) *signin.Session {
  if t, exists := c.Get(env.Constants.ContextSessionKey); exists {
    return t.(*signin.Session)
  }

  v := sessions.Default(c).Get(env.Constants.SessionCredentialsKey)
  if v == nil {
    return nil
  }
  session, ok := v.(*signin.Session)
  if !ok {
    return nil
  }
  return session
}

func StartSession(env *Environment, c *gin.Context, session *signin.Session) error {
  store := sessions.Default(c)
  store.Set(env.Constants.SessionCredentialsKey, session)
  return store.Save()
}

func EndSession(env *Environment, c *gin.Context) error {
  store := sessions.Default(c)
  store.Clear()
  return store.Save()
}
