package profiles

import (
  "net/http"
  "github.com/sirupsen/logrus"
  "github.com/gin-gonic/gin"
  "github.com/gorilla/csrf"

  "github.com/charmixer/meetui/app"
  "github.com/charmixer/meetui/config"
)

// ShowProfile is the application root signed in users land on.
func ShowProfile(env *app.Environment) gin.HandlerFunc {
  fn := func(c *gin.Context) {

    log := c.MustGet(env.Constants.LogKey).(*logrus.Entry)
    log = log.WithFields(logrus.Fields{
      "func": "ShowProfile",
    })

    session := app.CurrentSession(env, c)
    if session == nil {
      log.Debug("Missing session")
      c.AbortWithStatus(http.StatusForbidden)
      return
    }

    c.HTML(http.StatusOK, "home.html", gin.H{
      "title": "Home",
      "links": []map[string]string{
        {"href": "/public/css/credentials.css"},
      },
      csrf.TemplateTag: csrf.TemplateField(c.Request),
      "id": session.UserId,
      "name": session.Name,
      "email": session.Email,
      "signOutUrl": config.GetString("meetui.public.endpoints.signout"),
      "brandName": config.GetString("brand.name"),
      "brandYear": config.GetInt("brand.year"),
    })
  }
  return gin.HandlerFunc(fn)
}
