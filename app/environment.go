package app

import (
  "context"
  "strings"
  "time"
  "net/http"
  "github.com/sirupsen/logrus"
  "github.com/gin-gonic/gin"
  "github.com/gofrs/uuid"

  "github.com/charmixer/meetui/signin"
  "github.com/charmixer/meetui/utils"
)

type EnvironmentConstants struct {
  RequestIdKey   string
  LogKey         string

  SessionStoreKey       string // Name of the session cookie
  SessionCredentialsKey string // Holds the signed in *signin.Session

  ContextSessionKey string
}

// AuthService is the part of the authentication service the UI talks to.
type AuthService interface {
  signin.Authenticator
  SignOut(ctx context.Context, token string) error
}

type Environment struct {
  Constants *EnvironmentConstants

  Logger *logrus.Logger

  AuthService AuthService
}

func DefaultConstants() *EnvironmentConstants {
  return &EnvironmentConstants{
    RequestIdKey: "RequestId",
    LogKey: "log",
    SessionStoreKey: "meetui",
    SessionCredentialsKey: "credentials",
    ContextSessionKey: "session",
  }
}

func RequestLogger(env *Environment, appFields logrus.Fields) gin.HandlerFunc {
  fn := func(c *gin.Context) {

    // Start timer
    start := time.Now()
    path := c.Request.URL.Path
    raw := c.Request.URL.RawQuery

    var requestId string = c.MustGet(env.Constants.RequestIdKey).(string)
    requestLog := env.Logger.WithFields(appFields).WithFields(logrus.Fields{
      "request.id": requestId,
    })
    c.Set(env.Constants.LogKey, requestLog)

    c.Next()

    // Stop timer
    stop := time.Now()
    latency := stop.Sub(start)

    ipData, err := utils.GetRequestIpData(c.Request)
    if err != nil {
      requestLog.WithFields(logrus.Fields{
        "func": "RequestLogger",
      }).Debug(err.Error())
    }

    forwardedForIpData, err := utils.GetForwardedForIpData(c.Request)
    if err != nil {
      requestLog.WithFields(logrus.Fields{
        "func": "RequestLogger",
      }).Debug(err.Error())
    }

    method := c.Request.Method
    statusCode := c.Writer.Status()
    errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

    bodySize := c.Writer.Size()

    var fullpath string = path
    if raw != "" {
      fullpath = path + "?" + raw
    }

    // if public data is requested successfully, then dont log it since its just spam when debugging
    if strings.Contains(path, "/public/") && ( statusCode == http.StatusOK || statusCode == http.StatusNotModified ) {
      return
    }

    requestLog.WithFields(logrus.Fields{
      "latency": latency,
      "forwarded_for.ip": forwardedForIpData.Ip,
      "forwarded_for.port": forwardedForIpData.Port,
      "ip": ipData.Ip,
      "port": ipData.Port,
      "method": method,
      "status": statusCode,
      "error": errorMessage,
      "body_size": bodySize,
      "path": fullpath,
    }).Info("")
  }
  return gin.HandlerFunc(fn)
}

func RequestId(env *Environment) gin.HandlerFunc {
  return func(c *gin.Context) {
    // Check for incoming header, use it if exists
    requestID := c.Request.Header.Get("X-Request-Id")

    // Create request id with UUID4
    if requestID == "" {
      uuid4, _ := uuid.NewV4()
      requestID = uuid4.String()
    }

    // Expose it for use in the application
    c.Set(env.Constants.RequestIdKey, requestID)

    // Set X-Request-Id header
    c.Writer.Header().Set("X-Request-Id", requestID)
    c.Next()
  }
}
