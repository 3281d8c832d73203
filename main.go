package main

import (
  "context"
  "errors"
  "net/http"
  "os"
  "github.com/sirupsen/logrus"
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/sessions"
  "github.com/gin-contrib/sessions/cookie"
  "github.com/gorilla/csrf"
  "github.com/gwatts/gin-adapter"
  "github.com/natefinch/lumberjack"
  "github.com/pborman/getopt"
  "github.com/prometheus/client_golang/prometheus/promhttp"

  "github.com/charmixer/meetui/app"
  "github.com/charmixer/meetui/config"
  "github.com/charmixer/meetui/controllers/credentials"
  "github.com/charmixer/meetui/controllers/profiles"
  "github.com/charmixer/meetui/public"
  "github.com/charmixer/meetui/views"
)

const appName = "meetui"

type serveOptions struct {
  SessionAuthKey  []byte
  SessionCryptKey []byte // Optional. Encrypts the session cookie when set.
  SessionSecure   bool
  CsrfAuthKey     []byte // 32 byte long auth key. When you change this user session will break.
  CsrfSecure      bool
}

func main() {
  optHelp := getopt.BoolLong("help", 0, "Help")
  optConfig := getopt.StringLong("config", 'c', "", "Path to config file, defaults to ./config.yml")
  getopt.Parse()

  if *optHelp {
    getopt.Usage()
    os.Exit(0)
  }

  err := config.InitConfigurations(*optConfig)
  if err != nil {
    logrus.Panic(err.Error())
    return
  }

  logDebug := config.GetInt("log.debug")
  logFormat := config.GetString("log.format")

  // We only have 2 log levels. Things developers care about (debug) and things the user of the app cares about (info)
  log := logrus.New()
  if logDebug == 1 {
    log.SetLevel(logrus.DebugLevel)
  } else {
    log.SetLevel(logrus.InfoLevel)
  }
  if logFormat == "json" {
    log.SetFormatter(&logrus.JSONFormatter{})
  }
  if logPath := config.GetString("log.path"); logPath != "" {
    log.SetOutput(&lumberjack.Logger{
      Filename:   logPath,
      MaxSize:    50, // MB
      MaxBackups: 7,
      MaxAge:     14, // days
      Compress:   true,
    })
  }

  appFields := logrus.Fields{
    "appname": appName,
    "log.debug": logDebug,
    "log.format": logFormat,
  }

  authApiClient, err := app.NewAuthApiClient(context.Background())
  if err != nil {
    log.WithFields(appFields).Panic("app.NewAuthApiClient: " + err.Error())
    return
  }

  env := &app.Environment{
    Constants: app.DefaultConstants(),
    Logger: log,
    AuthService: app.NewAuthApiService(authApiClient),
  }

  opts := serveOptions{
    SessionAuthKey: []byte(config.GetString("session.authKey")),
    SessionCryptKey: []byte(config.GetString("session.cryptKey")),
    SessionSecure: config.GetBool("session.secure"),
    CsrfAuthKey: []byte(config.GetString("csrf.authKey")),
    CsrfSecure: config.GetBool("csrf.secure"),
  }

  err = serve(env, appFields, opts)
  if err != nil {
    log.WithFields(appFields).Panic(err.Error())
  }
}

func serve(env *app.Environment, appFields logrus.Fields, opts serveOptions) error {
  r, err := newRouter(env, appFields, opts)
  if err != nil {
    return err
  }

  addr := ":" + config.GetString("serve.public.port")
  certPath := config.GetString("serve.tls.cert.path")
  keyPath := config.GetString("serve.tls.key.path")

  env.Logger.WithFields(appFields).WithFields(logrus.Fields{"addr": addr, "tls": certPath != ""}).Info("Serving")
  if certPath != "" {
    return r.RunTLS(addr, certPath, keyPath)
  }
  return r.Run(addr)
}

func newRouter(env *app.Environment, appFields logrus.Fields, opts serveOptions) (*gin.Engine, error) {
  if len(opts.SessionAuthKey) == 0 {
    return nil, errors.New("Missing session.authKey")
  }
  if len(opts.CsrfAuthKey) != 32 {
    return nil, errors.New("csrf.authKey must be 32 bytes long")
  }

  templates, err := views.Templates()
  if err != nil {
    return nil, err
  }

  r := gin.New() // Clean gin to take control with logging.
  r.Use(gin.Recovery())

  r.Use(app.RequestId(env))
  r.Use(app.RequestLogger(env, appFields))

  keyPairs := [][]byte{opts.SessionAuthKey}
  if len(opts.SessionCryptKey) > 0 {
    keyPairs = append(keyPairs, opts.SessionCryptKey)
  }
  store := cookie.NewStore(keyPairs...)
  // Ref: https://godoc.org/github.com/gin-contrib/sessions#Options
  store.Options(sessions.Options{
    MaxAge: 86400,
    Path: "/",
    Secure: opts.SessionSecure,
    HttpOnly: true,
    SameSite: http.SameSiteLaxMode,
  })
  r.Use(sessions.Sessions(env.Constants.SessionStoreKey, store))

  // Use CSRF on all forms.
  adapterCSRF := adapter.Wrap(csrf.Protect(opts.CsrfAuthKey, csrf.Secure(opts.CsrfSecure), csrf.Path("/")))
  // r.Use(adapterCSRF) // Do not use this as it will make csrf tokens for public files aswell which is just extra data going over the wire, no need for that.

  r.StaticFS("/public", http.FS(public.StaticFS()))
  r.SetHTMLTemplate(templates)

  r.GET("/metrics", gin.WrapH(promhttp.Handler()))

  signInUrl := config.GetString("meetui.public.endpoints.signin")

  ep := r.Group("/")
  ep.Use(adapterCSRF)
  {
    ep.GET(config.GetString("meetui.public.endpoints.root"), app.SessionRequired(env, signInUrl), profiles.ShowProfile(env))

    ep.GET(signInUrl, credentials.ShowLogin(env))
    ep.POST(signInUrl, credentials.SubmitLogin(env))

    ep.POST(config.GetString("meetui.public.endpoints.signout"), credentials.SubmitLogout(env))
  }

  return r, nil
}
