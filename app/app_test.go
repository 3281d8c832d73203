package app

import (
  "context"
  "errors"
  "io"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-contrib/sessions"
  "github.com/gin-contrib/sessions/cookie"
  "github.com/gin-gonic/gin"
  "github.com/sirupsen/logrus"
  "github.com/stretchr/testify/require"

  "github.com/charmixer/meetui/gateway/authapi"
  "github.com/charmixer/meetui/signin"
)

func newTestEnvironment() *Environment {
  logger := logrus.New()
  logger.SetOutput(io.Discard)
  return &Environment{
    Constants: DefaultConstants(),
    Logger: logger,
  }
}

func newTestEngine(env *Environment) *gin.Engine {
  gin.SetMode(gin.TestMode)
  r := gin.New()
  r.Use(RequestId(env))
  r.Use(RequestLogger(env, logrus.Fields{"appname": "meetui"}))
  r.Use(sessions.Sessions(env.Constants.SessionStoreKey, cookie.NewStore([]byte("12345678901234567890123456789012"))))
  return r
}

func TestRequestIdKeepsIncomingHeader(t *testing.T) {
  env := newTestEnvironment()
  r := newTestEngine(env)
  r.GET("/", func(c *gin.Context) {
    require.Equal(t, "req-1", c.MustGet(env.Constants.RequestIdKey))
    require.NotNil(t, c.MustGet(env.Constants.LogKey).(*logrus.Entry))
    c.Status(http.StatusNoContent)
  })

  req := httptest.NewRequest(http.MethodGet, "/", nil)
  req.Header.Set("X-Request-Id", "req-1")
  rec := httptest.NewRecorder()
  r.ServeHTTP(rec, req)

  require.Equal(t, http.StatusNoContent, rec.Code)
  require.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))

  rec = httptest.NewRecorder()
  r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
  require.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestSessionRequired(t *testing.T) {
  env := newTestEnvironment()
  r := newTestEngine(env)
  r.GET("/login", func(c *gin.Context) {
    err := StartSession(env, c, &signin.Session{Token: "tok", Email: "user@example.com"})
    require.NoError(t, err)
    c.Status(http.StatusNoContent)
  })
  r.GET("/", SessionRequired(env, "/sign-in"), func(c *gin.Context) {
    c.String(http.StatusOK, CurrentSession(env, c).Email)
  })
  r.GET("/logout", func(c *gin.Context) {
    require.NoError(t, EndSession(env, c))
    c.Status(http.StatusNoContent)
  })

  rec := httptest.NewRecorder()
  r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
  require.Equal(t, http.StatusFound, rec.Code)
  require.Equal(t, "/sign-in", rec.Header().Get("Location"))

  rec = httptest.NewRecorder()
  r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
  cookies := rec.Result().Cookies()
  require.NotEmpty(t, cookies)

  req := httptest.NewRequest(http.MethodGet, "/", nil)
  for _, c := range cookies {
    req.AddCookie(c)
  }
  rec = httptest.NewRecorder()
  r.ServeHTTP(rec, req)
  require.Equal(t, http.StatusOK, rec.Code)
  require.Equal(t, "user@example.com", rec.Body.String())

  req = httptest.NewRequest(http.MethodGet, "/logout", nil)
  for _, c := range cookies {
    req.AddCookie(c)
  }
  rec = httptest.NewRecorder()
  r.ServeHTTP(rec, req)

  req = httptest.NewRequest(http.MethodGet, "/", nil)
  for _, c := range rec.Result().Cookies() {
    req.AddCookie(c)
  }
  rec = httptest.NewRecorder()
  r.ServeHTTP(rec, req)
  require.Equal(t, http.StatusFound, rec.Code)
}

func TestAuthApiServiceMapsErrors(t *testing.T) {
  ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    switch r.URL.Path {
    case "/api/auth/sign-in/email":
      w.WriteHeader(http.StatusUnauthorized)
      _, _ = w.Write([]byte(`{"code":"INVALID_EMAIL_OR_PASSWORD","message":"Invalid credentials"}`))
    case "/api/auth/sign-out":
      require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
      _, _ = w.Write([]byte(`{"success":true}`))
    default:
      w.WriteHeader(http.StatusNotFound)
    }
  }))
  t.Cleanup(ts.Close)

  service := &AuthApiService{
    Client: authapi.NewAuthApiClientWithHttpClient(ts.Client()),
    SignInUrl: ts.URL + "/api/auth/sign-in/email",
    SignOutUrl: ts.URL + "/api/auth/sign-out",
  }

  _, err := service.SignInEmail(context.Background(), signin.Credentials{Email: "user@example.com", Password: "secret1"})
  var authErr *signin.AuthError
  require.True(t, errors.As(err, &authErr))
  require.Equal(t, "Invalid credentials", authErr.Message)
  require.Equal(t, "INVALID_EMAIL_OR_PASSWORD", authErr.Code)
  require.Equal(t, http.StatusUnauthorized, authErr.Status)

  require.NoError(t, service.SignOut(context.Background(), "tok"))
}

func TestAuthApiServiceSession(t *testing.T) {
  ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    _, _ = w.Write([]byte(`{"token":"tok","user":{"id":"u1","email":"user@example.com","name":"User"}}`))
  }))
  t.Cleanup(ts.Close)

  service := &AuthApiService{Client: authapi.NewAuthApiClientWithHttpClient(ts.Client()), SignInUrl: ts.URL}
  session, err := service.SignInEmail(context.Background(), signin.Credentials{Email: "user@example.com", Password: "secret1"})
  require.NoError(t, err)
  require.Equal(t, &signin.Session{Token: "tok", UserId: "u1", Email: "user@example.com", Name: "User"}, session)
}

func TestNewAuthApiClientWithoutClientCredentials(t *testing.T) {
  client, err := NewAuthApiClient(context.Background())
  require.NoError(t, err)
  require.NotNil(t, client.Client)

  service := NewAuthApiService(client)
  require.Equal(t, "http://localhost:3000/api/auth/sign-in/email", service.SignInUrl)
  require.Equal(t, "http://localhost:3000/api/auth/sign-out", service.SignOutUrl)
}
