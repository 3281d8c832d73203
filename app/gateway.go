package app

import (
  "context"
  "errors"
  "net/http"
  "net/url"
  "time"
  "golang.org/x/oauth2"
  "golang.org/x/oauth2/clientcredentials"
  oidc "github.com/coreos/go-oidc"

  "github.com/charmixer/meetui/config"
  "github.com/charmixer/meetui/gateway/authapi"
  "github.com/charmixer/meetui/metrics"
  "github.com/charmixer/meetui/signin"
)

// NewAuthApiClient builds the client for the authentication service. When oauth2.client.id is
// configured every call carries a client credentials access token, with the token endpoint
// taken from oauth2.token.url or discovered from oauth2.provider.url.
func NewAuthApiClient(ctx context.Context) (*authapi.AuthApiClient, error) {
  httpClient := &http.Client{Timeout: config.GetDuration("auth.timeout")}

  clientId := config.GetString("oauth2.client.id")
  if clientId == "" {
    return authapi.NewAuthApiClientWithHttpClient(httpClient), nil
  }

  ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

  tokenUrl := config.GetString("oauth2.token.url")
  if providerUrl := config.GetString("oauth2.provider.url"); providerUrl != "" {
    provider, err := oidc.NewProvider(ctx, providerUrl)
    if err != nil {
      return nil, err
    }
    tokenUrl = provider.Endpoint().TokenURL
  }
  if tokenUrl == "" {
    return nil, errors.New("oauth2.client.id is set but neither oauth2.token.url nor oauth2.provider.url is")
  }

  clientCredentials := &clientcredentials.Config{
    ClientID: clientId,
    ClientSecret: config.GetString("oauth2.client.secret"),
    TokenURL: tokenUrl,
    Scopes: config.GetStringSlice("oauth2.scopes.required"),
    EndpointParams: url.Values{"audience": {"authapi"}},
    AuthStyle: oauth2.AuthStyleInHeader,
  }
  return authapi.NewAuthApiClient(ctx, clientCredentials), nil
}

// AuthApiService talks to the authentication service through the authapi gateway.
type AuthApiService struct {
  Client     *authapi.AuthApiClient
  SignInUrl  string
  SignOutUrl string
}

func NewAuthApiService(client *authapi.AuthApiClient) *AuthApiService {
  return &AuthApiService{
    Client: client,
    SignInUrl: config.GetString("auth.public.url") + config.GetString("auth.public.endpoints.signin"),
    SignOutUrl: config.GetString("auth.public.url") + config.GetString("auth.public.endpoints.signout"),
  }
}

func (s *AuthApiService) SignInEmail(ctx context.Context, credentials signin.Credentials) (*signin.Session, error) {
  start := time.Now()
  signInResponse, err := authapi.SignInEmail(ctx, s.Client, s.SignInUrl, authapi.SignInEmailRequest{
    Email: credentials.Email,
    Password: credentials.Password,
  })
  metrics.AuthRequestDuration.WithLabelValues("signin").Observe(time.Since(start).Seconds())
  if err != nil {
    var errorResponse *authapi.ErrorResponse
    if errors.As(err, &errorResponse) {
      return nil, &signin.AuthError{
        Status: errorResponse.Status,
        Code: errorResponse.Code,
        Message: errorResponse.Message,
      }
    }
    return nil, err
  }

  return &signin.Session{
    Token: signInResponse.Token,
    UserId: signInResponse.User.Id,
    Email: signInResponse.User.Email,
    Name: signInResponse.User.Name,
  }, nil
}

func (s *AuthApiService) SignOut(ctx context.Context, token string) error {
  start := time.Now()
  _, err := authapi.SignOut(ctx, s.Client, s.SignOutUrl, token)
  metrics.AuthRequestDuration.WithLabelValues("signout").Observe(time.Since(start).Seconds())
  return err
}
