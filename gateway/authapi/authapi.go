package authapi

import (
  "bytes"
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "golang.org/x/oauth2/clientcredentials"
)

type SignInEmailRequest struct {
  Email           string            `json:"email"`
  Password        string            `json:"password"`
  RememberMe      bool              `json:"rememberMe"`
}

type User struct {
  Id              string            `json:"id"`
  Email           string            `json:"email"`
  Name            string            `json:"name"`
  EmailVerified   bool              `json:"emailVerified"`
}

type SignInEmailResponse struct {
  Redirect        bool              `json:"redirect"`
  Token           string            `json:"token"`
  Url             string            `json:"url,omitempty"`
  User            User              `json:"user"`
}

type SignOutResponse struct {
  Success         bool              `json:"success"`
}

// ErrorResponse is the body of every non 2xx answer from the authentication service.
type ErrorResponse struct {
  Status          int               `json:"-"`
  Code            string            `json:"code,omitempty"`
  Message         string            `json:"message"`
}

func (e *ErrorResponse) Error() string {
  if e.Code != "" {
    return fmt.Sprintf("authapi: %d %s: %s", e.Status, e.Code, e.Message)
  }
  return fmt.Sprintf("authapi: %d: %s", e.Status, e.Message)
}

type AuthApiClient struct {
  *http.Client
}

// NewAuthApiClient authenticates every call to the authentication service with the client credentials flow.
func NewAuthApiClient(ctx context.Context, config *clientcredentials.Config) *AuthApiClient {
  client := config.Client(ctx)
  return &AuthApiClient{client}
}

func NewAuthApiClientWithHttpClient(client *http.Client) *AuthApiClient {
  if client == nil {
    client = http.DefaultClient
  }
  return &AuthApiClient{client}
}

// config auth.public.url + auth.public.endpoints.signin
func SignInEmail(ctx context.Context, client *AuthApiClient, signInUrl string, signInRequest SignInEmailRequest) (*SignInEmailResponse, error) {
  var signInResponse SignInEmailResponse

  err := callService(ctx, client, http.MethodPost, signInUrl, "", signInRequest, &signInResponse)
  if err != nil {
    return nil, err
  }

  if signInResponse.Token == "" {
    return nil, fmt.Errorf("authapi: sign in response from %s is missing token", signInUrl)
  }

  return &signInResponse, nil
}

// config auth.public.url + auth.public.endpoints.signout
func SignOut(ctx context.Context, client *AuthApiClient, signOutUrl string, token string) (*SignOutResponse, error) {
  var signOutResponse SignOutResponse

  err := callService(ctx, client, http.MethodPost, signOutUrl, token, struct{}{}, &signOutResponse)
  if err != nil {
    return nil, err
  }

  return &signOutResponse, nil
}

func callService(ctx context.Context, client *AuthApiClient, method string, url string, bearer string, in interface{}, out interface{}) error {
  body, err := json.Marshal(in)
  if err != nil {
    return err
  }

  request, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(body))
  if err != nil {
    return err
  }
  request.Header.Set("Content-Type", "application/json")
  request.Header.Set("Accept", "application/json")
  if bearer != "" {
    request.Header.Set("Authorization", "Bearer " + bearer)
  }

  response, err := client.Do(request)
  if err != nil {
    return fmt.Errorf("authapi: %s %s: %w", method, url, err)
  }
  defer response.Body.Close()

  responseData, err := io.ReadAll(response.Body)
  if err != nil {
    return fmt.Errorf("authapi: reading response from %s: %w", url, err)
  }

  if response.StatusCode < 200 || response.StatusCode > 299 {
    errorResponse := &ErrorResponse{Status: response.StatusCode}
    if json.Unmarshal(responseData, errorResponse) != nil || errorResponse.Message == "" {
      errorResponse.Message = http.StatusText(response.StatusCode)
    }
    return errorResponse
  }

  err = json.Unmarshal(responseData, out)
  if err != nil {
    return fmt.Errorf("authapi: decoding response from %s: %w", url, err)
  }

  return nil
}
