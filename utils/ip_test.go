package utils

import (
  "net/http/httptest"
  "testing"

  "github.com/stretchr/testify/require"
)

func TestGetRequestIpData(t *testing.T) {
  r := httptest.NewRequest("GET", "/", nil)
  r.RemoteAddr = "10.0.0.7:51234"

  data, err := GetRequestIpData(r)
  require.NoError(t, err)
  require.Equal(t, IpData{Ip: "10.0.0.7", Port: "51234"}, data)

  r.RemoteAddr = "garbage"
  _, err = GetRequestIpData(r)
  require.Error(t, err)
}

func TestGetForwardedForIpData(t *testing.T) {
  r := httptest.NewRequest("GET", "/", nil)

  data, err := GetForwardedForIpData(r)
  require.NoError(t, err)
  require.Equal(t, IpData{}, data)

  r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
  data, err = GetForwardedForIpData(r)
  require.NoError(t, err)
  require.Equal(t, IpData{Ip: "203.0.113.9"}, data)

  r.Header.Set("X-Forwarded-For", "[2001:db8::1]:4711")
  data, err = GetForwardedForIpData(r)
  require.NoError(t, err)
  require.Equal(t, IpData{Ip: "2001:db8::1", Port: "4711"}, data)
}
