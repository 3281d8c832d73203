package utils

import (
  "net"
  "net/http"
  "strings"
)

type IpData struct {
  Ip   string
  Port string
}

func GetRequestIpData(r *http.Request) (IpData, error) {
  ip, port, err := net.SplitHostPort(r.RemoteAddr)
  if err != nil {
    return IpData{}, err
  }
  return IpData{Ip: ip, Port: port}, nil
}

// GetForwardedForIpData returns the client entry (first) of X-Forwarded-For, if any.
func GetForwardedForIpData(r *http.Request) (IpData, error) {
  forwardedFor := r.Header.Get("X-Forwarded-For")
  if forwardedFor == "" {
    return IpData{}, nil
  }

  client := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
  if ip := net.ParseIP(client); ip != nil {
    return IpData{Ip: ip.String()}, nil
  }

  ip, port, err := net.SplitHostPort(client)
  if err != nil {
    return IpData{}, err
  }
  return IpData{Ip: ip, Port: port}, nil
}
