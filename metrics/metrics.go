// Package metrics holds the Prometheus instruments of the sign in flow. All collectors are
// registered with the global registry and exposed on /metrics.
package metrics

import (
  "github.com/prometheus/client_golang/prometheus"
)

const (
  OutcomeSuccess = "success"
  OutcomeFailure = "failure"
  OutcomeInvalid = "invalid"
  OutcomeError   = "error"
)

var (
  SignInAttemptsTotal = prometheus.NewCounterVec(
    prometheus.CounterOpts{
      Namespace: "meetui",
      Name: "signin_attempts_total",
      Help: "Sign in submissions by outcome.",
    }, []string{"outcome"})

  AuthRequestDuration = prometheus.NewHistogramVec(
    prometheus.HistogramOpts{
      Namespace: "meetui",
      Name: "auth_request_duration_seconds",
      Help: "Latency of calls to the authentication service.",
      Buckets: prometheus.DefBuckets,
    }, []string{"operation"})

  SignOutTotal = prometheus.NewCounter(
    prometheus.CounterOpts{
      Namespace: "meetui",
      Name: "signout_total",
      Help: "Completed sign outs.",
    })
)

func init() {
  prometheus.MustRegister(
    SignInAttemptsTotal,
    AuthRequestDuration,
    SignOutTotal,
  )

  // Expose every outcome from the start, also the ones that have not happened yet.
  for _, outcome := range []string{OutcomeSuccess, OutcomeFailure, OutcomeInvalid, OutcomeError} {
    SignInAttemptsTotal.WithLabelValues(outcome)
  }
}
