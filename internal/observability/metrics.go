package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Verification outcomes recorded by CodeVerifications.
const (
	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultNotFound = "not_found"
	ResultExpired  = "expired"
	ResultMismatch = "mismatch"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CodesIssued counts one-time codes handed out.
	CodesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "board_codes_issued_total",
		Help: "Total number of one-time codes issued",
	})

	// CodeVerifications counts verification attempts by result.
	CodeVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_code_verifications_total",
		Help: "Total number of one-time code verifications by result",
	}, []string{"result"})

	// MailDeliveries counts notification emails by kind and result.
	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_mail_deliveries_total",
		Help: "Total number of notification emails by kind and result",
	}, []string{"kind", "result"})

	// CacheLookups counts cache-aside lookups by outcome.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "board_cache_lookups_total",
		Help: "Total number of cache lookups by outcome",
	}, []string{"outcome"})
)
