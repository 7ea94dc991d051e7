package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "baby_care"

var (
	loaderAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pageload",
		Name:      "attempts_total",
		Help:      "Page data load attempts by page and outcome.",
	}, []string{"page", "outcome"})
	loaderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pageload",
		Name:      "duration_seconds",
		Help:      "Duration of page data load attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"page"})
	tenantPolls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pageload",
		Name:      "tenant_polls_total",
		Help:      "Re-checks scheduled while the family was not resolved yet.",
	}, []string{"page"})
	quickActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "quickaction",
		Name:      "mutations_total",
		Help:      "Quick actions by action, activity and outcome.",
	}, []string{"action", "activity", "outcome"})
	authOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "auth_total",
		Help:      "Phone sign-in and sign-up outcomes.",
	}, []string{"operation", "outcome"})
	signUpRollbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "signup_rollbacks_total",
		Help:      "Principals deleted after a failed caregiver insert.",
	})
	resolverRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "resolver_retries_total",
		Help:      "Tenant resolution retries after transient errors.",
	})
	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Activity events handed to the broker by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(
		loaderAttempts,
		loaderDuration,
		tenantPolls,
		quickActions,
		authOutcomes,
		signUpRollbacks,
		resolverRetries,
		eventsPublished,
	)
}

// RecordLoadAttempt registra un intento de carga de página.
func RecordLoadAttempt(page string, err error, took time.Duration) {
	loaderAttempts.WithLabelValues(page, outcome(err)).Inc()
	loaderDuration.WithLabelValues(page).Observe(took.Seconds())
}

func RecordTenantPoll(page string) {
	tenantPolls.WithLabelValues(page).Inc()
}

func RecordQuickAction(action, activity string, err error) {
	quickActions.WithLabelValues(action, activity, outcome(err)).Inc()
}

func RecordAuth(operation string, err error) {
	authOutcomes.WithLabelValues(operation, outcome(err)).Inc()
}

func RecordSignUpRollback() {
	signUpRollbacks.Inc()
}

func RecordResolverRetry() {
	resolverRetries.Inc()
}

func RecordEventPublished(err error) {
	eventsPublished.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
