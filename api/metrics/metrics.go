/* metrics.go
 * Contains the prometheus counters for the league console. A nil *Metrics is valid and records nothing so
 * packages can be used without a registry in tests
 * Authors: Zachary Bower
 */

package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "race_control"

// Metrics holds every counter the service exports
type Metrics struct {
	ticketsCreated     prometheus.Counter
	ticketTransitions  *prometheus.CounterVec
	messagesSent       prometheus.Counter
	subscriptionPushes *prometheus.CounterVec
	authFailures       *prometheus.CounterVec
	resultsIngested    prometheus.Counter
}

// New creates the counters and registers them with reg
// Preconditions: Receives a prometheus Registerer, usually a fresh prometheus.NewRegistry()
// Postconditions: Returns the Metrics or an error if a counter could not be registered
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ticketsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tickets",
			Name:      "created_total",
			Help:      "Total number of tickets filed",
		}),
		ticketTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tickets",
			Name:      "transitions_total",
			Help:      "Total number of ticket status changes by new status",
		}, []string{"status"}),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tickets",
			Name:      "messages_total",
			Help:      "Total number of chat messages appended to tickets",
		}),
		subscriptionPushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "console",
			Name:      "subscription_pushes_total",
			Help:      "Total number of live snapshots pushed to consoles by collection",
		}, []string{"collection"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Total number of failed auth attempts by error code",
		}, []string{"code"}),
		resultsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "results_ingested_total",
			Help:      "Total number of event results recorded from the results webhook",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.ticketsCreated, m.ticketTransitions, m.messagesSent, m.subscriptionPushes, m.authFailures, m.resultsIngested,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) TicketCreated() {
	if m != nil {
		m.ticketsCreated.Inc()
	}
}

func (m *Metrics) TicketTransition(status string) {
	if m != nil {
		m.ticketTransitions.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) MessageSent() {
	if m != nil {
		m.messagesSent.Inc()
	}
}

func (m *Metrics) SubscriptionPush(collection string) {
	if m != nil {
		m.subscriptionPushes.WithLabelValues(collection).Inc()
	}
}

func (m *Metrics) AuthFailure(code string) {
	if m != nil {
		m.authFailures.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) ResultIngested() {
	if m != nil {
		m.resultsIngested.Inc()
	}
}
