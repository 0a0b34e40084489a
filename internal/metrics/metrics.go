package metrics

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/ledger/internal/ledger"
)

// OutcomeOK is the outcome label of successful operations. Failed
// operations are labelled with their error code.
const OutcomeOK = "ok"

// Metrics provides observability for a ledger. It implements
// ledger.Recorder.
type Metrics struct {
	// Operations by command and outcome (ok or error code)
	Operations *prometheus.CounterVec

	// Successfully registered clients
	Clients prometheus.Gauge

	// Money moved by successful add, withdraw and send operations
	Volume *prometheus.CounterVec
}

// New creates a Metrics instance with every ledger metric registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total ledger operations by command and outcome",
		}, []string{"command", "outcome"}),

		Clients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_clients",
			Help: "Number of registered clients",
		}),

		Volume: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_volume_total",
			Help: "Total amount moved by successful operations, by command",
		}, []string{"command"}),
	}
}

// Record counts one outcome. Never fails.
func (m *Metrics) Record(_ context.Context, o ledger.Outcome) error {
	if m == nil {
		return nil
	}

	outcome := OutcomeOK
	if !o.OK() {
		outcome = string(o.Code())
	}
	m.Operations.WithLabelValues(o.Command, outcome).Inc()

	if !o.OK() {
		return nil
	}
	switch o.Command {
	case ledger.CommandRegister:
		m.Clients.Inc()
	case ledger.CommandAdd, ledger.CommandWithdraw, ledger.CommandSend:
		m.Volume.WithLabelValues(o.Command).Add(float64(o.Amount))
	}
	return nil
}

// WriteText writes every metric gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

var _ ledger.Recorder = (*Metrics)(nil)
