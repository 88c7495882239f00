package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatter is satisfied by *pgxpool.Pool.
type PoolStatter interface {
	Stat() *pgxpool.Stat
}

// poolCollector exports pgxpool statistics at scrape time.
type poolCollector struct {
	pool PoolStatter

	acquiredConns    *prometheus.Desc
	idleConns        *prometheus.Desc
	totalConns       *prometheus.Desc
	maxConns         *prometheus.Desc
	acquireCount     *prometheus.Desc
	emptyAcquire     *prometheus.Desc
	acquireDuration  *prometheus.Desc
	canceledAcquires *prometheus.Desc
}

// NewPoolCollector returns a collector reporting the state of pool.
func NewPoolCollector(pool PoolStatter) prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "db_pool", name), help, nil, nil)
	}

	return &poolCollector{
		pool:             pool,
		acquiredConns:    desc("acquired_conns", "Connections currently checked out of the pool."),
		idleConns:        desc("idle_conns", "Idle connections in the pool."),
		totalConns:       desc("total_conns", "Total connections owned by the pool."),
		maxConns:         desc("max_conns", "Maximum size of the pool."),
		acquireCount:     desc("acquire_total", "Cumulative successful acquires."),
		emptyAcquire:     desc("empty_acquire_total", "Cumulative acquires that waited for a connection."),
		acquireDuration:  desc("acquire_duration_seconds_total", "Cumulative time spent acquiring connections."),
		canceledAcquires: desc("canceled_acquire_total", "Cumulative acquires canceled by their context."),
	}
}

// RegisterPool adds a collector for pool to Registry.
func RegisterPool(pool PoolStatter) error {
	return Registry.Register(NewPoolCollector(pool))
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.emptyAcquire
	ch <- c.acquireDuration
	ch <- c.canceledAcquires
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, s.AcquireDuration().Seconds())
	ch <- prometheus.MustNewConstMetric(c.canceledAcquires, prometheus.CounterValue, float64(s.CanceledAcquireCount()))
}
