package asyncworker

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsProvider is implemented by every Engine regardless of its parameter type.
type StatsProvider interface {
	Stats() Stats
}

// Collector exports the stats of a set of engines as Prometheus metrics.
type Collector struct {
	engines []StatsProvider

	jobs      *prometheus.Desc
	busy      *prometheus.Desc
	queued    *prometheus.Desc
	waiting   *prometheus.Desc
	running   *prometheus.Desc
	submitted *prometheus.Desc
	completed *prometheus.Desc
	failed    *prometheus.Desc
	refused   *prometheus.Desc
}

func NewCollector(engines ...StatsProvider) *Collector {
	labels := []string{"engine"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("async_worker", "", name), help, labels, nil)
	}
	return &Collector{
		engines:   engines,
		jobs:      desc("jobs", "Number of job slots."),
		busy:      desc("jobs_busy", "Number of job slots out of the free set."),
		queued:    desc("jobs_queued", "Number of jobs waiting for the worker."),
		waiting:   desc("waiting_requests", "Number of callers in the waiting list."),
		running:   desc("worker_running", "1 while the worker executes an action."),
		submitted: desc("jobs_submitted_total", "Jobs submitted to the worker."),
		completed: desc("jobs_completed_total", "Actions that returned without error."),
		failed:    desc("jobs_failed_total", "Actions that returned an error."),
		refused:   desc("requests_refused_total", "Allocations refused for back-pressure."),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.jobs, c.busy, c.queued, c.waiting, c.running, c.submitted, c.completed, c.failed, c.refused} {
		ch <- d
	}
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, e := range c.engines {
		s := e.Stats()
		running := 0.0
		if s.State == WorkerStateRunning {
			running = 1
		}
		ch <- prometheus.MustNewConstMetric(c.jobs, prometheus.GaugeValue, float64(s.JobCount), s.Name)
		ch <- prometheus.MustNewConstMetric(c.busy, prometheus.GaugeValue, float64(s.Busy), s.Name)
		ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(s.Queued), s.Name)
		ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(s.Waiting), s.Name)
		ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, running, s.Name)
		ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(s.Submitted), s.Name)
		ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(s.Completed), s.Name)
		ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(s.Failed), s.Name)
		ch <- prometheus.MustNewConstMetric(c.refused, prometheus.CounterValue, float64(s.Refused), s.Name)
	}
}
