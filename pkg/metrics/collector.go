package metrics

import (
	"strings"
	"time"

	"github.com/cuemby/modcluster/pkg/model"
	"github.com/cuemby/modcluster/pkg/symbol"
)

// Source supplies the configuration tree a Collector samples. It returns
// nil while no configuration is loaded.
type Source interface {
	Config() *model.Tree
}

// Collector periodically publishes gauges describing the current
// configuration.
type Collector struct {
	source   Source
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector creates a collector sampling source every interval.
func NewCollector(source Source, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		// Collect immediately on start
		c.Collect()

		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

// Collect samples the source once.
func (c *Collector) Collect() {
	config := c.source.Config()

	dynamic, _ := config.Child(symbol.DynamicLoadProvider)
	for _, kind := range []symbol.Symbol{symbol.LoadMetric, symbol.CustomLoadMetric} {
		ConfiguredLoadMetrics.WithLabelValues(kind.String()).Set(float64(dynamic.Get(kind).Len()))
	}

	ConfiguredProxies.Set(float64(countProxies(config)))
}

func countProxies(config *model.Tree) int {
	n := config.Get(symbol.Proxies).Len()
	if s, ok := config.Get(symbol.ProxyList).StringValue(); ok {
		for _, p := range strings.Split(s, ",") {
			if strings.TrimSpace(p) != "" {
				n++
			}
		}
	}
	return n
}
