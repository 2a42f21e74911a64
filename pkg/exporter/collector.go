// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exporter

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/NVIDIA/powercap/pkg/errors"
	"github.com/NVIDIA/powercap/pkg/rapl"
)

const namespace = "powercap"

var (
	zoneLabels       = []string{"package", "zone"}
	constraintLabels = []string{"package", "zone", "constraint"}
)

// Collector implements prometheus.Collector over a set of opened packages.
// Scrapes are serialized since a rapl.Package is not safe for concurrent use.
type Collector struct {
	mu   sync.Mutex
	pkgs rapl.Packages

	energy     *prometheus.Desc
	maxEnergy  *prometheus.Desc
	power      *prometheus.Desc
	enabled    *prometheus.Desc
	powerLimit *prometheus.Desc
	timeWindow *prometheus.Desc
	maxPower   *prometheus.Desc

	scrapeErrors *prometheus.CounterVec
}

// NewCollector returns a collector reading pkgs. The caller keeps ownership
// of pkgs and must not close them while the collector is registered.
func NewCollector(pkgs rapl.Packages) *Collector {
	return &Collector{
		pkgs: pkgs,
		energy: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "energy_microjoules_total"),
			"Cumulative energy counter of the zone in microjoules.",
			zoneLabels, nil),
		maxEnergy: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "max_energy_range_microjoules"),
			"Value at which the zone energy counter wraps.",
			zoneLabels, nil),
		power: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "power_microwatts"),
			"Current power of the zone in microwatts.",
			zoneLabels, nil),
		enabled: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "zone", "enabled"),
			"Whether power capping is enabled on the zone.",
			zoneLabels, nil),
		powerLimit: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "power_limit_microwatts"),
			"Power limit of the constraint in microwatts.",
			constraintLabels, nil),
		timeWindow: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "time_window_microseconds"),
			"Averaging window of the constraint in microseconds.",
			constraintLabels, nil),
		maxPower: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "max_power_microwatts"),
			"Maximum power limit allowed for the constraint in microwatts.",
			constraintLabels, nil),
		scrapeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scrape_errors_total",
				Help:      "Attribute reads that failed during a scrape.",
			},
			[]string{"code"}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.energy
	ch <- c.maxEnergy
	ch <- c.power
	ch <- c.enabled
	ch <- c.powerLimit
	ch <- c.timeWindow
	ch <- c.maxPower
	c.scrapeErrors.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.pkgs {
		if p == nil {
			continue
		}
		pkg := strconv.FormatUint(uint64(p.Index()), 10)
		for _, z := range rapl.AllZones() {
			c.collectZone(ch, p, pkg, z)
		}
	}
	c.scrapeErrors.Collect(ch)
}

func (c *Collector) collectZone(ch chan<- prometheus.Metric, p *rapl.Package, pkg string, z rapl.Zone) {
	zone := z.String()

	zoneReads := []struct {
		desc *prometheus.Desc
		vt   prometheus.ValueType
		read func(rapl.Zone) (uint64, error)
	}{
		{c.energy, prometheus.CounterValue, p.EnergyUJ},
		{c.maxEnergy, prometheus.GaugeValue, p.MaxEnergyRangeUJ},
		{c.power, prometheus.GaugeValue, p.PowerUW},
	}
	for _, r := range zoneReads {
		v, err := r.read(z)
		c.send(ch, r.desc, r.vt, float64(v), err, pkg, zone)
	}

	on, err := p.IsEnabled(z)
	enabled := 0.0
	if on {
		enabled = 1
	}
	c.send(ch, c.enabled, prometheus.GaugeValue, enabled, err, pkg, zone)

	constraintReads := []struct {
		desc *prometheus.Desc
		read func(rapl.Zone, rapl.Constraint) (uint64, error)
	}{
		{c.powerLimit, p.PowerLimitUW},
		{c.timeWindow, p.TimeWindowUS},
		{c.maxPower, p.MaxPowerUW},
	}
	for _, con := range rapl.AllConstraints() {
		for _, r := range constraintReads {
			v, err := r.read(z, con)
			c.send(ch, r.desc, prometheus.GaugeValue, float64(v), err, pkg, zone, con.String())
		}
	}
}

// send emits the value unless the read failed.
func (c *Collector) send(ch chan<- prometheus.Metric, desc *prometheus.Desc, vt prometheus.ValueType,
	v float64, err error, labels ...string) {
	if !c.ok(err, labels...) {
		return
	}
	ch <- prometheus.MustNewConstMetric(desc, vt, v, labels...)
}

// ok reports whether err is nil. Unsupported attributes are silent.
func (c *Collector) ok(err error, labels ...string) bool {
	if err == nil {
		return true
	}
	code := errors.CodeOf(err)
	if code == errors.ErrCodeNotSupported {
		return false
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	c.scrapeErrors.WithLabelValues(string(code)).Inc()
	slog.Debug("scrape read failed", "labels", labels, "error", err)
	return false
}
