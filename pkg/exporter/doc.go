// Package exporter publishes RAPL attributes of opened packages as Prometheus
// metrics.
//
// The collector reads every zone and constraint attribute on each scrape
// through the descriptors held by rapl.Package. Attributes the platform does
// not provide are left out; other read failures are counted in
// powercap_scrape_errors_total by error code.
//
// Metrics:
//
//	powercap_energy_microjoules_total{package,zone}
//	powercap_max_energy_range_microjoules{package,zone}
//	powercap_power_microwatts{package,zone}
//	powercap_zone_enabled{package,zone}
//	powercap_power_limit_microwatts{package,zone,constraint}
//	powercap_time_window_microseconds{package,zone,constraint}
//	powercap_max_power_microwatts{package,zone,constraint}
//
// Usage:
//
//	pkgs, err := rapl.OpenAll(ctx, rapl.WithReadOnly(true))
//	defer pkgs.Close()
//	prometheus.MustRegister(exporter.NewCollector(pkgs))
package exporter
