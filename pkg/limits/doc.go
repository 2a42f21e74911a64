// Package limits loads declarative power limit documents and applies them to
// opened RAPL packages.
//
// A document is a PowercapLimits header followed by a list of entries, each
// naming a package, a zone role and optionally a constraint:
//
//	kind: PowercapLimits
//	apiVersion: powercap.nvidia.com/v1alpha1
//	limits:
//	  - package: 0
//	    zone: package
//	    constraint: long_term
//	    powerLimitUW: 95000000
//	    timeWindowUS: 27983872
//	  - package: 0
//	    zone: dram
//	    enabled: false
//
// Within an entry, settings are applied in the order enabled, power limit,
// time window. A failed setting does not stop the remaining ones; the result
// records the outcome of each.
//
// Usage:
//
//	doc, err := limits.Load("limits.yaml")
//	pkgs, err := rapl.OpenAll(ctx)
//	defer pkgs.Close()
//	res, err := limits.NewApplier(limits.WithVersion(version)).Apply(ctx, doc, pkgs)
package limits
