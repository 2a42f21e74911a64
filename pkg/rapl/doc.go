// Package rapl opens Intel RAPL packages as typed sessions.
//
// A Package aggregates the package zone with up to four power planes,
// assigned to the core, uncore, dram and psys roles by the name the kernel
// reports rather than by index. Every zone carries a long_term and a
// short_term constraint; when the kernel enumerates both in reverse order the
// bindings are swapped at open time.
//
// Opening a package is all or nothing: any hard failure releases every
// descriptor opened so far and returns the original error. Close is
// idempotent and safe on a zero or partially opened Package.
//
// Usage:
//
//	pkg, err := rapl.Open(0, rapl.WithReadOnly(true))
//	if err != nil {
//	    return err
//	}
//	defer pkg.Close()
//
//	energy, err := pkg.EnergyUJ(rapl.ZonePackage)
//
// A single Package is not safe for concurrent use. Distinct packages share no
// state and may be used from different goroutines; OpenAll opens every
// package concurrently.
package rapl
