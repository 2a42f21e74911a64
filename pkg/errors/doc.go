// Package errors provides structured error types for better observability
// and programmatic error handling across the powercap packages.
//
// Every failure returned by the library carries one of the taxonomy codes:
//
//   - NOT_FOUND: control type, zone, or constraint directory absent
//   - NOT_SUPPORTED: attribute file absent on this platform
//   - PERMISSION: insufficient privilege or kernel-enforced read-only attribute
//   - INVALID_ARGUMENT: unknown selector or malformed zone classification
//   - IO: any other system call failure
//
// Example usage:
//
//	err := errors.WrapSyscall(
//	    "failed to open zone file",
//	    cause,
//	    map[string]any{
//	        "path": "/sys/class/powercap/intel-rapl/intel-rapl:0/energy_uj",
//	    },
//	)
//	if errors.IsCode(err, errors.ErrCodePermission) {
//	    // retry read-only
//	}
package errors
