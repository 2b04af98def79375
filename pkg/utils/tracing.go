package utils

import "strings"

// IsTracingEnabled reports whether OTel tracing was explicitly enabled.
func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

// OTelServiceName returns the service name reported to the trace backend.
func OTelServiceName() string {
	name := strings.TrimSpace(GetEnvTrimmed("OTEL_SERVICE_NAME"))
	if name == "" {
		name = "waitlist-service"
	}

	return name
}
