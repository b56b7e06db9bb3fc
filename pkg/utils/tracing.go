package utils

import "strconv"

const defaultServiceName = "resfi-api"

func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", defaultServiceName)
}

// TraceSampleRatio reads OTEL_TRACES_SAMPLER_ARG, clamped to [0, 1]. Defaults to 1.
func TraceSampleRatio() float64 {
	v := GetEnvTrimmed("OTEL_TRACES_SAMPLER_ARG")
	if v == "" {
		return 1
	}

	ratio, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}

	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	}

	return ratio
}
