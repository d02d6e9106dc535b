// Package health evaluates the deployment's operational health by
// combining independent probes into per-service and overall verdicts.
// Probes are fail-soft: a probe that cannot run degrades the verdict and
// records its error, it never aborts the evaluation.
package health

// Verdict classifies a probe result or an aggregated scope.
type Verdict string

const (
	VerdictSkipped   Verdict = "skipped"
	VerdictHealthy   Verdict = "healthy"
	VerdictStarting  Verdict = "starting"
	VerdictWarning   Verdict = "warning"
	VerdictCritical  Verdict = "critical"
	VerdictUnhealthy Verdict = "unhealthy"
)

// severity orders verdicts for the worst-of reduction. Skipped probes
// carry no signal and never influence aggregation.
func severity(v Verdict) int {
	switch v {
	case VerdictHealthy:
		return 1
	case VerdictStarting:
		return 2
	case VerdictWarning:
		return 3
	case VerdictCritical:
		return 4
	case VerdictUnhealthy:
		return 5
	default:
		return 0
	}
}

// Worst reduces verdicts to the most severe one. A pure function of its
// inputs: no verdict is ever inferred from anything but executed probes.
func Worst(verdicts ...Verdict) Verdict {
	worst := VerdictSkipped
	for _, v := range verdicts {
		if severity(v) > severity(worst) {
			worst = v
		}
	}
	if worst == VerdictSkipped {
		return VerdictHealthy
	}
	return worst
}

// Overall folds a worst verdict into the coarse overall scale used for
// exit codes: storage or host criticals count as unhealthy.
func Overall(worst Verdict) Verdict {
	switch worst {
	case VerdictCritical, VerdictUnhealthy:
		return VerdictUnhealthy
	case VerdictWarning:
		return VerdictWarning
	case VerdictStarting:
		return VerdictStarting
	default:
		return VerdictHealthy
	}
}
