// Package render formats orchestration results and health reports for the
// terminal. All functions return plain strings; callers decide where to
// print them.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"collabctl/internal/health"
	"collabctl/internal/orchestrator"
	"collabctl/internal/runtime"
	"collabctl/internal/topology"
)

// StatusRow is one service's row in the status table.
type StatusRow struct {
	Service topology.Service
	State   runtime.ContainerState
}

// pad right-pads s to the given display width.
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func stateStyle(status runtime.Status) lipgloss.Style {
	switch status {
	case runtime.StatusRunning:
		return successStyle
	case runtime.StatusRestarting, runtime.StatusPaused:
		return warningStyle
	case runtime.StatusNotCreated:
		return mutedStyle
	default:
		return errorStyle
	}
}

func verdictStyle(v health.Verdict) lipgloss.Style {
	switch v {
	case health.VerdictHealthy:
		return successStyle
	case health.VerdictStarting, health.VerdictWarning:
		return warningStyle
	case health.VerdictSkipped:
		return mutedStyle
	default:
		return errorStyle
	}
}

// StatusTable renders services with their runtime state and ports.
func StatusTable(rows []StatusRow) string {
	var b strings.Builder

	cols := []int{18, 16, 12, 12, 0}
	header := []string{"SERVICE", "GROUP", "STATE", "HEALTH", "PORTS"}
	for i, h := range header {
		b.WriteString(headerStyle.Render(pad(h, cols[i])))
	}
	b.WriteString("\n")

	for _, row := range rows {
		ports := make([]string, 0, len(row.State.Ports))
		for _, p := range row.State.Ports {
			ports = append(ports, fmt.Sprintf("%d->%d/%s", p.HostPort, p.ContainerPort, p.Protocol))
		}
		sort.Strings(ports)

		healthCell := string(row.State.Health)
		if row.State.Health == runtime.HealthNone {
			healthCell = "-"
		}

		b.WriteString(pad(row.Service.Name, cols[0]))
		b.WriteString(pad(string(row.Service.Group), cols[1]))
		b.WriteString(stateStyle(row.State.Status).Render(pad(string(row.State.Status), cols[2])))
		b.WriteString(pad(healthCell, cols[3]))
		b.WriteString(strings.Join(ports, ", "))
		b.WriteString("\n")
	}

	return b.String()
}

// Plan renders the order a dry run would walk services in.
func Plan(services []topology.Service, operation string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Would %s %d service(s) in this order:", operation, len(services))))
	b.WriteString("\n")
	for i, svc := range services {
		b.WriteString(fmt.Sprintf("  %2d. %s (%s)\n", i+1, svc.Name, svc.Container))
	}
	return b.String()
}

// BatchSummary enumerates every outcome of a batch, failures and their
// reasons included, and suggests a next command on partial failure. A
// summary is always produced, success or not.
func BatchSummary(result *orchestrator.BatchResult) string {
	var b strings.Builder

	ok := 0
	for _, o := range result.Outcomes {
		if o.OK() {
			ok++
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: %d/%d succeeded", result.Operation, ok, len(result.Outcomes))))
	b.WriteString("\n")

	for _, o := range result.Outcomes {
		marker := successStyle.Render("✓")
		if !o.OK() {
			marker = errorStyle.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s", marker, pad(o.Service.Name, 18), o.Status))
		if o.Err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  (%v)", o.Err)))
		}
		b.WriteString("\n")
	}

	if failed := result.Failed(); len(failed) > 0 {
		b.WriteString("\n")
		b.WriteString(suggestion(result.Operation, failed))
		b.WriteString("\n")
	}

	return b.String()
}

// suggestion names the most useful next command for the failures seen.
func suggestion(operation string, failed []orchestrator.Outcome) string {
	var timedOut bool
	for _, o := range failed {
		var timeout *orchestrator.TransitionTimeoutError
		if errors.As(o.Err, &timeout) {
			timedOut = true
		}
	}

	switch {
	case operation == "stop" && timedOut:
		return mutedStyle.Render("Hint: retry with --force to kill services that did not stop in time")
	case operation == "stop":
		return mutedStyle.Render("Hint: retry with --force")
	default:
		return mutedStyle.Render(fmt.Sprintf("Hint: check logs with: collabctl logs %s", failed[0].Service.Name))
	}
}

// HealthReport renders per-service verdicts, storage and host probes, and
// the overall verdict.
func HealthReport(report *health.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Service health"))
	b.WriteString("\n")
	for _, sh := range report.Services {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			pad(sh.Service.Name, 18),
			verdictStyle(sh.Verdict).Render(string(sh.Verdict))))
		for _, p := range sh.Probes {
			if p.Verdict == health.VerdictHealthy || p.Verdict == health.VerdictSkipped {
				continue
			}
			b.WriteString(mutedStyle.Render(fmt.Sprintf("      %s: %s", p.Name, probeDetail(p))))
			b.WriteString("\n")
		}
	}

	writeProbeSection(&b, "Storage", report.Storage)
	writeProbeSection(&b, "Host", report.Host)

	if !report.NetworkPresent {
		b.WriteString(warningStyle.Render("  shared network is absent"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Overall: %s\n", verdictStyle(report.Overall).Render(string(report.Overall))))

	if report.Overall == health.VerdictUnhealthy || report.Overall == health.VerdictWarning {
		b.WriteString(healthHints(report))
	}

	return b.String()
}

func writeProbeSection(b *strings.Builder, title string, probes []health.ProbeResult) {
	if len(probes) == 0 {
		return
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, p := range probes {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			pad(p.Name, 18),
			verdictStyle(p.Verdict).Render(probeDetail(p))))
	}
}

func probeDetail(p health.ProbeResult) string {
	if p.Err != nil {
		return fmt.Sprintf("%s: %v", p.Detail, p.Err)
	}
	if p.Detail == "" {
		return string(p.Verdict)
	}
	return p.Detail
}

// healthHints suggests next steps. Storage capacity problems get a
// manual hint only: remediation never frees disk space.
func healthHints(report *health.Report) string {
	var b strings.Builder

	storageCritical := false
	for _, p := range report.Storage {
		if p.Name == "storage-usage" && (p.Verdict == health.VerdictCritical || p.Verdict == health.VerdictWarning) {
			storageCritical = true
		}
	}

	if storageCritical {
		b.WriteString(mutedStyle.Render("Hint: storage usage is high; free space manually, --fix does not touch storage"))
		b.WriteString("\n")
	}
	if len(report.UnhealthyServices()) > 0 || !report.NetworkPresent {
		b.WriteString(mutedStyle.Render("Hint: run with --fix to restart unhealthy services and recreate the network"))
		b.WriteString("\n")
	}
	return b.String()
}

// RemediationSummary reports what each attempted auto-fix did.
func RemediationSummary(actions []health.RemediationAction) string {
	if len(actions) == 0 {
		return mutedStyle.Render("No remediation needed") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Remediation"))
	b.WriteString("\n")
	for _, a := range actions {
		marker := successStyle.Render("✓")
		if !a.OK() {
			marker = errorStyle.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s", marker, a.Name, a.Target))
		if a.Err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  (%v)", a.Err)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
