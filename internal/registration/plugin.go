package registration

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Event is a host lifecycle event name.
type Event string

const (
	EventPostInstall Event = "post-install-cmd"
	EventPostUpdate  Event = "post-update-cmd"
	EventUninstall   Event = "uninstall"
)

// Runner is what the plugin drives; *Orchestrator implements it.
type Runner interface {
	Generate() (*Result, error)
	Uninstall() (*Result, error)
	Paths() Paths
}

// Plugin adapts host lifecycle events to a Runner and prints the console
// messages the host shows its user.
type Plugin struct {
	runner Runner
	out    io.Writer
}

// NewPlugin returns a Plugin writing user-facing messages to out.
func NewPlugin(runner Runner, out io.Writer) *Plugin {
	if out == nil {
		out = io.Discard
	}
	return &Plugin{runner: runner, out: out}
}

// Events lists the subscribed lifecycle events in dispatch order.
func (p *Plugin) Events() []Event {
	return []Event{EventPostInstall, EventPostUpdate, EventUninstall}
}

// Dispatch runs the handler subscribed to name.
func (p *Plugin) Dispatch(name string) error {
	switch Event(name) {
	case EventPostInstall, EventPostUpdate:
		return p.OnPostInstallOrUpdate()
	case EventUninstall:
		return p.OnUninstall()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

// OnPostInstallOrUpdate regenerates the manifest.
func (p *Plugin) OnPostInstallOrUpdate() error {
	manifest := p.runner.Paths().Manifest
	fmt.Fprintf(p.out, "Generating %s file...\n", strings.TrimSuffix(path.Base(manifest), path.Ext(manifest)))

	res, err := p.runner.Generate()
	if err != nil {
		return err
	}
	ReportGenerate(p.out, res)
	return nil
}

// OnUninstall restores the backed-up manifest, if any.
func (p *Plugin) OnUninstall() error {
	res, err := p.runner.Uninstall()
	if err != nil {
		return err
	}
	ReportUninstall(p.out, res)
	return nil
}

// ReportGenerate prints the outcome of a Generate run.
func ReportGenerate(w io.Writer, res *Result) {
	if res.BackedUp {
		fmt.Fprintf(w, "Backup of %s at %s\n", res.Manifest, res.Backup)
	}
	for _, f := range res.FailedPatterns {
		fmt.Fprintf(w, "Warning: skipped pattern %q: %v\n", f.Pattern, f.Err)
	}
	switch res.Status {
	case StatusSkipped:
		fmt.Fprintf(w, "Skipped: %v\n", res.Reason)
	case StatusPlanned:
		fmt.Fprintf(w, "Would dump %d entries at `%s`\n", len(res.Entries), res.Manifest)
	default:
		fmt.Fprintf(w, "Dumped at `%s`!\n", res.Manifest)
	}
}

// ReportUninstall prints the outcome of an Uninstall run.
func ReportUninstall(w io.Writer, res *Result) {
	switch res.Status {
	case StatusRestored:
		fmt.Fprintf(w, "Restored %s from %s\n", res.Manifest, res.Backup)
	case StatusPlanned:
		fmt.Fprintf(w, "Would restore %s from %s\n", res.Manifest, res.Backup)
	default:
		fmt.Fprintf(w, "No backup at %s, nothing to restore\n", res.Backup)
	}
}
