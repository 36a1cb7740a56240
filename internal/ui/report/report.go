// Package report renders dependency status, listings, and sync results for
// the terminal.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/bowersync/internal/core/domain"
	"go.trai.ch/bowersync/internal/ui/output"
	"go.trai.ch/bowersync/internal/ui/style"
)

// Printer writes styled reports to a single writer.
type Printer struct {
	w       io.Writer
	title   lipgloss.Style
	muted   lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	changed lipgloss.Style
	ok      lipgloss.Style
	failed  lipgloss.Style
}

// New creates a Printer for w honoring NO_COLOR.
func New(w io.Writer) *Printer {
	profile := output.ColorProfile()
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return &Printer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(style.Iris),
		muted:   r.NewStyle().Foreground(style.Slate),
		added:   r.NewStyle().Foreground(style.Green),
		removed: r.NewStyle().Foreground(style.Red),
		changed: r.NewStyle().Foreground(style.Yellow),
		ok:      r.NewStyle().Foreground(style.Green),
		failed:  r.NewStyle().Foreground(style.Red),
	}
}

// Status prints the reconciliation of a manifest against the installed packages.
func (p *Printer) Status(status *domain.Status) error {
	var b strings.Builder
	b.WriteString(p.title.Render(status.Manifest) + "\n")

	switch {
	case status.Error != "":
		b.WriteString(p.failed.Render(style.Cross+" "+status.Error) + "\n")
	case status.InSync():
		b.WriteString(p.ok.Render(style.Check+" in sync with installed packages") + "\n")
	default:
		p.packages(&b, "declared but not installed", style.Minus, p.removed, status.Diff.Missing, false)
		p.packages(&b, "installed but not declared", style.Plus, p.added, status.Diff.Untracked, true)
		p.packages(&b, "version out of sync", style.Tilde, p.changed, status.Diff.VersionOutOfSync, false)
		b.WriteString(p.muted.Render("run 'bowersync sync' to update the manifest") + "\n")
	}

	return p.write(b.String())
}

// Dependencies prints both dependency mappings sorted by name.
func (p *Printer) Dependencies(snapshot domain.DependencySnapshot) error {
	var b strings.Builder
	p.mapping(&b, "dependencies", snapshot.Dependencies)
	p.mapping(&b, "devDependencies", snapshot.DevDependencies)
	return p.write(b.String())
}

// Sync prints the outcome of a sync. A preview is printed below the summary.
func (p *Printer) Sync(result *domain.SyncResult, preview string) error {
	var b strings.Builder
	if preview != "" {
		b.WriteString(p.title.Render("dry run, manifest not written") + "\n")
	}
	p.packages(&b, "removed", style.Minus, p.removed, result.Removed, false)
	p.packages(&b, "added", style.Plus, p.added, result.Installed, true)
	p.packages(&b, "updated", style.Tilde, p.changed, result.Updated, false)
	if preview != "" {
		b.WriteString("\n")
		for line := range strings.Lines(preview) {
			b.WriteString(p.diffLine(strings.TrimSuffix(line, "\n")) + "\n")
		}
	}
	return p.write(b.String())
}

// Message prints a single muted line.
func (p *Printer) Message(msg string) error {
	return p.write(p.muted.Render(msg) + "\n")
}

func (p *Printer) packages(
	b *strings.Builder,
	heading, icon string,
	st lipgloss.Style,
	pkgs []domain.Package,
	withType bool,
) {
	if len(pkgs) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("%s (%d)\n", heading, len(pkgs)))
	for _, pkg := range pkgs {
		line := fmt.Sprintf("  %s %s %s", icon, pkg.Name, pkg.Version)
		if withType && !pkg.IsProductionDependency() {
			line += " " + p.muted.Render("("+pkg.Type.String()+")")
		}
		b.WriteString(st.Render(line) + "\n")
	}
}

func (p *Printer) mapping(b *strings.Builder, heading string, deps map[string]string) {
	b.WriteString(p.title.Render(fmt.Sprintf("%s (%d)", heading, len(deps))) + "\n")
	names := make([]string, 0, len(deps))
	width := 0
	for name := range deps {
		names = append(names, name)
		width = max(width, lipgloss.Width(name))
	}
	slices.Sort(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("  %-*s %s\n", width, name, p.muted.Render(deps[name])))
	}
}

func (p *Printer) diffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return p.title.Render(line)
	case strings.HasPrefix(line, "+"):
		return p.added.Render(line)
	case strings.HasPrefix(line, "-"):
		return p.removed.Render(line)
	case strings.HasPrefix(line, "@@"):
		return p.muted.Render(line)
	default:
		return line
	}
}

func (p *Printer) write(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}
