// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2023-present Datadog, Inc.

// Package report renders interception plans for humans, and compares them.
package report

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"

	"github.com/DataDog/intercept/internal/intercept/enhance"
)

// Report is a printable set of type plans.
type Report struct {
	Plans []enhance.TypePlan
}

// Styles control how each part of a [Report] is rendered.
type Styles struct {
	Type    lipgloss.Style
	Plugin  lipgloss.Style
	Site    lipgloss.Style
	Handler lipgloss.Style
	Muted   lipgloss.Style
}

// PlainStyles renders text as-is.
func PlainStyles() Styles {
	return Styles{
		Type:    lipgloss.NewStyle(),
		Plugin:  lipgloss.NewStyle(),
		Site:    lipgloss.NewStyle(),
		Handler: lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
	}
}

// TerminalStyles uses ANSI colors.
func TerminalStyles() Styles {
	return Styles{
		Type:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		Plugin:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5)),
		Site:    lipgloss.NewStyle(),
		Handler: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)).Underline(true),
		Muted:   lipgloss.NewStyle().Faint(true),
	}
}

// StylesFor picks [TerminalStyles] when w is a terminal, and [PlainStyles]
// otherwise.
func StylesFor(w io.Writer) Styles {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return TerminalStyles()
	}
	return PlainStyles()
}

// WithFilter keeps the plans whose type name matches the regex pattern.
func (r Report) WithFilter(regex string) (Report, error) {
	cmpRegex, err := regexp.Compile(regex)
	if err != nil {
		return Report{}, fmt.Errorf("invalid regex %q: %w", regex, err)
	}

	var filtered []enhance.TypePlan
	for _, plan := range r.Plans {
		if cmpRegex.MatchString(plan.Type) {
			filtered = append(filtered, plan)
		}
	}
	return Report{Plans: filtered}, nil
}

// Render writes the report to w. Types no plugin applies to are omitted.
func (r Report) Render(w io.Writer, styles Styles) error {
	var (
		builder strings.Builder
		types   int
		sites   int
	)
	for _, plan := range r.Plans {
		if len(plan.Plugins) == 0 {
			continue
		}
		types++
		sites += len(plan.Sites)

		_, _ = builder.WriteString(styles.Type.Render(plan.Type))
		_, _ = builder.WriteString(" [")
		for i, name := range plan.Plugins {
			if i > 0 {
				_, _ = builder.WriteString(", ")
			}
			_, _ = builder.WriteString(styles.Plugin.Render(name))
		}
		_, _ = builder.WriteString("]\n")

		if len(plan.Sites) == 0 {
			_, _ = builder.WriteString("  ")
			_, _ = builder.WriteString(styles.Muted.Render("no bound members"))
			_, _ = builder.WriteRune('\n')
			continue
		}
		for _, site := range plan.Sites {
			_, _ = builder.WriteString("  ")
			_, _ = builder.WriteString(styles.Site.Render(site.Signature.String()))
			_, _ = builder.WriteString(" -> ")
			_, _ = builder.WriteString(styles.Handler.Render(site.Binding.Handler))
			_, _ = builder.WriteString(styles.Muted.Render(describe(site)))
			_, _ = builder.WriteRune('\n')
		}
	}
	_, _ = fmt.Fprintf(&builder, "%d types, %d bound sites\n", types, sites)

	_, err := io.WriteString(w, builder.String())
	return err
}

func describe(site enhance.Site) string {
	if site.Binding.OverrideArgs {
		return fmt.Sprintf(" (%s #%d, override-args)", site.Plugin, site.Binding.Index)
	}
	return fmt.Sprintf(" (%s #%d)", site.Plugin, site.Binding.Index)
}

// String renders the report with [PlainStyles].
func (r Report) String() string {
	var builder strings.Builder
	_ = r.Render(&builder, PlainStyles())
	return builder.String()
}

// Diff writes a line-oriented diff between the plain renderings of before and
// after to writer. Unchanged lines are prefixed with two spaces, removed lines
// with "- " and added lines with "+ ". It returns true if the reports differ.
func Diff(writer io.Writer, before, after Report) (bool, error) {
	dmp := diffmatchpatch.New()

	beforeRunes, afterRunes, lines := dmp.DiffLinesToRunes(before.String(), after.String())
	fragments := dmp.DiffMainRunes(beforeRunes, afterRunes, false)
	fragments = dmp.DiffCharsToLines(fragments, lines)

	var (
		builder strings.Builder
		changed bool
	)
	for _, fragment := range fragments {
		prefix := "  "
		switch fragment.Type {
		case diffmatchpatch.DiffDelete:
			prefix, changed = "- ", true
		case diffmatchpatch.DiffInsert:
			prefix, changed = "+ ", true
		}
		for _, line := range strings.SplitAfter(fragment.Text, "\n") {
			if line == "" {
				continue
			}
			_, _ = builder.WriteString(prefix)
			_, _ = builder.WriteString(line)
		}
	}

	_, err := io.WriteString(writer, builder.String())
	return changed, err
}
