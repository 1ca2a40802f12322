// Package tuitest provides test utilities for bubbletea models.
package tuitest

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultMaxSteps bounds how many messages one Send may process, so a
// command that re-schedules itself fails the test instead of hanging it.
const DefaultMaxSteps = 200

// Driver runs a model without a terminal. Commands returned by Update are
// executed synchronously and their messages fed back until no work is left.
type Driver struct {
	tb testing.TB

	// Model is the current model.
	Model tea.Model

	// Output contains the last rendered view.
	Output string

	// Messages contains every message delivered to the model.
	Messages []tea.Msg

	// MaxSteps bounds the messages processed by one Send.
	MaxSteps int

	// Quit is set once a command returned tea.Quit.
	Quit bool
}

// NewDriver creates a driver and runs the model's Init command.
func NewDriver(tb testing.TB, model tea.Model) *Driver {
	tb.Helper()
	d := &Driver{tb: tb, Model: model, MaxSteps: DefaultMaxSteps}
	d.drain(model.Init())
	d.Output = d.Model.View()
	return d
}

// Send delivers msgs in order, draining the commands each one produces.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	d.tb.Helper()
	for _, msg := range msgs {
		d.drain(d.update(msg))
	}
	d.Output = d.Model.View()
	return d
}

// Hold delivers msg but returns the resulting command without running it.
func (d *Driver) Hold(msg tea.Msg) tea.Cmd {
	d.tb.Helper()
	cmd := d.update(msg)
	d.Output = d.Model.View()
	return cmd
}

// Run executes cmd, typically one returned by Hold, and drains the rest.
func (d *Driver) Run(cmd tea.Cmd) *Driver {
	d.tb.Helper()
	d.drain(cmd)
	d.Output = d.Model.View()
	return d
}

// View returns the current view without ANSI escape codes.
func (d *Driver) View() string {
	return StripANSI(d.Output)
}

// Lines returns the current view split by newlines.
func (d *Driver) Lines() []string {
	return strings.Split(d.View(), "\n")
}

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	d.Messages = append(d.Messages, msg)
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	return cmd
}

func (d *Driver) drain(cmd tea.Cmd) {
	d.tb.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > d.MaxSteps {
			d.tb.Fatalf("tuitest: more than %d messages without settling", d.MaxSteps)
			return
		}

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			d.Quit = true
		default:
			queue = append(queue, d.update(msg))
		}
	}
}
