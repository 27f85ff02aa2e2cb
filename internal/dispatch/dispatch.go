// Package dispatch fans an accepted submission out to independent sinks
// (email, spreadsheet, chat) under an explicit per-sink failure policy.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Policy decides what a sink failure does to the request that triggered it.
type Policy int

const (
	// Fatal failures stop the dispatch and fail the request.
	Fatal Policy = iota
	// BestEffort failures are logged and otherwise ignored.
	BestEffort
)

func (p Policy) String() string {
	switch p {
	case Fatal:
		return "fatal"
	case BestEffort:
		return "best-effort"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Policies maps sink names to their policy. Sinks not listed are Fatal.
type Policies map[string]Policy

func (p Policies) For(sink string) Policy {
	if policy, ok := p[sink]; ok {
		return policy
	}
	return Fatal
}

// Sink is one downstream side effect.
type Sink struct {
	Name string
	Send func(ctx context.Context) error
}

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

type Result struct {
	Sink   string
	Policy Policy
	Status Status
	Err    error
}

// Report is the outcome of one Run, one Result per sink in run order.
type Report struct {
	Results []Result
}

// Err returns the failure of the fatal sink that stopped the run, if any.
func (r Report) Err() error {
	for _, res := range r.Results {
		if res.Status == StatusFailed && res.Policy == Fatal {
			return fmt.Errorf("%s: %w", res.Sink, res.Err)
		}
	}
	return nil
}

// Result returns the result recorded for the named sink.
func (r Report) Result(sink string) (Result, bool) {
	for _, res := range r.Results {
		if res.Sink == sink {
			return res, true
		}
	}
	return Result{}, false
}

type Dispatcher struct {
	policies Policies
}

func New(policies Policies) *Dispatcher {
	return &Dispatcher{policies: policies}
}

// Policy exposes the policy applied to the named sink.
func (d *Dispatcher) Policy(sink string) Policy {
	return d.policies.For(sink)
}

// Run calls the sinks in order. A failing best-effort sink is logged and
// the run continues; a failing fatal sink marks every later sink skipped.
func (d *Dispatcher) Run(ctx context.Context, sinks ...Sink) Report {
	report := Report{Results: make([]Result, 0, len(sinks))}
	stopped := false

	for _, sink := range sinks {
		res := Result{Sink: sink.Name, Policy: d.policies.For(sink.Name)}

		if stopped {
			res.Status = StatusSkipped
			report.Results = append(report.Results, res)
			continue
		}

		if err := send(ctx, sink); err != nil {
			res.Status = StatusFailed
			res.Err = err
			if res.Policy == Fatal {
				stopped = true
				slog.Error("sink_failed", "sink", sink.Name, "policy", res.Policy.String(), "error", err)
			} else {
				slog.Warn("sink_failed", "sink", sink.Name, "policy", res.Policy.String(), "error", err)
			}
		} else {
			res.Status = StatusOK
		}
		report.Results = append(report.Results, res)
	}

	return report
}

var errNoSend = errors.New("sink has no send function")

func send(ctx context.Context, sink Sink) (err error) {
	if sink.Send == nil {
		return errNoSend
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return sink.Send(ctx)
}
