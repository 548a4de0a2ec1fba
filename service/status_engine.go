package services

import (
	"errors"
	"time"

	"anchor-status/models/hours"
	"anchor-status/models/status"
)

// Evaluation is everything derived from one hours document at one instant.
type Evaluation struct {
	Yesterday hours.EffectiveDayHours
	Today     hours.EffectiveDayHours
	Tomorrow  hours.EffectiveDayHours
	Current   status.CurrentStatus
	Next      status.NextBoundary
}

// StatusEngine runs resolver, evaluator and boundary calculator for a venue location.
type StatusEngine struct {
	resolver   *HoursResolver
	evaluator  *StatusEvaluator
	boundaries *NextBoundaryCalculator
}

func NewStatusEngine(loc *time.Location) *StatusEngine {
	return &StatusEngine{
		resolver:   NewHoursResolver(loc),
		evaluator:  NewStatusEvaluator(loc),
		boundaries: NewNextBoundaryCalculator(loc),
	}
}

// Resolver exposes the engine's resolver for date lookups.
func (e *StatusEngine) Resolver() *HoursResolver {
	return e.resolver
}

// Evaluate resolves yesterday, today and tomorrow for now and evaluates them, so
// a late night that runs past midnight stays open until its close. A data error
// is returned next to a usable fail-closed evaluation.
func (e *StatusEngine) Evaluate(now time.Time, doc *hours.HoursDocument) (Evaluation, error) {
	yesterday, yesterdayErr := e.resolver.ResolveDay(now, -1, doc.RegularHours, doc.SpecialHours)
	today, todayErr := e.resolver.ResolveToday(now, doc)
	tomorrow, tomorrowErr := e.resolver.ResolveTomorrow(now, doc)

	current := e.evaluator.EvaluateWithPrevious(now, yesterday, today, tomorrow)
	return Evaluation{
		Yesterday: yesterday,
		Today:     today,
		Tomorrow:  tomorrow,
		Current:   current,
		Next:      e.boundaries.NextWithPrevious(now, yesterday, today, tomorrow, current),
	}, errors.Join(yesterdayErr, todayErr, tomorrowErr)
}

// NextBoundaryAt is the instant the poller should wake to re-evaluate.
func (e *StatusEngine) NextBoundaryAt(now time.Time, doc *hours.HoursDocument) time.Time {
	ev, _ := e.Evaluate(now, doc)
	return ev.Next.At
}
