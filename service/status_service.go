package services

import (
	"context"
	"errors"
	"math"
	"time"

	"anchor-status/api"
	"anchor-status/models/hours"
	"anchor-status/models/status"
	"anchor-status/util"

	"github.com/rs/zerolog/log"
)

// ErrNoHours is returned when no hours document has been fetched yet.
var ErrNoHours = errors.New("no business hours available")

// StatusService turns the poller cache into display-ready status.
type StatusService struct {
	poller *StatusPoller
	engine *StatusEngine
}

// NewStatusService constructs a new StatusService.
func NewStatusService(poller *StatusPoller, engine *StatusEngine) *StatusService {
	return &StatusService{
		poller: poller,
		engine: engine,
	}
}

// CurrentView recomputes the status for now. ok is false when nothing was ever
// fetched, in which case no status should be shown at all.
func (s *StatusService) CurrentView(now time.Time) (*status.StatusView, bool) {
	snap := s.poller.Snapshot()
	if snap.Document == nil {
		return nil, false
	}

	ev, err := s.engine.Evaluate(now, snap.Document)
	if err != nil {
		log.Error().Err(err).Msg("[StatusService] Hours data invalid, serving closed")
	}

	current := ev.Current
	advisory := snap.Document.Advisory()
	view := &status.StatusView{
		IsOpen:             current.IsOpen,
		KitchenOpen:        current.KitchenOpen,
		ClosesIn:           formatCountdown(current.ClosesIn),
		OpensIn:            formatCountdown(current.OpensIn),
		NextBoundaryAt:     ev.Next.At,
		NextBoundaryReason: ev.Next.Reason,
		IsStale:            snap.IsStale,
		Error:              errorCode(snap.LastError),
		Venue:              serviceView(current.Venue),
		Kitchen:            serviceView(current.Kitchen),
		Special:            ev.Today.IsSpecial,
		Note:               ev.Today.Note,
		Upstream:           advisory,
		Corrected:          advisory.Venue.Reported != current.IsOpen || advisory.Kitchen.Reported != current.KitchenOpen,
		Timestamp:          current.Timestamp,
	}
	if !snap.LastUpdate.IsZero() {
		lastUpdate := snap.LastUpdate
		view.LastUpdate = &lastUpdate
		view.LastUpdateRelative = util.FormatRelativeTime(lastUpdate, now, s.engine.Resolver().Location())
	}
	return view, true
}

// Refresh asks the poller for an out-of-band fetch.
func (s *StatusService) Refresh(ctx context.Context) error {
	return s.poller.Refetch(ctx)
}

// Document returns the cached upstream document.
func (s *StatusService) Document() (*hours.HoursDocument, error) {
	doc := s.poller.Snapshot().Document
	if doc == nil {
		return nil, ErrNoHours
	}
	return doc, nil
}

// EffectiveHours resolves a single date (YYYY-MM-DD) from the cached document.
func (s *StatusService) EffectiveHours(date string) (hours.EffectiveDayHours, error) {
	doc, err := s.Document()
	if err != nil {
		return hours.EffectiveDayHours{}, err
	}
	eff, err := s.engine.Resolver().Resolve(date, doc.RegularHours, doc.SpecialHours)
	if errors.Is(err, ErrInvalidDate) {
		return hours.EffectiveDayHours{}, err
	}
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("[StatusService] Hours data invalid, serving closed")
	}
	return eff, nil
}

// WeeklyHours resolves the seven days starting with now's date.
func (s *StatusService) WeeklyHours(now time.Time) ([]hours.EffectiveDayHours, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	days := make([]hours.EffectiveDayHours, 0, 7)
	for offset := 0; offset < 7; offset++ {
		eff, err := s.engine.Resolver().ResolveDay(now, offset, doc.RegularHours, doc.SpecialHours)
		if err != nil {
			log.Error().Err(err).Str("date", eff.Date).Msg("[StatusService] Hours data invalid, serving closed")
		}
		days = append(days, eff)
	}
	return days, nil
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrRateLimited):
		return status.ErrorCodeRateLimited
	default:
		return status.ErrorCodeUpstreamUnavailable
	}
}

func serviceView(st status.ServiceStatus) status.ServiceView {
	return status.ServiceView{
		Open:            st.Open,
		State:           st.State,
		Message:         st.Message,
		ClosesIn:        formatCountdown(st.ClosesIn),
		ClosesInMinutes: countdownMinutes(st.ClosesIn),
		OpensIn:         formatCountdown(st.OpensIn),
		OpensInMinutes:  countdownMinutes(st.OpensIn),
		OpensAt:         st.OpensAt,
		ClosesAt:        st.ClosesAt,
	}
}

func formatCountdown(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return util.FormatDuration(d.Minutes())
}

func countdownMinutes(d *time.Duration) *int {
	if d == nil {
		return nil
	}
	m := int(math.Round(d.Minutes()))
	return &m
}
