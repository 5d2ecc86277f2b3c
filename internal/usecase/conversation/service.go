// Package conversation drives booking and vacation conversations one event
// at a time on top of the session store.
package conversation

import (
	"context"
	"hash/maphash"
	"log/slog"
	"sync"

	conv "barber-booking/internal/domain/conversation"
	"barber-booking/internal/observability/metrics"
	"barber-booking/internal/pkg/clock"
	"barber-booking/internal/pkg/errs"
	"barber-booking/internal/usecase/shared"
)

// ErrCollaboratorUnavailable marks failures of the stores behind a
// conversation. The session is dropped when it is returned.
var ErrCollaboratorUnavailable = errs.New("conversation collaborator unavailable")

//go:generate mockgen -source=service.go -destination=../mock/conversation_mock.go -package=mock

// Handler applies one event to a user's conversation.
type Handler interface {
	Handle(ctx context.Context, userID int64, ev conv.Event) (*Reply, error)
}

var _ Handler = (*Service)(nil)

type flowHandler interface {
	start(ctx context.Context, userID int64) (*Reply, *conv.Session, error)
	handle(ctx context.Context, sess *conv.Session, ev conv.Event) (*Reply, error)
	prompt(ctx context.Context, sess *conv.Session) (*Reply, error)
}

const lockStripes = 64

// Service routes events to the flow owning the user's session. Events of one
// user are handled one at a time.
type Service struct {
	sessions shared.SessionStore
	flows    map[conv.Flow]flowHandler
	clock    clock.Clock
	metrics  *metrics.ConversationMetrics
	logger   *slog.Logger

	seed  maphash.Seed
	locks [lockStripes]sync.Mutex
}

func NewService(
	sessions shared.SessionStore,
	booking *BookingConversation,
	vacation *VacationScheduler,
	clk clock.Clock,
	m *metrics.ConversationMetrics,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		flows: map[conv.Flow]flowHandler{
			conv.FlowBooking:  booking,
			conv.FlowVacation: vacation,
		},
		clock:   clk,
		metrics: m,
		logger:  logger,
		seed:    maphash.MakeSeed(),
	}
}

// Handle applies ev to the user's conversation and returns what to show next.
// A returned error is always accompanied by a reply the user can be shown.
func (s *Service) Handle(ctx context.Context, userID int64, ev conv.Event) (*Reply, error) {
	mu := s.lock(userID)
	mu.Lock()
	defer mu.Unlock()

	started := s.clock.Now()
	reply, flow, result, err := s.dispatch(ctx, userID, ev)
	s.metrics.ObserveEvent(string(flow), string(ev.Kind()), result)
	s.metrics.ObserveLatency(string(flow), s.clock.Now().Sub(started).Seconds())
	return reply, err
}

func (s *Service) dispatch(ctx context.Context, userID int64, ev conv.Event) (*Reply, conv.Flow, string, error) {
	if st, ok := ev.(conv.Start); ok {
		flow, ok := s.flows[st.Flow]
		if !ok {
			r := &Reply{State: conv.StateIdle, Outcome: OutcomeRejected}
			return r.withNotice(NoticeWarning, FieldInput, "Unknown command."), st.Flow, "rejected", nil
		}
		reply, sess, err := flow.start(ctx, userID)
		if err != nil {
			return s.fail(ctx, userID, st.Flow, err)
		}
		if sess == nil {
			return reply, st.Flow, "rejected", nil
		}
		if err := s.sessions.Save(ctx, sess); err != nil {
			return s.fail(ctx, userID, st.Flow, err)
		}
		return reply, st.Flow, "advanced", nil
	}

	sess, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return s.fail(ctx, userID, "", err)
	}
	if sess == nil || sess.Done() {
		r := &Reply{State: conv.StateIdle}
		return r.withNotice(NoticeInfo, FieldSession, "There is no active conversation. Send /book to start."), "", "rejected", nil
	}

	flow, ok := s.flows[sess.Flow]
	if !ok {
		return s.fail(ctx, userID, sess.Flow, errs.Newf("unknown flow %q", sess.Flow))
	}

	if !conv.Accepts(sess.State, ev.Kind()) {
		reply, err := flow.prompt(ctx, sess)
		if err != nil {
			return s.fail(ctx, userID, sess.Flow, err)
		}
		return reply.withNotice(NoticeWarning, FieldInput, "This action is not available at this step."), sess.Flow, "rejected", nil
	}

	var reply *Reply
	if _, ok := ev.(conv.Cancelled); ok {
		if err := sess.Move(conv.KindCancelled, conv.StateIdle, s.clock.Now()); err != nil {
			return s.fail(ctx, userID, sess.Flow, err)
		}
		reply = &Reply{Flow: sess.Flow, State: conv.StateIdle, Text: "Cancelled. Nothing was saved.", Outcome: OutcomeCancelled}
	} else {
		reply, err = flow.handle(ctx, sess, ev)
		if err != nil {
			return s.fail(ctx, userID, sess.Flow, err)
		}
	}

	if sess.Done() {
		err = s.sessions.Delete(ctx, userID)
	} else {
		err = s.sessions.Save(ctx, sess)
	}
	if err != nil {
		return s.fail(ctx, userID, sess.Flow, err)
	}

	result := "advanced"
	if reply.Notice != nil && reply.Notice.Level == NoticeWarning {
		result = "rejected"
	}
	return reply, sess.Flow, result, nil
}

// fail drops the session so the user starts clean and reports the cause.
func (s *Service) fail(ctx context.Context, userID int64, flow conv.Flow, cause error) (*Reply, conv.Flow, string, error) {
	s.logger.ErrorContext(ctx, "conversation failed",
		"user_id", userID,
		"flow", flow,
		"error", cause,
		"stack", errs.ExtractStackLines(cause, 5))

	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to drop session", "user_id", userID, "error", err)
	}

	r := &Reply{Flow: flow, State: conv.StateIdle, Outcome: OutcomeFailed}
	r.withNotice(NoticeError, FieldSession, "Something went wrong. Please start again.")
	return r, flow, "failed", errs.Mark(errs.Wrap(cause, "handle conversation event"), ErrCollaboratorUnavailable)
}

func (s *Service) lock(userID int64) *sync.Mutex {
	var h maphash.Hash
	h.SetSeed(s.seed)
	var b [8]byte
	for i := range b {
		b[i] = byte(userID >> (8 * i))
	}
	_, _ = h.Write(b[:])
	return &s.locks[h.Sum64()%lockStripes]
}
