// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lobby

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/danielhkuo/quickly-dine/auth"
	"github.com/danielhkuo/quickly-dine/candidates"
	"github.com/danielhkuo/quickly-dine/models"
	"github.com/danielhkuo/quickly-dine/session"
	"github.com/danielhkuo/quickly-dine/store"
	"github.com/danielhkuo/quickly-dine/telemetry"
)

// MaxCodeAttempts bounds the join-code retry loop in CreateSession.
const MaxCodeAttempts = 10

// ErrCodeSpaceExhausted is returned when no free join code was found.
var ErrCodeSpaceExhausted = errors.New("could not allocate a unique join code")

// Publisher receives a snapshot after every committed change.
// *live.Hub satisfies it.
type Publisher interface {
	Publish(snap models.Snapshot)
}

// Config holds the collaborators of a Service. Sessions, Users, Catalog
// and Selector are required.
type Config struct {
	Sessions store.Sessions
	Users    store.Users
	Catalog  store.Catalog
	Selector *candidates.Selector

	Publisher Publisher
	Metrics   *telemetry.Metrics
	Logger    *zap.Logger
	Tracer    trace.Tracer

	// Now and NewCode default to time.Now and auth.GenerateJoinCode.
	Now     func() time.Time
	NewCode func() (string, error)
}

// Service runs every session operation as one atomic read-modify-write
// against the session store and fans the result out to live clients.
type Service struct {
	sessions store.Sessions
	users    store.Users
	catalog  store.Catalog
	selector *candidates.Selector

	publisher Publisher
	metrics   *telemetry.Metrics
	logger    *zap.Logger
	tracer    trace.Tracer

	now     func() time.Time
	newCode func() (string, error)
}

func NewService(cfg Config) *Service {
	s := &Service{
		sessions:  cfg.Sessions,
		users:     cfg.Users,
		catalog:   cfg.Catalog,
		selector:  cfg.Selector,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		tracer:    cfg.Tracer,
		now:       cfg.Now,
		newCode:   cfg.NewCode,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = auth.GenerateJoinCode
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewMetrics()
	}
	return s
}

// CreateSession opens a waiting session hosted by callerID.
func (s *Service) CreateSession(ctx context.Context, callerID, name string) (sess *session.Session, err error) {
	ctx, span := s.start(ctx, "lobby.CreateSession", "")
	defer func() { s.end(span, err) }()

	host, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < MaxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}

		sess = session.New(uuid.NewString(), code, name, host.ID, host.DisplayName, s.now().UTC())
		err = s.sessions.Create(ctx, sess)
		if errors.Is(err, store.ErrCodeTaken) {
			s.logger.Debug("join code collision, retrying", zap.String("code", code))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.metrics.SessionsCreated.Inc()
		s.logger.Info("session created",
			zap.String("session_id", sess.ID),
			zap.String("code", sess.Code),
			zap.String("host_id", host.ID))
		s.publish(sess)
		return sess, nil
	}
	return nil, ErrCodeSpaceExhausted
}

// JoinSession adds callerID to the waiting session holding code. Joining
// twice is a no-op.
func (s *Service) JoinSession(ctx context.Context, callerID, code, displayName string) (sess *session.Session, err error) {
	ctx, span := s.start(ctx, "lobby.JoinSession", "")
	defer func() { s.end(span, err) }()

	user, err := s.caller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	code, err = session.NormalizeCode(code)
	if err != nil {
		return nil, err
	}

	found, err := s.sessions.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound(err, "Session not found")
	}

	name := auth.CleanDisplayName(displayName, user.DisplayName)
	var joined bool
	sess, err = s.update(ctx, found.ID, func(cur *session.Session) error {
		var err error
		joined, err = cur.Join(user.ID, name, s.now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	if joined {
		s.metrics.Joins.Inc()
		s.logger.Info("participant joined",
			zap.String("session_id", sess.ID),
			zap.String("user_id", user.ID),
			zap.Int("participants", sess.ParticipantCount()))
	}
	s.publish(sess)
	return sess, nil
}

// GetSession returns the session for any authenticated caller.
func (s *Service) GetSession(ctx context.Context, callerID, sessionID string) (sess *session.Session, err error) {
	ctx, span := s.start(ctx, "lobby.GetSession", sessionID)
	defer func() { s.end(span, err) }()

	if callerID == "" {
		return nil, errNotAuthenticated
	}
	return s.load(ctx, sessionID)
}

// StartMatching moves the session from waiting to matching.
func (s *Service) StartMatching(ctx context.Context, callerID, sessionID string) (sess *session.Session, err error) {
	ctx, span := s.start(ctx, "lobby.StartMatching", sessionID)
	defer func() { s.end(span, err) }()

	if callerID == "" {
		return nil, errNotAuthenticated
	}
	sess, err = s.update(ctx, sessionID, func(cur *session.Session) error {
		return cur.StartMatching(callerID, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("matching started",
		zap.String("session_id", sess.ID),
		zap.Int("participants", sess.ParticipantCount()))
	s.publish(sess)
	return sess, nil
}

// Candidates returns the next page of swipe cards for callerID.
func (s *Service) Candidates(ctx context.Context, callerID, sessionID string) (page candidates.Page, err error) {
	ctx, span := s.start(ctx, "lobby.Candidates", sessionID)
	defer func() { s.end(span, err) }()

	sess, err := s.member(ctx, callerID, sessionID, "view candidates")
	if err != nil {
		return candidates.Page{}, err
	}
	if sess.Phase != session.PhaseMatching {
		return candidates.Page{}, session.NewError(session.KindWrongPhase, "Session is not in matching phase")
	}

	ids := make([]string, 0, len(sess.Participants))
	for _, p := range sess.Participants {
		ids = append(ids, p.UserID)
	}
	prefs, err := s.users.Preferences(ctx, ids)
	if err != nil {
		// Treat as "no constraints" rather than failing the phase
		s.logger.Warn("preference lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		prefs = nil
	}

	profiles := make([]candidates.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := prefs[id]; ok {
			profiles = append(profiles, candidates.ProfileFromPreferences(id, p))
		}
	}

	page, err = s.selector.Select(ctx, profiles, sess.SwipedBy(callerID))
	if err != nil {
		return candidates.Page{}, err
	}
	if page.Fallback {
		s.metrics.CandidateFallback.Inc()
	}
	span.SetAttributes(attribute.Int("candidates.count", len(page.Restaurants)), attribute.Bool("candidates.fallback", page.Fallback))
	return page, nil
}

// Swipe records callerID's decision on a restaurant. The swipe that
// produces the first consensus moves the session to voting.
func (s *Service) Swipe(ctx context.Context, callerID, sessionID, restaurantID, direction string) (out session.SwipeOutcome, err error) {
	ctx, span := s.start(ctx, "lobby.Swipe", sessionID)
	defer func() { s.end(span, err) }()

	if callerID == "" {
		return out, errNotAuthenticated
	}
	dir, err := session.ParseDirection(direction)
	if err != nil {
		return out, err
	}
	restaurantID = strings.TrimSpace(restaurantID)
	if restaurantID == "" {
		return out, session.NewError(session.KindInvalidInput, "Restaurant ID and direction (left/right) are required")
	}

	var known bool
	sess, err := s.update(ctx, sessionID, func(cur *session.Session) error {
		if err := cur.CanSwipe(callerID); err != nil {
			return err
		}
		// The catalog is only consulted once the caller may swipe
		if !known {
			_, err := s.catalog.FindRestaurant(ctx, restaurantID)
			if errors.Is(err, store.ErrNotFound) {
				return session.NewError(session.KindNotFound, "Restaurant not found")
			}
			if err != nil {
				return err
			}
			known = true
		}
		var err error
		out, err = cur.RecordSwipe(callerID, restaurantID, dir, s.now().UTC())
		return err
	})
	if err != nil {
		return session.SwipeOutcome{}, err
	}

	s.metrics.Swipes.WithLabelValues(string(dir)).Inc()
	if out.Transitioned {
		s.metrics.Consensus.Inc()
		s.logger.Info("consensus reached",
			zap.String("session_id", sess.ID),
			zap.Strings("restaurant_ids", out.ConsensusRestaurantIDs))
	}
	s.publish(sess)
	return out, nil
}

// Vote records callerID's vote on a consensus restaurant. The vote that
// leaves every ballot complete with a non-negative leader completes the
// session.
func (s *Service) Vote(ctx context.Context, callerID, sessionID, restaurantID, vote string) (out session.VoteOutcome, err error) {
	ctx, span := s.start(ctx, "lobby.Vote", sessionID)
	defer func() { s.end(span, err) }()

	if callerID == "" {
		return out, errNotAuthenticated
	}
	choice, err := session.ParseChoice(vote)
	if err != nil {
		return out, err
	}

	sess, err := s.update(ctx, sessionID, func(cur *session.Session) error {
		var err error
		out, err = cur.RecordVote(callerID, restaurantID, choice, s.now().UTC())
		return err
	})
	if err != nil {
		return session.VoteOutcome{}, err
	}

	s.metrics.Votes.WithLabelValues(string(choice)).Inc()
	if out.Completed {
		s.metrics.Completions.Inc()
		fields := []zap.Field{zap.String("session_id", sess.ID)}
		if out.Tally.Winner != nil {
			fields = append(fields, zap.String("winner_id", out.Tally.Winner.RestaurantID), zap.Int("score", out.Tally.Winner.Score))
		}
		s.logger.Info("session completed", fields...)
	}
	s.publish(sess)
	return out, nil
}

// Restaurant returns one catalog entry.
func (s *Service) Restaurant(ctx context.Context, id string) (models.Restaurant, error) {
	r, err := s.catalog.FindRestaurant(ctx, id)
	if err != nil {
		return models.Restaurant{}, notFound(err, "Restaurant not found")
	}
	return r, nil
}

// Snapshot returns the live view of a session for one of its members.
func (s *Service) Snapshot(ctx context.Context, callerID, sessionID string) (models.Snapshot, error) {
	sess, err := s.member(ctx, callerID, sessionID, "watch")
	if err != nil {
		return models.Snapshot{}, err
	}
	return s.snapshot(sess), nil
}

// caller resolves callerID to a stored user.
func (s *Service) caller(ctx context.Context, callerID string) (models.User, error) {
	if callerID == "" {
		return models.User{}, errNotAuthenticated
	}
	u, err := s.users.FindUser(ctx, callerID)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, errNotAuthenticated
	}
	return u, err
}

func (s *Service) load(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, "Session not found")
	}
	return sess, nil
}

// member loads the session and checks that callerID belongs to it.
func (s *Service) member(ctx context.Context, callerID, sessionID, action string) (*session.Session, error) {
	if callerID == "" {
		return nil, errNotAuthenticated
	}
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsParticipant(callerID) {
		return nil, session.NewError(session.KindNotAParticipant, "You must join the session to "+action)
	}
	return sess, nil
}

func (s *Service) update(ctx context.Context, sessionID string, fn store.MutateFunc) (*session.Session, error) {
	sess, err := s.sessions.Update(ctx, sessionID, fn)
	if errors.Is(err, store.ErrConflict) {
		s.metrics.Conflicts.Inc()
		s.logger.Warn("session update conflict", zap.String("session_id", sessionID))
		return nil, err
	}
	if err != nil {
		return nil, notFound(err, "Session not found")
	}
	return sess, nil
}

func (s *Service) publish(sess *session.Session) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(s.snapshot(sess))
}

func (s *Service) snapshot(sess *session.Session) models.Snapshot {
	return models.Snapshot{
		Type:    "snapshot",
		Version: sess.Version,
		Session: View(sess, s.now()),
	}
}

func (s *Service) start(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	if sessionID != "" {
		span.SetAttributes(attribute.String("session.id", sessionID))
	}
	return ctx, span
}

func (s *Service) end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

var errNotAuthenticated = session.NewError(session.KindNotAuthenticated, "Authentication required")

// notFound converts store.ErrNotFound into the session taxonomy and
// passes every other error through.
func notFound(err error, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return session.WrapError(session.KindNotFound, message, err)
	}
	return err
}
