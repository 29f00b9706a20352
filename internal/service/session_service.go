package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"codefit/internal/models"
)

var (
	// ErrSessionActive is returned when a session is started while another is running
	ErrSessionActive = errors.New("an exercise session is already running")
	// ErrNoActiveSession is returned by session commands when nothing is running
	ErrNoActiveSession = errors.New("no exercise session is running")
)

// CompletionFunc is invoked once when a session finishes its final step.
// Stopped sessions never invoke it.
type CompletionFunc func(ex *models.Exercise, trigger string, startedAt time.Time)

// SessionStatus is a point-in-time snapshot of the running session
type SessionStatus struct {
	ExerciseID     string    `json:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"`
	StepIndex      int       `json:"step_index"`
	StepCount      int       `json:"step_count"`
	Instruction    string    `json:"instruction"`
	StepRemaining  int       `json:"step_remaining_seconds"`
	TotalRemaining int       `json:"total_remaining_seconds"`
	Trigger        string    `json:"trigger"`
	StartedAt      time.Time `json:"started_at"`
}

type session struct {
	exercise  *models.Exercise
	trigger   string
	stepIndex int
	remaining int
	startedAt time.Time
	skip      chan struct{}
	stop      chan struct{}
	done      chan struct{}
}

// SessionService runs guided exercise sessions: one at a time, stepping
// through the exercise's instructions on a per-second countdown. Callers
// observe progress through Status and drive it with Skip and Stop.
type SessionService struct {
	mu         sync.Mutex
	current    *session
	clock      Clock
	onComplete CompletionFunc

	// stepUnit is the wall-clock length of one countdown second
	stepUnit time.Duration
}

// NewSessionService creates a session service. onComplete may be nil.
func NewSessionService(clock Clock, onComplete CompletionFunc) *SessionService {
	return &SessionService{
		clock:      clock,
		onComplete: onComplete,
		stepUnit:   time.Second,
	}
}

// Start begins a session for the given catalog exercise. Only one session
// can run at a time.
func (s *SessionService) Start(exerciseID, trigger string) (SessionStatus, error) {
	ex := ExerciseByID(exerciseID)
	if ex == nil {
		return SessionStatus{}, fmt.Errorf("unknown exercise %q", exerciseID)
	}
	if len(ex.Steps) == 0 {
		return SessionStatus{}, fmt.Errorf("exercise %q has no steps", exerciseID)
	}

	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return SessionStatus{}, ErrSessionActive
	}
	sess := &session{
		exercise:  ex,
		trigger:   trigger,
		remaining: ex.Steps[0].Seconds,
		startedAt: s.clock.Now(),
		skip:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	s.current = sess
	status := snapshot(sess)
	s.mu.Unlock()

	go s.run(sess)
	return status, nil
}

// Skip advances the running session to its next step. Skipping the final
// step completes the session.
func (s *SessionService) Skip() error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return ErrNoActiveSession
	}

	select {
	case sess.skip <- struct{}{}:
	case <-sess.done:
	}
	return nil
}

// Stop aborts the running session. Nothing is recorded for a stopped
// session.
func (s *SessionService) Stop() error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return ErrNoActiveSession
	}

	select {
	case sess.stop <- struct{}{}:
	case <-sess.done:
	}
	return nil
}

// Status returns a snapshot of the running session
func (s *SessionService) Status() (SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return SessionStatus{}, ErrNoActiveSession
	}
	return snapshot(s.current), nil
}

// Active reports whether a session is currently running. Reminder delivery
// is suppressed while this is true.
func (s *SessionService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

func (s *SessionService) run(sess *session) {
	ticker := time.NewTicker(s.stepUnit)
	defer ticker.Stop()
	defer close(sess.done)

	for {
		select {
		case <-sess.stop:
			s.clear(sess)
			return

		case <-sess.skip:
			if !s.advance(sess) {
				s.finish(sess)
				return
			}

		case <-ticker.C:
			s.mu.Lock()
			sess.remaining--
			stepDone := sess.remaining <= 0
			s.mu.Unlock()
			if stepDone && !s.advance(sess) {
				s.finish(sess)
				return
			}
		}
	}
}

// advance moves the session to the next step, returning false when the
// final step has been passed. Passing the end retires the session under
// the same lock, so Status never observes an out-of-range step index.
func (s *SessionService) advance(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.stepIndex++
	if sess.stepIndex >= len(sess.exercise.Steps) {
		if s.current == sess {
			s.current = nil
		}
		return false
	}
	sess.remaining = sess.exercise.Steps[sess.stepIndex].Seconds
	return true
}

// finish runs after advance has retired the session
func (s *SessionService) finish(sess *session) {
	if s.onComplete != nil {
		s.onComplete(sess.exercise, sess.trigger, sess.startedAt)
	}
}

func (s *SessionService) clear(sess *session) {
	s.mu.Lock()
	if s.current == sess {
		s.current = nil
	}
	s.mu.Unlock()
}

// snapshot must be called with the service mutex held
func snapshot(sess *session) SessionStatus {
	total := sess.remaining
	for _, step := range sess.exercise.Steps[sess.stepIndex+1:] {
		total += step.Seconds
	}
	return SessionStatus{
		ExerciseID:     sess.exercise.ID,
		ExerciseName:   sess.exercise.Name,
		StepIndex:      sess.stepIndex,
		StepCount:      len(sess.exercise.Steps),
		Instruction:    sess.exercise.Steps[sess.stepIndex].Instruction,
		StepRemaining:  sess.remaining,
		TotalRemaining: total,
		Trigger:        sess.trigger,
		StartedAt:      sess.startedAt,
	}
}
