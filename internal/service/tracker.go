package service

import (
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"codefit/internal/models"
	"codefit/internal/repository"
	"codefit/internal/utils"
)

// Dashboard is the aggregate view served to the client surface
type Dashboard struct {
	Stats         *models.UserStats  `json:"stats"`
	LevelTitle    string             `json:"level_title,omitempty"`
	Quest         *models.DailyQuest `json:"quest,omitempty"`
	Prompt        *Prompt            `json:"prompt,omitempty"`
	SessionActive bool               `json:"session_active"`
	Paused        bool               `json:"paused"`
	BreaksToday   int                `json:"breaks_today"`
	WorkMinutes   int                `json:"work_minutes"`
	TodayMinutes  int                `json:"today_minutes"`
}

// CompletionSummary reports everything that changed when an exercise
// finished, for the client to display.
type CompletionSummary struct {
	Activity models.Activity `json:"activity"`
	Award    AwardResult     `json:"award"`
	Score    int             `json:"health_score"`
	Streak   int             `json:"streak"`
}

// Tracker is the single writer for all mutable wellness state. Every state
// transition (exercise completion, reminder tick, user action, rollover)
// runs under its mutex, and each mutation is persisted before the lock is
// released.
type Tracker struct {
	mu sync.Mutex

	activities *repository.ActivityRepository
	wellness   *repository.WellnessRepository

	scoring      *ScoringService
	streaks      *StreakService
	gamification *GamificationService
	policy       *ReminderPolicy
	sessions     *SessionService

	clock Clock
	rng   *rand.Rand

	// commitGrace delays the post-commit policy pass so the prompt lands
	// after the push settles, not mid-commit
	commitGrace time.Duration
	showLevel   bool

	// volatile editor signals, set by the client between ticks
	debugging bool
	intensity int

	lastCommitMsg string
	pending       *Prompt
	lastResult    *CompletionSummary
}

// NewTracker wires the engines around the shared repositories. The tracker
// owns the session service so completion callbacks feed straight back into
// it.
func NewTracker(
	activities *repository.ActivityRepository,
	wellness *repository.WellnessRepository,
	scoring *ScoringService,
	streaks *StreakService,
	gamification *GamificationService,
	policy *ReminderPolicy,
	clock Clock,
	rng *rand.Rand,
	commitGrace time.Duration,
	showLevel bool,
) *Tracker {
	t := &Tracker{
		activities:   activities,
		wellness:     wellness,
		scoring:      scoring,
		streaks:      streaks,
		gamification: gamification,
		policy:       policy,
		clock:        clock,
		rng:          rng,
		commitGrace:  commitGrace,
		showLevel:    showLevel,
	}
	t.sessions = NewSessionService(clock, t.onSessionComplete)
	return t
}

// Sessions exposes the session service for status queries
func (t *Tracker) Sessions() *SessionService {
	return t.sessions
}

// StartExercise begins a session for a specific catalog exercise. Starting
// counts as accepting a break: the elapsed-work counter resets and today's
// break count increments.
func (t *Tracker) StartExercise(exerciseID, trigger string) (SessionStatus, error) {
	status, err := t.sessions.Start(exerciseID, trigger)
	if err != nil {
		return SessionStatus{}, err
	}
	t.noteBreakStarted()
	return status, nil
}

// StartBreak begins a session with a randomly chosen exercise fitting the
// requested break length.
func (t *Tracker) StartBreak(minutes int, trigger string) (SessionStatus, error) {
	category := CategoryForMinutes(minutes)
	pool := ExercisesByCategory(category)
	if len(pool) == 0 {
		return SessionStatus{}, fmt.Errorf("no exercises for a %d-minute break", minutes)
	}
	// the source is shared with the tick path and only safe under the mutex
	t.mu.Lock()
	ex := pool[t.rng.Intn(len(pool))]
	t.mu.Unlock()
	return t.StartExercise(ex.ID, trigger)
}

func (t *Tracker) noteBreakStarted() {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.reminderState()
	state.WorkMinutes = 0
	state.BreaksToday++
	t.persistReminderState(state)
	t.pending = nil
}

// onSessionComplete is the sequencer's completion callback: it records the
// activity and runs the streak, leveling and scoring engines in order,
// persisting after each aggregate change.
func (t *Tracker) onSessionComplete(ex *models.Exercise, trigger string, startedAt time.Time) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	stats, err := t.wellness.Stats()
	if err != nil {
		log.Printf("completion: loading stats: %v", err)
		return
	}
	unlocked, err := t.wellness.Unlocked()
	if err != nil {
		log.Printf("completion: loading achievements: %v", err)
		return
	}
	quest := t.currentQuest(now)
	todays, err := t.activities.OnDay(now)
	if err != nil {
		log.Printf("completion: loading today's activities: %v", err)
		return
	}

	activity := models.Activity{
		ID:          utils.NewID(),
		ExerciseID:  ex.ID,
		Name:        ex.Name,
		Duration:    ex.TotalSeconds(),
		Calories:    ex.Calories,
		Trigger:     trigger,
		Source:      "companion",
		StartedAt:   startedAt,
		CompletedAt: now,
		CreatedAt:   now,
	}

	withNew := append(append([]models.Activity{}, todays...), activity)
	t.streaks.Evaluate(stats, withNew, now)

	award := t.gamification.AwardExerciseCompletion(stats, unlocked, quest, withNew, ex, now)
	activity.Points = award.Points

	if err := t.activities.Append(activity); err != nil {
		log.Printf("completion: recording activity: %v", err)
	}

	stats.HealthScore = t.scoring.ComputeHealthScore(withNew, now)

	if err := t.wellness.SaveStats(stats); err != nil {
		log.Printf("completion: persisting stats: %v", err)
	}
	if err := t.wellness.SaveUnlocked(unlocked); err != nil {
		log.Printf("completion: persisting achievements: %v", err)
	}
	if quest != nil {
		if err := t.wellness.SaveQuest(quest); err != nil {
			log.Printf("completion: persisting quest: %v", err)
		}
	}

	t.lastResult = &CompletionSummary{
		Activity: activity,
		Award:    award,
		Score:    stats.HealthScore,
		Streak:   stats.CurrentStreak,
	}
}

// Tick runs one reminder-policy evaluation. Called once per minute. The
// elapsed-work counter advances unless the user is on a break right now.
func (t *Tracker) Tick() {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rolloverIfNeeded(now)

	state := t.reminderState()
	if !t.sessions.Active() {
		state.WorkMinutes++
	}

	ctx := ReminderContext{
		Debugging:      t.debugging,
		InputIntensity: t.intensity,
		SessionActive:  t.sessions.Active(),
		LastCommitMsg:  t.lastCommitMsg,
	}
	if prompt := t.policy.Decide(state, ctx, now); prompt != nil {
		t.pending = prompt
	}

	t.persistReminderState(state)
}

// OnCommit feeds a detected commit into the reminder context and schedules
// one policy pass after the grace period, so the post-commit prompt does
// not wait for the next minute tick.
func (t *Tracker) OnCommit(commit models.CommitRecord) {
	t.mu.Lock()
	state := t.reminderState()
	at := commit.At
	state.LastCommitAt = &at
	t.lastCommitMsg = commit.Message
	t.persistReminderState(state)
	t.mu.Unlock()

	time.AfterFunc(t.commitGrace, t.evaluatePolicy)
}

// evaluatePolicy runs a reminder decision outside the minute cadence. The
// elapsed-work counter is left alone.
func (t *Tracker) evaluatePolicy() {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.reminderState()
	ctx := ReminderContext{
		Debugging:      t.debugging,
		InputIntensity: t.intensity,
		SessionActive:  t.sessions.Active(),
		LastCommitMsg:  t.lastCommitMsg,
	}
	if prompt := t.policy.Decide(state, ctx, now); prompt != nil {
		t.pending = prompt
	}
}

// SetSignals updates the volatile editor signals consulted on each tick
func (t *Tracker) SetSignals(debugging bool, intensity int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.debugging = debugging
	t.intensity = intensity
}

// Snooze suppresses reminders for the given number of minutes
func (t *Tracker) Snooze(minutes int) time.Time {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.reminderState()
	until := now.Add(time.Duration(minutes) * time.Minute)
	state.SnoozeUntil = &until
	t.persistReminderState(state)
	t.pending = nil
	return until
}

// TogglePause flips the reminder pause flag and returns the new value
func (t *Tracker) TogglePause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.reminderState()
	state.Paused = !state.Paused
	t.persistReminderState(state)
	if state.Paused {
		t.pending = nil
	}
	return state.Paused
}

// HandleAction dispatches a prompt action command: "break:N",
// "exercise[:id]", "snooze:N" or "dismiss".
func (t *Tracker) HandleAction(command string) error {
	switch {
	case command == "dismiss":
		t.mu.Lock()
		t.pending = nil
		t.mu.Unlock()
		return nil

	case command == "exercise":
		_, err := t.StartBreak(3, models.TriggerReminder)
		return err

	case strings.HasPrefix(command, "exercise:"):
		_, err := t.StartExercise(strings.TrimPrefix(command, "exercise:"), models.TriggerReminder)
		return err

	case strings.HasPrefix(command, "break:"):
		minutes, err := strconv.Atoi(strings.TrimPrefix(command, "break:"))
		if err != nil {
			return fmt.Errorf("invalid break length in %q", command)
		}
		_, err = t.StartBreak(minutes, models.TriggerReminder)
		return err

	case strings.HasPrefix(command, "snooze:"):
		minutes, err := strconv.Atoi(strings.TrimPrefix(command, "snooze:"))
		if err != nil {
			return fmt.Errorf("invalid snooze length in %q", command)
		}
		t.Snooze(minutes)
		return nil
	}
	return fmt.Errorf("unknown action %q", command)
}

// Dashboard assembles the aggregate client view
func (t *Tracker) Dashboard() (*Dashboard, error) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rolloverIfNeeded(now)

	stats, err := t.wellness.Stats()
	if err != nil {
		return nil, err
	}
	state := t.reminderState()
	quest := t.currentQuest(now)

	todays, err := t.activities.OnDay(now)
	if err != nil {
		return nil, err
	}
	todayMinutes := 0
	for _, a := range todays {
		todayMinutes += a.Duration / 60
	}

	d := &Dashboard{
		Stats:         stats,
		Quest:         quest,
		Prompt:        t.pending,
		SessionActive: t.sessions.Active(),
		Paused:        state.Paused,
		BreaksToday:   state.BreaksToday,
		WorkMinutes:   state.WorkMinutes,
		TodayMinutes:  todayMinutes,
	}
	if t.showLevel {
		d.LevelTitle = LevelTitle(stats.Level)
	}
	return d, nil
}

// Quest returns today's quest, generating it on first access
func (t *Tracker) Quest() *models.DailyQuest {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentQuest(now)
}

// PendingPrompt returns the undelivered reminder prompt, if any
func (t *Tracker) PendingPrompt() *Prompt {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// LastCompletion returns the most recent completion summary, if any
func (t *Tracker) LastCompletion() *CompletionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastResult
}

// Rollover runs the daily reset if the calendar day has changed since the
// last one: today's break count resets and the quest regenerates.
func (t *Tracker) Rollover() {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverIfNeeded(now)
}

func (t *Tracker) rolloverIfNeeded(now time.Time) {
	state := t.reminderState()
	today := models.DayKey(now)
	if state.LastRolloverDay == today {
		return
	}

	state.BreaksToday = 0
	state.LastRolloverDay = today
	t.persistReminderState(state)

	quest := t.gamification.GenerateDailyQuest(now)
	if err := t.wellness.SaveQuest(quest); err != nil {
		log.Printf("rollover: persisting quest: %v", err)
	}
	log.Printf("Daily rollover complete for %s: %d quest tasks", today, len(quest.Tasks))
}

// currentQuest loads today's quest, regenerating a stale or missing one.
// Must be called with the tracker mutex held.
func (t *Tracker) currentQuest(now time.Time) *models.DailyQuest {
	quest, err := t.wellness.Quest()
	if err != nil {
		log.Printf("loading quest: %v", err)
		return nil
	}
	if quest == nil || quest.Date != models.DayKey(now) {
		quest = t.gamification.GenerateDailyQuest(now)
		if err := t.wellness.SaveQuest(quest); err != nil {
			log.Printf("persisting quest: %v", err)
		}
	}
	return quest
}

// reminderState loads the persisted reminder state, falling back to a
// fresh record when the read fails. Must be called with the mutex held.
func (t *Tracker) reminderState() *models.ReminderState {
	state, err := t.wellness.ReminderState()
	if err != nil {
		log.Printf("loading reminder state: %v", err)
		return &models.ReminderState{}
	}
	return state
}

func (t *Tracker) persistReminderState(state *models.ReminderState) {
	if err := t.wellness.SaveReminderState(state); err != nil {
		log.Printf("persisting reminder state: %v", err)
	}
}
