package service

import (
	"math/rand"
	"strings"
	"time"

	"codefit/internal/config"
	"codefit/internal/models"
	"codefit/internal/utils"
)

// Prompt severities
const (
	SeverityStrong   = "strong"
	SeverityStandard = "standard"
	SeverityLight    = "light"
	SeverityCommit   = "commit"
)

// Commit emotion classes, used to pick a post-commit message
const (
	CommitCelebration = "celebration"
	CommitFrustration = "frustration"
	CommitMilestone   = "milestone"
	CommitNormal      = "normal"
)

// PromptAction is one button offered with a reminder prompt. Command is the
// machine-readable action the client posts back.
type PromptAction struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// Prompt is a reminder decision: a message plus the action set for its
// severity.
type Prompt struct {
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
	Actions  []PromptAction `json:"actions"`
	FiredAt  time.Time      `json:"fired_at"`
}

// ReminderContext carries the volatile signals a policy tick consults in
// addition to the persisted reminder state.
type ReminderContext struct {
	Debugging      bool
	InputIntensity int
	SessionActive  bool
	LastCommitMsg  string
}

// ReminderPolicy decides, once per tick, whether to interrupt the user and
// at what severity. All randomness goes through the injected source.
type ReminderPolicy struct {
	mode          string
	fixedInterval int
	dndEnabled    bool
	dndRanges     []string
	intensityMax  int
	rng           *rand.Rand
}

// NewReminderPolicy builds a policy from the reminder configuration
func NewReminderPolicy(cfg *config.Config, rng *rand.Rand) *ReminderPolicy {
	return &ReminderPolicy{
		mode:          cfg.ReminderMode,
		fixedInterval: cfg.FixedIntervalMinutes,
		dndEnabled:    cfg.DNDEnabled,
		dndRanges:     cfg.DNDRanges,
		intensityMax:  cfg.IntensityThreshold,
		rng:           rng,
	}
}

// Decide evaluates one policy tick. It returns nil when no prompt should
// fire. Suppression checks short-circuit in a fixed order: an active
// session, pause/snooze, DND windows, debugging, then input intensity.
func (p *ReminderPolicy) Decide(state *models.ReminderState, ctx ReminderContext, now time.Time) *Prompt {
	if ctx.SessionActive {
		return nil
	}
	if state.Paused || state.Snoozed(now) {
		return nil
	}
	if p.dndEnabled && p.inDNDWindow(now) {
		return nil
	}
	if ctx.Debugging {
		return nil
	}
	if ctx.InputIntensity > p.intensityMax {
		return nil
	}

	if p.mode == config.ModeFixed {
		if state.WorkMinutes >= p.fixedInterval {
			return p.buildPrompt(SeverityStandard, "", now)
		}
		return nil
	}

	elapsed := state.WorkMinutes
	switch {
	case elapsed >= 120:
		return p.buildPrompt(SeverityStrong, "", now)
	case elapsed >= 90:
		return p.buildPrompt(SeverityStandard, "", now)
	case elapsed >= 45 && elapsed < 60 && state.BreaksToday < 8:
		if p.rng.Intn(2) == 0 {
			return p.buildPrompt(SeverityLight, "", now)
		}
		return nil
	}

	if state.LastCommitAt != nil {
		since := now.Sub(*state.LastCommitAt)
		if since >= time.Minute && since < 5*time.Minute {
			return p.buildPrompt(SeverityCommit, ctx.LastCommitMsg, now)
		}
	}
	return nil
}

func (p *ReminderPolicy) inDNDWindow(now time.Time) bool {
	minute := now.Hour()*60 + now.Minute()
	for _, r := range p.dndRanges {
		start, end, err := utils.ParseTimeRange(r)
		if err != nil {
			continue
		}
		if start <= end {
			if minute >= start && minute <= end {
				return true
			}
		} else if minute >= start || minute <= end {
			// Overnight window, e.g. 22:00-06:30
			return true
		}
	}
	return false
}

func (p *ReminderPolicy) buildPrompt(severity, commitMsg string, now time.Time) *Prompt {
	var pool []string
	switch severity {
	case SeverityCommit:
		pool = commitMessages[ClassifyCommit(commitMsg)]
	default:
		pool = promptMessages[severity]
	}

	return &Prompt{
		Severity: severity,
		Message:  pool[p.rng.Intn(len(pool))],
		Actions:  promptActions[severity],
		FiredAt:  now,
	}
}

// ClassifyCommit buckets a commit message into an emotion class by keyword
func ClassifyCommit(message string) string {
	msg := strings.ToLower(message)
	for _, kw := range []string{"release", "ship", "launch", "v1.", "v2.", "milestone", "100", "1000"} {
		if strings.Contains(msg, kw) {
			return CommitMilestone
		}
	}
	for _, kw := range []string{"finally", "works", "done", "yes!", "woohoo", "success", "🎉"} {
		if strings.Contains(msg, kw) {
			return CommitCelebration
		}
	}
	for _, kw := range []string{"fix", "bug", "broken", "revert", "ugh", "wtf", "again", "hotfix"} {
		if strings.Contains(msg, kw) {
			return CommitFrustration
		}
	}
	return CommitNormal
}

var promptMessages = map[string][]string{
	SeverityStrong: {
		"You've been sitting for over two hours. Your body needs a real break.",
		"Two hours without moving. Time to stand up, no excuses.",
		"Long stretch of work there. Step away from the desk for a few minutes.",
	},
	SeverityStandard: {
		"You've been at it for a while. A short exercise would do you good.",
		"Ninety minutes of focus! Reward yourself with a quick stretch.",
		"Good time for a break. Your eyes and back will thank you.",
	},
	SeverityLight: {
		"Quick stretch? It only takes a minute.",
		"A tiny break keeps the momentum going.",
		"How about resting your eyes for a moment?",
	},
}

var commitMessages = map[string][]string{
	CommitCelebration: {
		"Nice commit! Celebrate with a victory stretch.",
		"That felt good, didn't it? Keep the energy up with a quick walk.",
	},
	CommitFrustration: {
		"Tough one fixed. Shake it off with a short stretch.",
		"Bug squashed. Reset your posture before the next one.",
	},
	CommitMilestone: {
		"Big milestone! You've earned a proper break.",
		"That's one for the changelog. Step away and enjoy it for a minute.",
	},
	CommitNormal: {
		"Commit landed. Good moment for a micro-break.",
		"Work's saved. Stretch while the CI runs.",
	},
}

var promptActions = map[string][]PromptAction{
	SeverityStrong: {
		{Label: "Take a 5-minute break", Command: "break:5"},
		{Label: "Take a 3-minute break", Command: "break:3"},
	},
	SeverityStandard: {
		{Label: "Do an exercise", Command: "exercise"},
		{Label: "Take a walk", Command: "break:3"},
		{Label: "Snooze 15 min", Command: "snooze:15"},
	},
	SeverityLight: {
		{Label: "Quick stretch", Command: "break:1"},
		{Label: "Rest your eyes", Command: "exercise:eye-rest"},
		{Label: "Snooze 30 min", Command: "snooze:30"},
	},
	SeverityCommit: {
		{Label: "Quick stretch", Command: "break:1"},
		{Label: "Keep coding", Command: "dismiss"},
	},
}
