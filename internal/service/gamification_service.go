package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"codefit/internal/models"
)

// XP awarded per exercise duration category
const (
	xpOneMinute    = 5
	xpThreeMinute  = 15
	xpFiveMinute   = 30
	xpTargeted     = 20
	xpDefault      = 10
	xpMorningBonus = 5
	xpStreakBlock  = 2

	// DailyQuestBonusXP is granted once when every quest task completes
	DailyQuestBonusXP = 50

	consistencyMultiplier = 1.1
)

// LevelInfo is one row of the fixed level threshold table
type LevelInfo struct {
	Level      int
	XPRequired int
	Title      string
}

// levelTable maps cumulative XP to levels. Level is always recomputed from
// XP via this table, never stored independently of it.
var levelTable = []LevelInfo{
	{1, 0, "Desk Sprout"},
	{2, 100, "Chair Shifter"},
	{3, 250, "Stretch Apprentice"},
	{4, 500, "Break Taker"},
	{5, 1000, "Posture Guardian"},
	{6, 1750, "Wellness Warrior"},
	{7, 2750, "Movement Master"},
	{8, 4000, "Vitality Veteran"},
	{9, 5500, "Health Hero"},
	{10, 7500, "Zen Developer"},
}

// LevelForXP returns the highest level whose XP requirement is met
func LevelForXP(xp int) int {
	for i := len(levelTable) - 1; i >= 0; i-- {
		if xp >= levelTable[i].XPRequired {
			return levelTable[i].Level
		}
	}
	return 1
}

// LevelTitle returns the display title for a level
func LevelTitle(level int) string {
	for _, l := range levelTable {
		if l.Level == level {
			return l.Title
		}
	}
	return levelTable[0].Title
}

// AwardResult reports the outcome of awarding an exercise completion
type AwardResult struct {
	BaseXP     int
	BonusXP    int
	TotalXP    int
	Points     models.PointsBreakdown
	LeveledUp  bool
	NewLevel   int
	Unlocked   []models.Achievement
	QuestBonus bool
}

// GamificationService applies XP, points, level, achievement and daily
// quest updates after each completed exercise.
type GamificationService struct {
	enabled      bool
	achievements []models.Achievement
	rng          *rand.Rand
}

// NewGamificationService creates a new gamification service. The random
// source drives daily quest generation and is injectable for tests.
func NewGamificationService(enabled bool, rng *rand.Rand) *GamificationService {
	return &GamificationService{
		enabled:      enabled,
		achievements: DefaultAchievements(),
		rng:          rng,
	}
}

// AwardExerciseCompletion updates the stats aggregate for one completed
// exercise: XP with time-of-day and streak bonuses, points with the
// consistency multiplier, level recomputation, achievement unlocks and
// daily quest progress.
//
// The level-up check runs once, before achievement XP is applied, so an
// unlock reward never re-triggers level evaluation within the same call.
func (g *GamificationService) AwardExerciseCompletion(
	stats *models.UserStats,
	unlocked map[string]bool,
	quest *models.DailyQuest,
	todays []models.Activity,
	ex *models.Exercise,
	now time.Time,
) AwardResult {
	result := AwardResult{}

	stats.TotalExercises++
	stats.TotalMinutes += ex.TotalSeconds() / 60

	result.BaseXP = baseXPForCategory(ex.Category)
	result.BonusXP = g.bonusXP(stats, now)
	result.TotalXP = result.BaseXP + result.BonusXP
	stats.XP += result.TotalXP

	result.Points = g.computePoints(stats, result.BaseXP, result.BonusXP)
	stats.TotalPoints += result.Points.Total
	stats.AvailablePoints += result.Points.Total

	newLevel := LevelForXP(stats.XP)
	if newLevel > stats.Level {
		result.LeveledUp = true
	}
	stats.Level = newLevel
	result.NewLevel = newLevel

	result.Unlocked = g.evaluateAchievements(stats, unlocked, now)

	if quest != nil {
		result.QuestBonus = g.updateQuestProgress(stats, quest, todays, ex, now)
	}

	return result
}

func baseXPForCategory(category string) int {
	switch category {
	case models.CategoryOneMinute:
		return xpOneMinute
	case models.CategoryThreeMinute:
		return xpThreeMinute
	case models.CategoryFiveMinute:
		return xpFiveMinute
	case models.CategoryTargeted:
		return xpTargeted
	}
	return xpDefault
}

func (g *GamificationService) bonusXP(stats *models.UserStats, now time.Time) int {
	bonus := 0
	if hour := now.Hour(); hour >= 6 && hour < 8 {
		bonus += xpMorningBonus
	}
	bonus += (stats.CurrentStreak / 7) * xpStreakBlock
	return bonus
}

func (g *GamificationService) computePoints(stats *models.UserStats, base, bonus int) models.PointsBreakdown {
	points := models.PointsBreakdown{
		Base:       base,
		Bonus:      bonus,
		Multiplier: 1.0,
	}

	total := float64(base + bonus)
	if g.enabled && stats.CurrentStreak >= 7 {
		points.Multiplier = consistencyMultiplier
		total *= consistencyMultiplier
	}
	points.Total = int(total)
	return points
}

// evaluateAchievements unlocks every not-yet-unlocked achievement whose
// requirement the live stats now satisfy. Unlocks are monotonic: the set
// membership guard prevents re-unlocking.
func (g *GamificationService) evaluateAchievements(stats *models.UserStats, unlocked map[string]bool, now time.Time) []models.Achievement {
	var newly []models.Achievement
	for _, a := range g.achievements {
		if unlocked[a.ID] {
			continue
		}
		if !requirementMet(a.Requirement, stats, now) {
			continue
		}

		unlocked[a.ID] = true
		stats.XP += a.XPReward
		newly = append(newly, a)
	}
	return newly
}

func requirementMet(req models.Requirement, stats *models.UserStats, now time.Time) bool {
	switch req.Kind {
	case models.RequireStreak:
		return stats.CurrentStreak >= req.Threshold
	case models.RequireTotalExercises:
		return stats.TotalExercises >= req.Threshold
	case models.RequireTimeOfDay:
		hour := now.Hour()
		return hour >= req.FromHour && hour < req.ToHour
	}
	return false
}

// updateQuestProgress advances the daily quest's task counters for one
// exercise event and grants the completion bonus exactly once.
func (g *GamificationService) updateQuestProgress(stats *models.UserStats, quest *models.DailyQuest, todays []models.Activity, ex *models.Exercise, now time.Time) bool {
	distinct := distinctExercises(todays)

	for i := range quest.Tasks {
		task := &quest.Tasks[i]
		if task.Completed {
			continue
		}

		switch task.Kind {
		case models.QuestCompleteExercises, models.QuestTakeBreaks:
			task.Progress++
		case models.QuestExerciseMinutes:
			task.Progress += ex.TotalSeconds() / 60
		case models.QuestDistinctExercises:
			if distinct > task.Progress {
				task.Progress = distinct
			}
		case models.QuestMorningExercise:
			if hour := now.Hour(); hour >= 6 && hour < 9 {
				task.Progress++
			}
		}

		if task.Progress >= task.Target {
			task.Completed = true
			stats.XP += task.XPReward
		}
	}

	if quest.AllComplete() && !quest.BonusGranted {
		quest.BonusGranted = true
		stats.XP += DailyQuestBonusXP
		return true
	}
	return false
}

// questTemplate describes one generatable quest task
type questTemplate struct {
	kind        string
	description string
	minTarget   int
	maxTarget   int
	xpPerUnit   int
}

var questTemplates = []questTemplate{
	{models.QuestCompleteExercises, "Complete %d exercises", 2, 5, 10},
	{models.QuestTakeBreaks, "Take %d breaks", 3, 6, 8},
	{models.QuestExerciseMinutes, "Exercise for %d minutes", 5, 15, 3},
	{models.QuestDistinctExercises, "Try %d different exercises", 2, 4, 12},
	{models.QuestMorningExercise, "Complete a morning exercise before 9am", 1, 1, 20},
}

// GenerateDailyQuest builds a fresh quest for the given calendar day with
// 3-5 randomly parameterized tasks. Quests are never carried over between
// days.
func (g *GamificationService) GenerateDailyQuest(day time.Time) *models.DailyQuest {
	count := 3 + g.rng.Intn(3)

	// Shuffle template order, then take the first count
	order := g.rng.Perm(len(questTemplates))
	if count > len(questTemplates) {
		count = len(questTemplates)
	}

	quest := &models.DailyQuest{Date: models.DayKey(day)}
	for _, idx := range order[:count] {
		tpl := questTemplates[idx]
		target := tpl.minTarget
		if tpl.maxTarget > tpl.minTarget {
			target += g.rng.Intn(tpl.maxTarget - tpl.minTarget + 1)
		}
		description := tpl.description
		if strings.Contains(description, "%d") {
			description = fmt.Sprintf(description, target)
		}
		quest.Tasks = append(quest.Tasks, models.QuestTask{
			ID:          fmt.Sprintf("%s-%s", quest.Date, tpl.kind),
			Kind:        tpl.kind,
			Description: description,
			Target:      target,
			XPReward:    target * tpl.xpPerUnit,
		})
	}
	return quest
}
