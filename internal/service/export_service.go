package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"codefit/internal/models"
	"codefit/internal/repository"
)

// ExportData is the complete local-state export structure
type ExportData struct {
	Version      string                `json:"version"`
	ExportedAt   time.Time             `json:"exported_at"`
	Stats        *models.UserStats     `json:"stats"`
	Activities   []models.Activity     `json:"activities"`
	Achievements []string              `json:"unlocked_achievements"`
	Quest        *models.DailyQuest    `json:"daily_quest,omitempty"`
	Reminder     *models.ReminderState `json:"reminder_state"`
	Commits      []models.CommitRecord `json:"git_commits"`
}

// ExportService assembles and writes full exports of the local wellness
// data, and restores them.
type ExportService struct {
	activities *repository.ActivityRepository
	commits    *repository.CommitRepository
	wellness   *repository.WellnessRepository
	clock      Clock
}

// NewExportService creates a new export service
func NewExportService(activities *repository.ActivityRepository, commits *repository.CommitRepository, wellness *repository.WellnessRepository, clock Clock) *ExportService {
	return &ExportService{
		activities: activities,
		commits:    commits,
		wellness:   wellness,
		clock:      clock,
	}
}

// Collect gathers all persisted records into one export structure
func (s *ExportService) Collect() (*ExportData, error) {
	stats, err := s.wellness.Stats()
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	activities, err := s.activities.List()
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	unlocked, err := s.wellness.Unlocked()
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	quest, err := s.wellness.Quest()
	if err != nil {
		return nil, fmt.Errorf("loading quest: %w", err)
	}
	reminder, err := s.wellness.ReminderState()
	if err != nil {
		return nil, fmt.Errorf("loading reminder state: %w", err)
	}
	commits, err := s.commits.List()
	if err != nil {
		return nil, fmt.Errorf("loading commits: %w", err)
	}

	ids := make([]string, 0, len(unlocked))
	for id := range unlocked {
		ids = append(ids, id)
	}

	return &ExportData{
		Version:      "1.0",
		ExportedAt:   s.clock.Now(),
		Stats:        stats,
		Activities:   activities,
		Achievements: ids,
		Quest:        quest,
		Reminder:     reminder,
		Commits:      commits,
	}, nil
}

// Export writes the full export as indented JSON to the given path
func (s *ExportService) Export(outputPath string) error {
	data, err := s.Collect()
	if err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}

	log.Printf("Exported %d activities, %d commits to %s", len(data.Activities), len(data.Commits), outputPath)
	return nil
}

// Import restores an export file, replacing the current local state
func (s *ExportService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}
	if data.Stats == nil {
		return fmt.Errorf("import file has no stats record")
	}

	if err := s.wellness.SaveStats(data.Stats); err != nil {
		return fmt.Errorf("restoring stats: %w", err)
	}
	for _, activity := range data.Activities {
		if err := s.activities.Append(activity); err != nil {
			return fmt.Errorf("restoring activity %s: %w", activity.ID, err)
		}
	}
	set := make(map[string]bool, len(data.Achievements))
	for _, id := range data.Achievements {
		set[id] = true
	}
	if err := s.wellness.SaveUnlocked(set); err != nil {
		return fmt.Errorf("restoring achievements: %w", err)
	}
	if data.Quest != nil {
		if err := s.wellness.SaveQuest(data.Quest); err != nil {
			return fmt.Errorf("restoring quest: %w", err)
		}
	}
	if data.Reminder != nil {
		if err := s.wellness.SaveReminderState(data.Reminder); err != nil {
			return fmt.Errorf("restoring reminder state: %w", err)
		}
	}
	for _, commit := range data.Commits {
		if err := s.commits.Append(commit); err != nil {
			return fmt.Errorf("restoring commit %s: %w", commit.Hash, err)
		}
	}

	log.Printf("Imported %d activities, %d commits from %s", len(data.Activities), len(data.Commits), inputPath)
	return nil
}
