package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"food-share-system/models"
	"food-share-system/storage"
)

// BaseExpPerLevel anchors the leveling curve: reaching the next level from
// level n takes floor(BaseExpPerLevel * n^1.2) exp.
const BaseExpPerLevel = 1000

// CarbonPerSavedItem is the estimated kgCO2e avoided per claimed meal.
const CarbonPerSavedItem = 5.237

func expForNextLevel(level int) int64 {
	if level < 1 {
		level = 1
	}
	return int64(float64(BaseExpPerLevel) * math.Pow(float64(level), 1.2))
}

// ProfileStatsEngine owns the user profile: cumulative stats plus the
// append-only set of unlocked achievements. All mutation goes through
// ApplyStatMutation, which commits stats and newly unlocked achievements
// atomically, so a reader never observes one without the other.
type ProfileStatsEngine struct {
	store *storage.LocalStore
	rules []models.AchievementRule

	mu      sync.Mutex
	profile models.Profile
}

// NewProfileStatsEngine validates the rule set, loads the persisted profile
// (or starts from the default), and returns the engine.
func NewProfileStatsEngine(store *storage.LocalStore, rules []models.AchievementRule) (*ProfileStatsEngine, error) {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("achievement rule %d has no id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate achievement rule id %q", r.ID)
		}
		seen[r.ID] = true
		if r.StatKey == "" {
			return nil, fmt.Errorf("achievement rule %q has no stat key", r.ID)
		}
		if r.Op == models.OpInvalid {
			return nil, fmt.Errorf("achievement rule %q has an invalid operator", r.ID)
		}
	}

	e := &ProfileStatsEngine{store: store, rules: rules}

	data, ok, err := store.Get(storage.KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if ok {
		profile := models.DefaultProfile()
		if err := json.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parse persisted profile: %w", err)
		}
		e.profile = profile
	} else {
		e.profile = models.DefaultProfile()
	}
	return e, nil
}

// Profile returns a snapshot of the current profile.
func (e *ProfileStatsEngine) Profile() models.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

// Rules returns the registered achievement rules in evaluation order.
func (e *ProfileStatsEngine) Rules() []models.AchievementRule {
	out := make([]models.AchievementRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// ApplyStatMutation applies a caller-supplied pure stats mutation, rolls
// earned exp into levels, and evaluates every rule against the resulting
// snapshot. Rules already unlocked are skipped; all others see the same final
// stats, so several can fire from one call. The new stats and the grown
// achievement set are committed together, or not at all when persistence
// fails. Returns the newly unlocked rules in registry order.
func (e *ProfileStatsEngine) ApplyStatMutation(mutate func(models.Stats) models.Stats) ([]models.AchievementRule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := mutate(e.profile.Stats)
	applyLevelUps(&next)

	var unlocked []models.AchievementRule
	for _, rule := range e.rules {
		if e.profile.HasAchievement(rule.ID) {
			continue
		}
		if rule.Op.Holds(next.Value(rule.StatKey), rule.Target) {
			unlocked = append(unlocked, rule)
		}
	}

	candidate := e.profile.Clone()
	candidate.Stats = next
	for _, rule := range unlocked {
		candidate.UnlockedAchievements = append(candidate.UnlockedAchievements, rule.ID)
	}

	if err := e.persist(candidate); err != nil {
		return nil, err
	}
	e.profile = candidate
	return unlocked, nil
}

// UpdateSettings replaces the notification preferences.
func (e *ProfileStatsEngine) UpdateSettings(settings models.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	candidate := e.profile.Clone()
	candidate.Settings = settings
	if err := e.persist(candidate); err != nil {
		return err
	}
	e.profile = candidate
	return nil
}

// CarbonImpact estimates the cumulative kgCO2e avoided by this profile.
func (e *ProfileStatsEngine) CarbonImpact() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return math.Round(float64(e.profile.Stats.SavedCount)*CarbonPerSavedItem*100) / 100
}

// Theme returns the persisted UI theme preference, defaulting to light.
func (e *ProfileStatsEngine) Theme() (string, error) {
	data, ok, err := e.store.Get(storage.KeyTheme)
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	if !ok {
		return "light", nil
	}
	return string(data), nil
}

// SetTheme persists the UI theme preference.
func (e *ProfileStatsEngine) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return &models.ValidationError{Field: "theme", Message: "theme must be light or dark"}
	}
	if err := e.store.Put(storage.KeyTheme, []byte(theme)); err != nil {
		return &models.PersistenceError{Op: "save theme", Reason: "storage write failed", Err: err}
	}
	return nil
}

func (e *ProfileStatsEngine) persist(profile models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return &models.PersistenceError{Op: "save profile", Reason: "encode failed", Err: err}
	}
	if err := e.store.Put(storage.KeyProfile, data); err != nil {
		return &models.PersistenceError{Op: "save profile", Reason: "storage write failed", Err: err}
	}
	return nil
}

// applyLevelUps rolls accumulated exp into levels until the remainder is
// below the next threshold.
func applyLevelUps(stats *models.Stats) {
	if stats.Level < 1 {
		stats.Level = 1
	}
	if stats.NextLevelExp <= 0 {
		stats.NextLevelExp = expForNextLevel(stats.Level)
	}
	for stats.Exp >= stats.NextLevelExp {
		stats.Exp -= stats.NextLevelExp
		stats.Level++
		stats.NextLevelExp = expForNextLevel(stats.Level)
	}
}
