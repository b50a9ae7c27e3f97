package models

// Stats are the cumulative gamified counters for a profile. All counters are
// monotonically non-decreasing except Level/Exp, which follow the leveling curve.
type Stats struct {
	Level           int     `json:"level"`
	Exp             int64   `json:"exp"`
	NextLevelExp    int64   `json:"next_level_exp"`
	SavedCount      int64   `json:"saved_count"`
	SavedWeight     float64 `json:"saved_weight"`
	PostedCount     int64   `json:"posted_count"`
	NightOwlActions int64   `json:"night_owl_actions"`
}

// Value reads a counter by rule key. Unknown keys read as 0.
func (s Stats) Value(key string) float64 {
	switch key {
	case "level":
		return float64(s.Level)
	case "exp":
		return float64(s.Exp)
	case "nextLevelExp":
		return float64(s.NextLevelExp)
	case "savedCount":
		return float64(s.SavedCount)
	case "savedWeight":
		return s.SavedWeight
	case "postedCount":
		return float64(s.PostedCount)
	case "nightOwlActions":
		return float64(s.NightOwlActions)
	default:
		return 0
	}
}

// Settings are the user's notification preferences.
type Settings struct {
	ShowNearbyAlert     bool     `json:"show_nearby_alert"`
	SubscribedLocs      []string `json:"subscribed_locs"`
	SubscribedUsers     []string `json:"subscribed_users"`
	SubscribedFoodTypes []string `json:"subscribed_food_types"`
}

// Profile is the single user profile owned by the stats engine.
// UnlockedAchievements is append-only.
type Profile struct {
	Name                 string   `json:"name"`
	Department           string   `json:"department"`
	Avatar               string   `json:"avatar,omitempty"`
	Banner               string   `json:"banner,omitempty"`
	Stats                Stats    `json:"stats"`
	UnlockedAchievements []string `json:"unlocked_achievements"`
	Settings             Settings `json:"settings"`
}

// DefaultProfile is the profile a fresh install starts from.
func DefaultProfile() Profile {
	return Profile{
		Name:       "Campus Food Saver",
		Department: "",
		Stats: Stats{
			Level:        1,
			Exp:          0,
			NextLevelExp: 1000,
		},
		UnlockedAchievements: []string{},
		Settings: Settings{
			ShowNearbyAlert: true,
		},
	}
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.UnlockedAchievements = append([]string(nil), p.UnlockedAchievements...)
	out.Settings.SubscribedLocs = append([]string(nil), p.Settings.SubscribedLocs...)
	out.Settings.SubscribedUsers = append([]string(nil), p.Settings.SubscribedUsers...)
	out.Settings.SubscribedFoodTypes = append([]string(nil), p.Settings.SubscribedFoodTypes...)
	return out
}

// HasAchievement reports whether the achievement id is already unlocked.
func (p Profile) HasAchievement(id string) bool {
	for _, a := range p.UnlockedAchievements {
		if a == id {
			return true
		}
	}
	return false
}
