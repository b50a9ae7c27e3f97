package services

import (
	"food-share-system/models"
	"food-share-system/utils"
)

// AlertDistanceMeters is how close an available post must be to trigger the
// nearby alert.
const AlertDistanceMeters = 400

// NearbyPost is a post decorated with live distance information.
type NearbyPost struct {
	models.Post
	DistanceMeters int `json:"distance_meters"`
	WalkingMinutes int `json:"walking_minutes"`
}

// ProximityService resolves post locations against the static registry and
// computes distances to a user position.
type ProximityService struct {
	index map[string]models.Location
}

func NewProximityService(locations []models.Location) *ProximityService {
	index := make(map[string]models.Location, len(locations))
	for _, loc := range locations {
		index[loc.ID] = loc
	}
	return &ProximityService{index: index}
}

// LocationOf resolves a post's location id.
func (s *ProximityService) LocationOf(id string) (models.Location, bool) {
	loc, ok := s.index[id]
	return loc, ok
}

// Decorate attaches distance and walking time to every post whose location is
// known. Posts with an unknown location are passed through with -1 distance.
func (s *ProximityService) Decorate(posts []models.Post, lat, lng float64) []NearbyPost {
	out := make([]NearbyPost, 0, len(posts))
	for _, p := range posts {
		np := NearbyPost{Post: p, DistanceMeters: -1}
		if loc, ok := s.index[p.LocationID]; ok {
			np.DistanceMeters = utils.Distance(lat, lng, loc.Lat, loc.Lng)
			np.WalkingMinutes = utils.WalkingMinutes(np.DistanceMeters)
		}
		out = append(out, np)
	}
	return out
}

// NearestAvailable returns the closest available post within the alert
// radius, or nil when none qualifies.
func (s *ProximityService) NearestAvailable(posts []models.Post, lat, lng float64) *NearbyPost {
	var closest *NearbyPost
	minDistance := AlertDistanceMeters + 1

	for _, p := range posts {
		if p.Status != models.StatusAvailable {
			continue
		}
		loc, ok := s.index[p.LocationID]
		if !ok {
			continue
		}
		distance := utils.Distance(lat, lng, loc.Lat, loc.Lng)
		if distance < AlertDistanceMeters && distance < minDistance {
			minDistance = distance
			closest = &NearbyPost{
				Post:           p.Clone(),
				DistanceMeters: distance,
				WalkingMinutes: utils.WalkingMinutes(distance),
			}
		}
	}
	return closest
}
