package models

import "time"

// Post lifecycle: available → reserved → taken, or available → taken directly.
// There is no transition out of taken; taken posts are removed by the expiry sweep.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusTaken     = "taken"
)

// Post is a single food-sharing listing.
type Post struct {
	ID             string     `json:"id"`
	FoodType       string     `json:"food_type"`
	Quantity       int        `json:"quantity"`
	Unit           string     `json:"unit"`
	Tags           []string   `json:"tags"`
	LocationID     string     `json:"location_id"`
	LocationDetail string     `json:"location_detail"`
	ImageURL       string     `json:"image_url"`
	Status         string     `json:"status"`
	PickupTime     time.Time  `json:"pickup_time"`
	ExpireTime     time.Time  `json:"expire_time"`
	Timestamp      time.Time  `json:"timestamp"`
	TakenAt        *time.Time `json:"taken_at,omitempty"`
}

// PostDraft is the caller-supplied part of a new post. The store assigns
// ID, Status and Timestamp on acceptance.
type PostDraft struct {
	FoodType       string    `json:"food_type"`
	Quantity       int       `json:"quantity"`
	Unit           string    `json:"unit"`
	Tags           []string  `json:"tags"`
	LocationID     string    `json:"location_id"`
	LocationDetail string    `json:"location_detail"`
	ImageURL       string    `json:"image_url"`
	PickupTime     time.Time `json:"pickup_time"`
	ExpireTime     time.Time `json:"expire_time"`
}

// Clone returns a deep copy so callers can never mutate store-owned state.
func (p Post) Clone() Post {
	out := p
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	if p.TakenAt != nil {
		t := *p.TakenAt
		out.TakenAt = &t
	}
	return out
}

// ClonePosts deep-copies a whole collection.
func ClonePosts(posts []Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
