package models

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gosimple/slug"
)

// Location is a fixed pickup point in the campus registry. The registry is
// reference data: the store never mutates it.
type Location struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// DefaultLocations covers the NTU campus pickup points the app ships with.
var DefaultLocations = []Location{
	{ID: "fu_bell", Name: "Fu Bell", Lat: 25.01737, Lng: 121.53915},
	{ID: "admin_bldg", Name: "Administration Building", Lat: 25.01725, Lng: 121.54045},
	{ID: "xiaofu_sq", Name: "Xiaofu Square", Lat: 25.01768, Lng: 121.53690},
	{ID: "common_studies", Name: "Common Studies Hall", Lat: 25.01575, Lng: 121.53765},
	{ID: "boya_bldg", Name: "Boya Teaching Hall", Lat: 25.01895, Lng: 121.53655},
	{ID: "gen_teaching_bldg", Name: "General Teaching Hall", Lat: 25.02085, Lng: 121.53735},
	{ID: "mech_eng_bldg", Name: "Mechanical Engineering Building", Lat: 25.01890, Lng: 121.54135},
	{ID: "main_lib", Name: "Main Library", Lat: 25.01615, Lng: 121.54055},
	{ID: "social_sci", Name: "College of Social Sciences", Lat: 25.02105, Lng: 121.54275},
	{ID: "ee_bldg_2", Name: "EE Building No. 2", Lat: 25.01875, Lng: 121.54315},
}

// FoodTypes is the fixed taxonomy a post's FoodType comes from.
var FoodTypes = []string{
	"Snacks & Bakery",
	"Meals & Staples",
	"Fruits & Vegetables",
	"Drinks & Soups",
	"Other",
}

// PredefinedTags is the suggested tag vocabulary; custom tags are also allowed.
var PredefinedTags = []string{
	"Vegetarian",
	"Lacto-ovo",
	"Meat",
	"Bring utensils",
	"Bring container",
	"Microwave needed",
}

// LoadLocations reads a location registry from a JSON file. Entries without an
// ID get one derived from their name. Falls back to DefaultLocations when the
// path is empty.
func LoadLocations(path string) ([]Location, error) {
	if path == "" {
		return DefaultLocations, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}

	var locs []Location
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("parse locations file: %w", err)
	}

	for i := range locs {
		if locs[i].Name == "" {
			return nil, fmt.Errorf("location %d has no name", i)
		}
		if locs[i].ID == "" {
			locs[i].ID = slug.Make(locs[i].Name)
		}
	}
	return locs, nil
}
