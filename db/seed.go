// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-dine/models"
)

// catalogNamespace derives stable restaurant ids from names so reseeding
// never duplicates rows.
var catalogNamespace = uuid.MustParse("6f1c2a4e-0b7d-4c55-9d3e-2f8a1b6c7d90")

// RestaurantID returns the seeded id for a restaurant name.
func RestaurantID(name string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(name)).String()
}

// SampleRestaurants returns the starter catalog. It also serves as the
// default candidate list when the catalog cannot be queried.
func SampleRestaurants() []models.Restaurant {
	list := []models.Restaurant{
		{
			Name:           "The Spice Garden",
			Cuisine:        "Indian",
			Description:    "Authentic Indian cuisine with a modern twist. Known for their flavorful curries and fresh naan.",
			PriceRange:     "$$",
			Rating:         4.5,
			DietaryOptions: []string{"vegetarian", "vegan", "gluten-free"},
			SpiceLevel:     models.SpiceHigh,
			Tags:           []string{"spicy", "vegetarian-friendly", "family-friendly"},
			Location:       models.Location{Address: "123 Main St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Sushi Zen",
			Cuisine:        "Japanese",
			Description:    "Fresh sushi and sashimi in a minimalist setting. Omakase available.",
			PriceRange:     "$$$",
			Rating:         4.8,
			DietaryOptions: []string{"pescatarian", "gluten-free"},
			SpiceLevel:     models.SpiceLow,
			Tags:           []string{"fresh", "upscale", "date-night"},
			Location:       models.Location{Address: "456 Queen St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Green Leaf Cafe",
			Cuisine:        "Mediterranean",
			Description:    "Healthy Mediterranean fare with plenty of vegetarian and vegan options.",
			PriceRange:     "$$",
			Rating:         4.3,
			DietaryOptions: []string{"vegetarian", "vegan", "gluten-free", "halal"},
			SpiceLevel:     models.SpiceMedium,
			Tags:           []string{"healthy", "vegetarian-friendly", "casual"},
			Location:       models.Location{Address: "789 King St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Burger Palace",
			Cuisine:        "American",
			Description:    "Classic burgers, fries, and milkshakes. Comfort food at its finest.",
			PriceRange:     "$",
			Rating:         4.2,
			DietaryOptions: []string{},
			SpiceLevel:     models.SpiceNone,
			Tags:           []string{"casual", "family-friendly", "comfort-food"},
			Location:       models.Location{Address: "321 College St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Taco Fiesta",
			Cuisine:        "Mexican",
			Description:    "Authentic Mexican street food with bold flavors and fresh ingredients.",
			PriceRange:     "$$",
			Rating:         4.6,
			DietaryOptions: []string{"vegetarian", "gluten-free"},
			SpiceLevel:     models.SpiceHigh,
			Tags:           []string{"spicy", "casual", "authentic"},
			Location:       models.Location{Address: "654 Spadina Ave", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Pasta Paradise",
			Cuisine:        "Italian",
			Description:    "Handmade pasta and wood-fired pizza in a cozy trattoria.",
			PriceRange:     "$$",
			Rating:         4.4,
			DietaryOptions: []string{"vegetarian"},
			SpiceLevel:     models.SpiceLow,
			Tags:           []string{"romantic", "family-friendly", "comfort-food"},
			Location:       models.Location{Address: "987 Bloor St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Dragon Wok",
			Cuisine:        "Chinese",
			Description:    "Sichuan and Cantonese classics served family style.",
			PriceRange:     "$$",
			Rating:         4.5,
			DietaryOptions: []string{"vegetarian"},
			SpiceLevel:     models.SpiceHigh,
			Tags:           []string{"spicy", "family-style", "authentic"},
			Location:       models.Location{Address: "147 Yonge St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "The Vegan Table",
			Cuisine:        "Vegan",
			Description:    "Plant-based comfort food and seasonal bowls.",
			PriceRange:     "$$",
			Rating:         4.7,
			DietaryOptions: []string{"vegan", "vegetarian", "gluten-free"},
			SpiceLevel:     models.SpiceMedium,
			Tags:           []string{"vegan", "healthy", "trendy"},
			Location:       models.Location{Address: "258 Dundas St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Steakhouse Prime",
			Cuisine:        "Steakhouse",
			Description:    "Dry-aged steaks and an extensive wine list.",
			PriceRange:     "$$$$",
			Rating:         4.9,
			DietaryOptions: []string{},
			SpiceLevel:     models.SpiceNone,
			Tags:           []string{"upscale", "date-night", "special-occasion"},
			Location:       models.Location{Address: "369 Bay St", City: "Toronto", State: "ON"},
		},
		{
			Name:           "Falafel Express",
			Cuisine:        "Middle Eastern",
			Description:    "Falafel, shawarma and fresh salads, fast.",
			PriceRange:     "$",
			Rating:         4.3,
			DietaryOptions: []string{"vegetarian", "vegan", "halal", "kosher"},
			SpiceLevel:     models.SpiceMedium,
			Tags:           []string{"quick", "vegetarian-friendly", "authentic"},
			Location:       models.Location{Address: "741 Danforth Ave", City: "Toronto", State: "ON"},
		},
	}

	for i := range list {
		list[i].ID = RestaurantID(list[i].Name)
		list[i].Source = models.SourceManual
	}
	return list
}
