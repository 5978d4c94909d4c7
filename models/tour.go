package models

import "time"

const (
	TourDraft     = "draft"
	TourPublished = "published"
	TourArchived  = "archived"

	PackageUmrah    = "umrah"
	PackageStandard = "standard"
)

type ItineraryDay struct {
	Day         int    `json:"day" bson:"day"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
}

type GalleryImage struct {
	URL      string `json:"url" bson:"url"`
	ThumbURL string `json:"thumbUrl,omitempty" bson:"thumbUrl,omitempty"`
	PublicID string `json:"publicid" bson:"publicid"`
}

type Tour struct {
	TourID        string         `json:"tourid" bson:"tourid"`
	Title         string         `json:"title" bson:"title"`
	Category      string         `json:"category" bson:"category"`
	PackageType   string         `json:"packageType" bson:"packageType"`
	Price         float64        `json:"price" bson:"price"`
	Duration      string         `json:"duration,omitempty" bson:"duration,omitempty"`
	Dates         string         `json:"dates,omitempty" bson:"dates,omitempty"`
	Accommodation string         `json:"accommodation,omitempty" bson:"accommodation,omitempty"`
	Description   string         `json:"description,omitempty" bson:"description,omitempty"`
	Itinerary     []ItineraryDay `json:"itinerary,omitempty" bson:"itinerary,omitempty"`
	Gallery       []GalleryImage `json:"gallery,omitempty" bson:"gallery,omitempty"`
	Inclusions    []string       `json:"inclusions,omitempty" bson:"inclusions,omitempty"`
	Exclusions    []string       `json:"exclusions,omitempty" bson:"exclusions,omitempty"`
	Status        string         `json:"status" bson:"status"`
	CreatedBy     string         `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}

func ValidTourStatus(s string) bool {
	return s == TourDraft || s == TourPublished || s == TourArchived
}

func ValidPackageType(s string) bool {
	return s == PackageUmrah || s == PackageStandard
}
