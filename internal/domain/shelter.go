package domain

import "time"

type ShelterRecord struct {
	ShelterID string    `json:"shelter_id"`
	Name      string    `json:"name"`
	SourceURL string    `json:"source_url"`
	PostURL   string    `json:"post_url,omitempty"`
	City      string    `json:"city"`
	Info      string    `json:"info"`
	PostDate  time.Time `json:"post_date"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	UserID    string    `json:"user_id"`
	ShelterID string    `json:"shelter_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoritePost struct {
	ShelterID   string    `json:"shelter_id"`
	PostURL     string    `json:"post_url"`
	Text        string    `json:"text"`
	PublishedAt time.Time `json:"published_at"`
	FoundAt     time.Time `json:"found_at"`
}
