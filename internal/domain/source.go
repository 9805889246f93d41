package domain

type Source struct {
	ID          string
	ScreenName  string
	Name        string
	Description string
	URL         string
	City        string
	AvatarURL   string
	Closed      bool
}
