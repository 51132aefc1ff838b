package domain

import "time"

// Offer is a time-boxed promotion shown on the home and events screens.
type Offer struct {
	ID                 string    `json:"id"`
	TitleAr            string    `json:"titleAr"`
	DescriptionAr      string    `json:"descriptionAr,omitempty"`
	DiscountPercentage int       `json:"discountPercentage"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	IsActive           bool      `json:"isActive"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// News is an announcement post.
type News struct {
	ID            string    `json:"id"`
	TitleAr       string    `json:"titleAr"`
	ContentAr     string    `json:"contentAr"`
	PublishedDate time.Time `json:"publishedDate"`
	IsActive      bool      `json:"isActive"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
