package entity

import "time"

const (
	AvailabilityWeekends = "Weekends"
	AvailabilityEvenings = "Evenings"
	AvailabilityWeekdays = "Weekdays"
)

type ContactInfo struct {
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" firestore:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty" firestore:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty" firestore:"portfolio,omitempty"`
}

// Feedback is a single review left on a user's profile after a completed swap.
type Feedback struct {
	From       string    `json:"from" firestore:"from"`
	FromUserID string    `json:"from_user_id" firestore:"fromUserId"`
	Rating     int       `json:"rating" firestore:"rating"` // 1-5
	Comment    string    `json:"comment" firestore:"comment"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}

type User struct {
	UID             string   `json:"uid" firestore:"uid"`
	Name            string   `json:"name" firestore:"name"`
	Email           string   `json:"email" firestore:"email"`
	Location        string   `json:"location,omitempty" firestore:"location,omitempty"`
	SkillsOffered   []string `json:"skills_offered" firestore:"skillsOffered"`
	SkillsWanted    []string `json:"skills_wanted" firestore:"skillsWanted"`
	Availability    string   `json:"availability" firestore:"availability"` // "Weekends", "Evenings", "Weekdays"
	ProfilePhotoURL string   `json:"profile_photo_url,omitempty" firestore:"profilePhotoUrl,omitempty"`
	Visibility      string   `json:"visibility" firestore:"visibility"` // "public" or "private"

	Rating   float64    `json:"rating" firestore:"rating"` // mean of Feedback ratings
	Feedback []Feedback `json:"feedback" firestore:"feedback"`

	IsBanned bool   `json:"is_banned" firestore:"isBanned"`
	Role     string `json:"role" firestore:"role"` // "user" or "admin"

	ContactInfo *ContactInfo `json:"contact_info,omitempty" firestore:"contactInfo,omitempty"`

	IsProfileComplete bool      `json:"is_profile_complete" firestore:"isProfileComplete"`
	CreatedAt         time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updatedAt"`
}
