package types

import (
	"time"
)

const RequestStatusRequested = "requested"

// Person is the contact block embedded in needs and requests for organizers and volunteers.
type Person struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Email string `json:"email" bson:"email" validate:"required,email"`
	Photo string `json:"photo,omitempty" bson:"photo,omitempty"`
}

type VolunteerNeed struct {
	ID               string    `json:"_id,omitempty"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	PostTitle        string    `json:"postTitle" validate:"required"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	Location         string    `json:"location,omitempty"`
	VolunteersNeeded int       `json:"volunteersNeeded" validate:"gte=0"`
	Deadline         time.Time `json:"deadline" validate:"required"`
	Organizer        Person    `json:"organizer"`
}

// VolunteerNeedUpdate is the body of a need update. Only the non-nil fields are written, so
// a partial update leaves the rest of the stored need, including its live counter, intact.
type VolunteerNeedUpdate struct {
	Thumbnail        *string    `json:"thumbnail,omitempty"`
	PostTitle        *string    `json:"postTitle,omitempty" validate:"omitnil,min=1"`
	Description      *string    `json:"description,omitempty"`
	Category         *string    `json:"category,omitempty"`
	Location         *string    `json:"location,omitempty"`
	VolunteersNeeded *int       `json:"volunteersNeeded,omitempty" validate:"omitnil,gte=0"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	Organizer        *Person    `json:"organizer,omitempty"`
}

func (u VolunteerNeedUpdate) IsEmpty() bool {
	return u.Thumbnail == nil && u.PostTitle == nil && u.Description == nil &&
		u.Category == nil && u.Location == nil && u.VolunteersNeeded == nil &&
		u.Deadline == nil && u.Organizer == nil
}

// Apply copies the supplied fields onto need.
func (u VolunteerNeedUpdate) Apply(need *VolunteerNeed) {
	if u.Thumbnail != nil {
		need.Thumbnail = *u.Thumbnail
	}
	if u.PostTitle != nil {
		need.PostTitle = *u.PostTitle
	}
	if u.Description != nil {
		need.Description = *u.Description
	}
	if u.Category != nil {
		need.Category = *u.Category
	}
	if u.Location != nil {
		need.Location = *u.Location
	}
	if u.VolunteersNeeded != nil {
		need.VolunteersNeeded = *u.VolunteersNeeded
	}
	if u.Deadline != nil {
		need.Deadline = *u.Deadline
	}
	if u.Organizer != nil {
		need.Organizer = *u.Organizer
	}
}

type VolunteerRequest struct {
	ID          string    `json:"_id,omitempty"`
	VolunteerID string    `json:"volunteerId" validate:"required"`
	PostTitle   string    `json:"postTitle,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Location    string    `json:"location,omitempty"`
	Deadline    time.Time `json:"deadline"`
	Organizer   Person    `json:"organizer"`
	Volunteer   Person    `json:"volunteer"`
	Suggestion  string    `json:"suggestion,omitempty"`
	Status      string    `json:"status"`
}

// RequestStatusUpdate holds the fields of a request that may be patched after submission.
// Nil fields are left untouched.
type RequestStatusUpdate struct {
	Status     *string `json:"status,omitempty"`
	Suggestion *string `json:"suggestion,omitempty"`
}

func (u RequestStatusUpdate) IsEmpty() bool {
	return u.Status == nil && u.Suggestion == nil
}
