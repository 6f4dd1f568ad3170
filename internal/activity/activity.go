package activity

import (
	"time"

	activityDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/activity"
)

// SystemActor is recorded when a change has no request identity behind it,
// e.g. seeding or background refreshes.
const SystemActor = "system"

type Activity struct {
	ID          int64     `json:"id"`
	Title       string    `json:"activity_title"`
	Description string    `json:"activity_description"`
	ByUser      string    `json:"byUser"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewActivity(title, description, byUser string) *Activity {
	if byUser == "" {
		byUser = SystemActor
	}
	return &Activity{
		Title:       title,
		Description: description,
		ByUser:      byUser,
		Timestamp:   time.Now().UTC(),
	}
}

func ToDataModel(a *Activity) *activityDatamodel.ActivityLog {
	return &activityDatamodel.ActivityLog{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		ByUser:      a.ByUser,
		Timestamp:   a.Timestamp,
	}
}

func FromDataModel(a *activityDatamodel.ActivityLog) *Activity {
	return &Activity{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		ByUser:      a.ByUser,
		Timestamp:   a.Timestamp,
	}
}
