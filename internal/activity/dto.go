package activity

type ActivityRequest struct {
	Title       string `json:"activity_title" validate:"required,max=200"`
	Description string `json:"activity_description" validate:"max=2000"`
}

type ActivitiesResponse struct {
	Activities []*Activity `json:"activities"`
}
