package permission

type CheckRequest struct {
	ActivityTitle string `json:"activityTitle"`
}

type CheckResponse struct {
	Success bool `json:"success"`
}

type CatalogResponse struct {
	Permissions []string `json:"permissions"`
}
