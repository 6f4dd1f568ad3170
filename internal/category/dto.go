package category

type CategoryRequest struct {
	Name string `json:"category_name" validate:"required,max=100"`
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type DeleteResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
