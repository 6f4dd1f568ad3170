package user

type CreateUserRequest struct {
	UID      string `json:"uid" validate:"omitempty,max=128"`
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest carries the id in the body; empty fields are left unchanged.
type UpdateUserRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type DeleteUserRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type UsersResponse struct {
	Users []*User `json:"users"`
}

type DeleteResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
