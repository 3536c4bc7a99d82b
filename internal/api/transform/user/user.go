package user

import (
	"github.com/shopmesh/shopmesh/internal/api/storeapi"
	"github.com/shopmesh/shopmesh/internal/model"
)

func ToAPI(u *model.User) storeapi.UserResponse {
	return storeapi.UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
	}
}
