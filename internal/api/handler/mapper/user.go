package mapper

import (
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/models"
)

type UserMapper interface {
	EntityToUserResponse(user models.User) response.UserResponseDTO
}

type userMapper struct{}

func NewUserMapper() UserMapper {
	return userMapper{}
}

func (m userMapper) EntityToUserResponse(user models.User) response.UserResponseDTO {
	return response.UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		Active:    user.Active,
	}
}
