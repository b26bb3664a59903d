package service

import (
	"errors"

	"blockgen"
	"blockgen/internal/api/handler/mapper"
	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/models"
	"blockgen/internal/api/repo"
	"blockgen/pkg"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo   UserStore
	config     blockgen.AppConfig
	logger     zerolog.Logger
	userMapper mapper.UserMapper
}

func NewUserService() *UserService {
	return &UserService{
		userRepo:   repo.NewUserRepository(),
		config:     blockgen.GetConfig(),
		logger:     blockgen.Logger,
		userMapper: mapper.NewUserMapper(),
	}
}

func (slf *UserService) Register(registerDTO request.RegisterDTO) (*response.AuthResponseDTO, error) {
	exists, err := slf.userRepo.ExistsByEmail(registerDTO.Email)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error checking if user exists")
		return nil, err
	}
	if exists {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerDTO.Password), bcrypt.DefaultCost)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}

	user := models.User{
		Email:     registerDTO.Email,
		Password:  string(hashedPassword),
		FirstName: registerDTO.FirstName,
		LastName:  registerDTO.LastName,
		Role:      models.RoleUser,
		Active:    true,
	}

	if err = slf.userRepo.Create(&user); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	authResponse, err := slf.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("User registered successfully")
	return authResponse, nil
}

func (slf *UserService) Login(loginDTO request.LoginDTO) (*response.AuthResponseDTO, error) {
	user, err := slf.userRepo.FindByEmail(loginDTO.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		slf.logger.Error().Err(err).Msg("Error finding user by email")
		return nil, err
	}

	if !user.Active {
		return nil, errors.New("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginDTO.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	authResponse, err := slf.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("User logged in successfully")
	return authResponse, nil
}

func (slf *UserService) GetByID(id uint) (response.UserResponseDTO, error) {
	user, err := slf.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.UserResponseDTO{}, errors.New("user not found")
		}
		slf.logger.Error().Err(err).Uint("userId", id).Msg("Error finding user by ID")
		return response.UserResponseDTO{}, err
	}

	return slf.userMapper.EntityToUserResponse(user), nil
}

func (slf *UserService) RefreshToken(refreshToken string) (*response.AuthResponseDTO, error) {
	claims, err := pkg.ValidateRefreshToken(refreshToken, slf.config.JWTConfig.Secret)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Invalid refresh token")
		return nil, errors.New("invalid or expired refresh token")
	}

	user, err := slf.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		slf.logger.Error().Err(err).Uint("userId", claims.UserID).Msg("Error finding user by ID")
		return nil, err
	}

	if !user.Active {
		return nil, errors.New("account is inactive")
	}

	if user.RefreshToken != refreshToken {
		slf.logger.Warn().Uint("userId", user.ID).Msg("Refresh token mismatch")
		return nil, errors.New("invalid refresh token")
	}

	authResponse, err := slf.issueTokens(&user)
	if err != nil {
		return nil, err
	}

	slf.logger.Info().Uint("userId", user.ID).Msg("Token refreshed successfully")
	return authResponse, nil
}

// issueTokens signs a new access/refresh pair and stores the refresh token
func (slf *UserService) issueTokens(user *models.User) (*response.AuthResponseDTO, error) {
	jwtConfig := slf.config.JWTConfig

	token, err := pkg.GenerateToken(user.ID, user.Email, string(user.Role), jwtConfig.Secret, jwtConfig.Expiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating token")
		return nil, err
	}

	refreshToken, err := pkg.GenerateRefreshToken(user.ID, jwtConfig.Secret, jwtConfig.RefreshExpiration)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error generating refresh token")
		return nil, err
	}

	user.RefreshToken = refreshToken
	if err = slf.userRepo.Update(user); err != nil {
		slf.logger.Error().Err(err).Msg("Error updating user with refresh token")
		return nil, err
	}

	return &response.AuthResponseDTO{
		Token:        token,
		RefreshToken: refreshToken,
		User:         slf.userMapper.EntityToUserResponse(*user),
	}, nil
}
