package handlers

import (
	"net/http"

	"github.com/Dosada05/tennis-league/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

type registerRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Name        string   `json:"name" validate:"required,max=100"`
	Area        string   `json:"area" validate:"max=100"`
	SkillRating *float64 `json:"tennis_rating" validate:"omitempty,min=1,max=7"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Регистрация игрока
// @Tags auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Email, пароль от 8 символов, имя"
// @Success 201 {object} services.AuthResult
// @Failure 409 {object} map[string]string "Email уже занят"
// @Failure 422 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	result, err := h.authService.Register(r.Context(), services.RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		Name:        input.Name,
		Area:        input.Area,
		SkillRating: input.SkillRating,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, result)
}

// Login godoc
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Email и пароль"
// @Success 200 {object} services.AuthResult
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	result, err := h.authService.Login(r.Context(), services.LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}
