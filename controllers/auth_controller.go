package controllers

import (
	"github.com/Ram-SrinivasChandran/cos-spring-project/entity"
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/resp"
	"github.com/Ram-SrinivasChandran/cos-spring-project/services"
	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Svc: s} }

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id": u.ID, "email": u.Email, "firstName": u.FirstName,
		"lastName": u.LastName, "role": u.Role,
	}
}

// POST /auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := a.Svc.Register(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, userJSON(user))
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, user, err := a.Svc.Login(req.Email, req.Password)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"token": token, "user": userJSON(user)})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Svc.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, userJSON(user))
}
