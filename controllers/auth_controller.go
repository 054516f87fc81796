package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/pkg/resp"
	"github.com/igRoy3/SmartWasteManagement/services"
	"github.com/igRoy3/SmartWasteManagement/utils"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Role      string `json:"role"`
}

func (ctl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	user, err := ctl.auth.Register(services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      req.Role,
	})
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	token, user, err := ctl.auth.Login(req.Email, req.Password)
	if err != nil {
		resp.Unauthorized(c, "invalid credentials")
		return
	}
	resp.OK(c, gin.H{"token": token, "user": user})
}

func (ctl *AuthController) Profile(c *gin.Context) {
	user, err := ctl.auth.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone_number"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if len(updates) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	user, err := ctl.auth.UpdateProfile(utils.CurrentUserID(c), updates)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}
	if err := ctl.auth.ChangePassword(utils.CurrentUserID(c), req.OldPassword, req.NewPassword); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "password changed"})
}

type fcmTokenRequest struct {
	Token string `json:"token"`
}

func (ctl *AuthController) RegisterFCMToken(c *gin.Context) {
	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid payload: "+err.Error())
		return
	}
	if err := ctl.auth.RegisterDevice(utils.CurrentUserID(c), req.Token); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "token registered"})
}
