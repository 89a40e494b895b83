package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	clientsvc "pawpals/internal/service/client"
)

type verifyTokenRequest struct {
	Token string `json:"token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *api) register(c *gin.Context) {
	var req clientsvc.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	client, err := a.deps.ClientSvc.Register(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "account created", "clientId": client.ID})
}

func (a *api) login(c *gin.Context) {
	var req clientsvc.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	session, err := a.deps.ClientSvc.Login(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.setTokenCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, session)
}

func (a *api) logout(c *gin.Context) {
	a.clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (a *api) verifyToken(c *gin.Context) {
	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		abortError(c, http.StatusUnauthorized, "token is required")
		return
	}
	client, err := a.deps.ClientSvc.Authenticate(c.Request.Context(), req.Token)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (a *api) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"client": currentClient(c)})
}

func (a *api) updateProfile(c *gin.Context) {
	var req clientsvc.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	session, err := a.deps.ClientSvc.UpdateProfile(c.Request.Context(), currentClient(c).ID, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.setTokenCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, session)
}

func (a *api) changePassword(c *gin.Context) {
	var req clientsvc.ChangePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := a.deps.ClientSvc.ChangePassword(c.Request.Context(), currentClient(c).ID, req); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (a *api) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := a.deps.ClientSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verification code sent"})
}

func (a *api) resetPassword(c *gin.Context) {
	var req clientsvc.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := a.deps.ClientSvc.ResetPassword(c.Request.Context(), req); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

func (a *api) deleteAccount(c *gin.Context) {
	if err := a.deps.ClientSvc.DeleteAccount(c.Request.Context(), currentClient(c).ID); err != nil {
		a.writeError(c, err)
		return
	}
	a.clearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
