package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	useCase usecase.AuthUseCase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// tokenForm follows the OAuth2 password grant field names.
type tokenForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, authenticated gin.HandlerFunc) {
	group := router.Group("/auth")
	{
		group.POST("/register", h.Register)
		group.POST("/token", h.IssueToken)
		group.GET("/read_current_user", authenticated, h.ReadCurrentUser)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Handler: Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, h.log, "register", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "User registered successfully", user)
}

// IssueToken answers with a bare OAuth2 token body so that standard clients
// can use the endpoint as a password grant token URL.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBind(&form); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, err := h.useCase.IssueToken(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		respondError(c, h.log, "issue token", err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) ReadCurrentUser(c *gin.Context) {
	identity, err := h.useCase.CurrentUser(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, h.log, "read current user", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", identity)
}
