// internal/api/client_handler.go
package api

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/service"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type CreateClientRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	Goals       string `json:"goals"`
	Notes       string `json:"notes"`
}

// UpdateClientRequest only touches the fields present in the body.
// An empty string clears the field.
type UpdateClientRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Goals       *string `json:"goals"`
	Notes       *string `json:"notes"`
}

// --- Handler Methods ---

// CreateClient godoc
// @Summary Register a new client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} gin.H "Invalid input"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	trainerID, err := getTrainerIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify trainer.")
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	input := service.ClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Goals: req.Goals,
		Notes: req.Notes,
	}
	if strings.TrimSpace(req.DateOfBirth) != "" {
		dob, err := domain.ParseDate(req.DateOfBirth, time.UTC)
		if err != nil {
			respondError(c, err)
			return
		}
		input.DateOfBirth = &dob
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), trainerID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// ListClients godoc
// @Summary List clients, newest first, with workout and measurement counts
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ClientSummary
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.clientService.GetClientDetail(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, service.ClientPatch{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Goals:       req.Goals,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient removes the client with all of its workouts and measurements.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
