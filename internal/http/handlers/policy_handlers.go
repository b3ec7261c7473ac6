package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/domain"
)

// PolicyHandlers exposes role policy management to admins
type PolicyHandlers struct {
	policySvc domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policySvc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc}
}

type policyReq struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		ResponseType: "PolicyList",
		Message:      "Current policies.",
		Data:         h.policySvc.GetPolicies(),
	})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}
	if err := h.policySvc.AddPolicy(r.Role, r.Resource, r.Action); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}
	if err := h.policySvc.RemovePolicy(r.Role, r.Resource, r.Action); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
