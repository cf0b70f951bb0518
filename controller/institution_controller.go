package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type InstitutionController struct {
	institutionService service.IInstitutionService
}

func NewInstitutionController(institutionService service.IInstitutionService) *InstitutionController {
	return &InstitutionController{institutionService: institutionService}
}

// CreateInstitution endpoint
func (ic *InstitutionController) CreateInstitution(c *gin.Context) {
	var institution model.Institution
	if err := c.ShouldBindJSON(&institution); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid institution data", err)
		return
	}

	created, err := ic.institutionService.CreateInstitution(c, institution)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetInstitution endpoint
func (ic *InstitutionController) GetInstitution(c *gin.Context) {
	institution, err := ic.institutionService.GetInstitution(c, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, institution)
}

// ListInstitutions endpoint
func (ic *InstitutionController) ListInstitutions(c *gin.Context) {
	institutions, err := ic.institutionService.ListInstitutions(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, institutions)
}
