package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
	helper_util "github.com/Aisenh037/MBC-sub002/util/helper"
)

type BranchController struct {
	branchService service.IBranchService
}

func NewBranchController(branchService service.IBranchService) *BranchController {
	return &BranchController{branchService: branchService}
}

// CreateBranch endpoint
func (bc *BranchController) CreateBranch(c *gin.Context) {
	var branch model.Branch
	if err := c.ShouldBindJSON(&branch); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid branch data", err)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	created, err := bc.branchService.CreateBranch(c, scope, branch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, created)
}

// GetBranch endpoint
func (bc *BranchController) GetBranch(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	branch, err := bc.branchService.GetBranch(c, scope, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, branch)
}

// UpdateBranch endpoint
func (bc *BranchController) UpdateBranch(c *gin.Context) {
	var branch model.Branch
	if err := c.ShouldBindJSON(&branch); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid branch data", err)
		return
	}
	branch.ID = c.Param("id")
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	updated, err := bc.branchService.UpdateBranch(c, scope, branch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, updated)
}

// DeleteBranch endpoint
func (bc *BranchController) DeleteBranch(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	if err := bc.branchService.DeleteBranch(c, scope, c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondMessage(c, http.StatusOK, nil, "Branch deleted")
}

// ListBranches endpoint
func (bc *BranchController) ListBranches(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", apperrors.ErrInvalidPagination)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	branches, err := bc.branchService.ListBranches(c, scope, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, branches)
}
