package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/store"
)

// CompanyHandler 处理公司资源。
type CompanyHandler struct {
	companies CompanyStore
}

func NewCompanyHandler(companies CompanyStore) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Create 新建公司，仅管理员可用。
func (h *CompanyHandler) Create(c *gin.Context) {
	var req store.NewCompany
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.companies.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// List 支持 name、minEmployees、maxEmployees 过滤。
func (h *CompanyHandler) List(c *gin.Context) {
	filter, err := store.ParseCompanyFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	companies, err := h.companies.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companies.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req store.CompanyUpdate
	if !bindJSON(c, &req) {
		return
	}

	company, err := h.companies.Update(c.Request.Context(), c.Param("handle"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	handle := c.Param("handle")
	if err := h.companies.Remove(c.Request.Context(), handle); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": handle})
}
