package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobly/internal/errcode"
	"jobly/internal/store"
)

// JobHandler 处理职位资源。
type JobHandler struct {
	jobs JobStore
}

func NewJobHandler(jobs JobStore) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// jobIDParam 解析路径中的职位 id。非数字的 id 不可能存在，按 404 处理。
func jobIDParam(c *gin.Context) (int, error) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errcode.NotFound("No job: %s", raw)
	}
	return id, nil
}

func (h *JobHandler) Create(c *gin.Context) {
	var req store.NewJob
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// List 支持 title、minSalary、hasEquity 过滤。
func (h *JobHandler) List(c *gin.Context) {
	filter, err := store.ParseJobFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	jobs, err := h.jobs.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) Get(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Update(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req store.JobUpdate
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobs.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *JobHandler) Delete(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.jobs.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
