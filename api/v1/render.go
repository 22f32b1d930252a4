package v1

import (
	"net/http"
	"strconv"

	"github.com/munyanyaguo/Hisi-Studio/pkg/e"
	"github.com/munyanyaguo/Hisi-Studio/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Every endpoint responds with the same envelope:
// {"success": bool, "message": string, "data": ...}.

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination is nested under data for list endpoints.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, response{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, response{Success: true, Message: message, Data: data})
}

// List wraps items and pagination under data.
func List(c *gin.Context, message string, items interface{}, p Pagination) {
	OK(c, message, gin.H{"items": items, "pagination": p})
}

// Fail maps a domain error to its HTTP status. Internal causes are logged
// server-side and never leak to the client.
func Fail(c *gin.Context, err error) {
	de := e.Wrap(err)
	if de.Kind == e.KindInternal {
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", de.Err)
	}
	c.JSON(de.HTTPStatus(), response{Success: false, Message: de.Msg})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, response{Success: false, Message: message})
}

// PageParams parses ?page= and ?per_page= with sane bounds.
func PageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
