package menu

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu id"})
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
	case errors.Is(err, ErrImageExtMissing), errors.Is(err, ErrImageExtInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// --------------------------------------------------
// Public: list with filters
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	page, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func filterFromQuery(c *gin.Context) (Filter, error) {
	f := Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	floatParam := func(name string) (*float64, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New(name + " must be a number")
		}
		return &v, nil
	}
	intParam := func(name string) (int, error) {
		raw := c.Query(name)
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, errors.New(name + " must be an integer")
		}
		return v, nil
	}

	var err error
	if f.MinPrice, err = floatParam("min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = floatParam("max_price"); err != nil {
		return f, err
	}
	if raw := c.Query("max_cal"); raw != "" {
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return f, errors.New("max_cal must be an integer")
		}
		f.MaxCalories = &v
	}
	if f.Page, err = intParam("page"); err != nil {
		return f, err
	}
	if f.PerPage, err = intParam("per_page"); err != nil {
		return f, err
	}

	// sort=price:asc
	if sortParam := c.Query("sort"); sortParam != "" {
		field, order, _ := strings.Cut(sortParam, ":")
		f.SortField = field
		f.SortOrder = strings.ToLower(order)
	}

	f.Normalize()
	return f, nil
}

// --------------------------------------------------
// Public: single item
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// --------------------------------------------------
// Public: grouped by category
// mode=count (default) or mode=per_category&limit=N
// --------------------------------------------------
func (h *Handler) Categories(c *gin.Context) {
	perCategory := 0
	if c.DefaultQuery("mode", "count") == "per_category" {
		perCategory = 5
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 1 {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be a positive integer"})
				return
			}
			perCategory = v
		}
	}

	groups, err := h.service.GroupByCategory(c.Request.Context(), perCategory)
	if err != nil {
		h.fail(c, err)
		return
	}
	if groups == nil {
		groups = []CategorySummary{}
	}

	c.JSON(http.StatusOK, gin.H{"data": groups})
}

// --------------------------------------------------
// Staff: create / update / delete
// --------------------------------------------------
func (h *Handler) Create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	item, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu created successfully",
		"data":    item,
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu updated successfully",
		"data":    item,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted successfully"})
}

// --------------------------------------------------
// Staff: image upload (multipart field "image")
// --------------------------------------------------
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	defer file.Close()

	item, err := h.service.UploadImage(c.Request.Context(), id, file, header.Filename)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"data":    item,
	})
}

// --------------------------------------------------
// Staff: regenerate embeddings
// --------------------------------------------------
func (h *Handler) GenerateEmbeddings(c *gin.Context) {
	var req struct {
		Force bool  `json:"force"`
		ID    int64 `json:"id"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	report, err := h.service.GenerateEmbeddings(c.Request.Context(), req.Force, req.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
