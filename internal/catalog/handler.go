package catalog

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	httperr "github.com/zmarties-lab/storefront-api/internal/core/errors"
	"github.com/zmarties-lab/storefront-api/internal/core/storage"
)

// RegisterPublicRoutes registers the shop-facing read endpoints.
func (s *Service) RegisterPublicRoutes(r gin.IRouter) {
	r.GET("/v1/products", s.ListHandler)
	r.GET("/v1/products/:id", s.GetHandler)
}

// RegisterAdminRoutes registers the write endpoints. Callers are expected
// to wrap r with the auth middleware.
func (s *Service) RegisterAdminRoutes(r gin.IRouter) {
	r.POST("/products", s.CreateHandler)
	r.PUT("/products/:id", s.UpdateHandler)
	r.DELETE("/products/:id", s.DeleteHandler)
	r.GET("/dashboard", s.DashboardHandler)
}

// ListHandler handles GET /v1/products. Query parameter: category.
func (s *Service) ListHandler(c *gin.Context) {
	products, err := s.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		s.writeError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetHandler handles GET /v1/products/:id.
func (s *Service) GetHandler(c *gin.Context) {
	product, err := s.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err, "Failed to load product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateHandler handles POST /v1/admin/products (multipart form).
// Fields: name, category, price, rate, flavour; files: images (one or
// more), video (optional).
func (s *Service) CreateHandler(c *gin.Context) {
	fields, media, ok := s.bindProductForm(c)
	if !ok {
		return
	}

	product, err := s.Create(c.Request.Context(), CreateProductRequest{
		Name:     fields.name,
		Category: fields.category,
		Price:    fields.price,
		Rate:     fields.rate,
		Flavour:  fields.flavour,
		Images:   media.images,
		Video:    media.video,
	})
	if err != nil {
		s.writeError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateHandler handles PUT /v1/admin/products/:id (multipart form).
func (s *Service) UpdateHandler(c *gin.Context) {
	fields, media, ok := s.bindProductForm(c)
	if !ok {
		return
	}

	product, err := s.Update(c.Request.Context(), c.Param("id"), UpdateProductRequest{
		Name:     fields.name,
		Category: fields.category,
		Price:    fields.price,
		Rate:     fields.rate,
		Flavour:  fields.flavour,
		Images:   media.images,
		Video:    media.video,
	})
	if err != nil {
		s.writeError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteHandler handles DELETE /v1/admin/products/:id.
func (s *Service) DeleteHandler(c *gin.Context) {
	if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DashboardHandler handles GET /v1/admin/dashboard.
func (s *Service) DashboardHandler(c *gin.Context) {
	stats, err := s.Dashboard(c.Request.Context())
	if err != nil {
		s.writeError(c, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, stats)
}

type productFormFields struct {
	name     string
	category string
	price    decimal.Decimal
	rate     int
	flavour  string
}

type productFormMedia struct {
	images [][]byte
	video  []byte
}

// bindProductForm parses the multipart product form. On failure it writes
// the 400 response itself and returns ok=false.
func (s *Service) bindProductForm(c *gin.Context) (productFormFields, productFormMedia, bool) {
	var fields productFormFields
	var files productFormMedia

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid multipart form",
			Details:   err.Error(),
		})
		return fields, files, false
	}

	fields.name = c.PostForm("name")
	fields.category = c.PostForm("category")
	fields.flavour = c.PostForm("flavour")

	fields.price, err = decimal.NewFromString(c.PostForm("price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid price",
			Details:   err.Error(),
		})
		return fields, files, false
	}

	if raw := c.PostForm("rate"); raw != "" {
		fields.rate, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidRequestError,
				Message:   "Invalid rate",
				Details:   err.Error(),
			})
			return fields, files, false
		}
	}

	for _, header := range form.File["images"] {
		data, err := readFormFile(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidRequestError,
				Message:   "Failed to read image upload",
				Details:   err.Error(),
			})
			return fields, files, false
		}
		files.images = append(files.images, data)
	}

	if videos := form.File["video"]; len(videos) > 0 {
		data, err := readFormFile(videos[0])
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidRequestError,
				Message:   "Failed to read video upload",
				Details:   err.Error(),
			})
			return fields, files, false
		}
		files.video = data
	}

	return fields, files, true
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

func (s *Service) writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Product not found",
		})
	case errors.Is(err, ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   message,
			Details:   err.Error(),
		})
	case errors.Is(err, ErrUploadFailed):
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpUploadFailedError,
			Message:   message,
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   message,
			Details:   err.Error(),
		})
	}
}
