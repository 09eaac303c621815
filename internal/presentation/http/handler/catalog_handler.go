package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/cafepos-api/internal/application/service"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/cafepos-api/internal/presentation/http/dto/response"
)

// maxImportSize bounds uploaded product workbooks
const maxImportSize = 5 << 20

// CatalogHandler serves the menu and its products, add-ons and upgrades
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GetMenu returns the available products grouped by description type
func (h *CatalogHandler) GetMenu(c *gin.Context) {
	menu, err := h.catalogService.GetMenu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu retrieved successfully", menu)
}

// ListProducts handles listing products
// @Summary List Products
// @Tags products
// @Security BearerAuth
// @Param search query string false "Search by name"
// @Param category query string false "Category"
// @Param description_type query string false "Menu section"
// @Param available query bool false "Only available products"
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.Query("available"))
	result, err := h.catalogService.ListProducts(c.Request.Context(), &repository.ProductFilterParams{
		Pagination:      pageParams(c),
		Search:          c.Query("search"),
		Category:        c.Query("category"),
		DescriptionType: c.Query("description_type"),
		AvailableOnly:   availableOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved successfully", product)
}

func productInput(req *request.ProductRequest) *service.ProductInput {
	return &service.ProductInput{
		Name:            req.Name,
		Category:        req.Category,
		Price:           req.Price,
		DescriptionType: req.DescriptionType,
		IsAvailable:     req.IsAvailable,
	}
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req request.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalogService.CreateProduct(c.Request.Context(), productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created successfully", product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req request.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product updated successfully", product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product deleted successfully", nil)
}

// ImportProducts reads products from an uploaded .xlsx in the "file" form field
func (h *CatalogHandler) ImportProducts(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A workbook must be uploaded in the file field")
		return
	}
	if fh.Size > maxImportSize {
		response.BadRequest(c, "Workbook is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer f.Close()

	result, err := h.catalogService.ImportProducts(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Products imported", result)
}

func optionInput(req *request.OptionRequest) *service.OptionInput {
	return &service.OptionInput{Name: req.Name, Price: req.Price, IsAvailable: req.IsAvailable}
}

func (h *CatalogHandler) ListAddons(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.Query("available"))
	addons, err := h.catalogService.ListAddons(c.Request.Context(), availableOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Add-ons retrieved successfully", addons)
}

func (h *CatalogHandler) CreateAddon(c *gin.Context) {
	var req request.OptionRequest
	if !bindJSON(c, &req) {
		return
	}
	addon, err := h.catalogService.CreateAddon(c.Request.Context(), optionInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Add-on created successfully", addon)
}

func (h *CatalogHandler) UpdateAddon(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req request.OptionRequest
	if !bindJSON(c, &req) {
		return
	}
	addon, err := h.catalogService.UpdateAddon(c.Request.Context(), id, optionInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Add-on updated successfully", addon)
}

func (h *CatalogHandler) DeleteAddon(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteAddon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Add-on deleted successfully", nil)
}

func (h *CatalogHandler) ListUpgrades(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.Query("available"))
	upgrades, err := h.catalogService.ListUpgrades(c.Request.Context(), availableOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Upgrades retrieved successfully", upgrades)
}

func (h *CatalogHandler) CreateUpgrade(c *gin.Context) {
	var req request.OptionRequest
	if !bindJSON(c, &req) {
		return
	}
	upgrade, err := h.catalogService.CreateUpgrade(c.Request.Context(), optionInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Upgrade created successfully", upgrade)
}

func (h *CatalogHandler) UpdateUpgrade(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req request.OptionRequest
	if !bindJSON(c, &req) {
		return
	}
	upgrade, err := h.catalogService.UpdateUpgrade(c.Request.Context(), id, optionInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Upgrade updated successfully", upgrade)
}

func (h *CatalogHandler) DeleteUpgrade(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteUpgrade(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Upgrade deleted successfully", nil)
}
