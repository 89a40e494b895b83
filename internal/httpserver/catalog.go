package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pawpals/internal/domain"
)

func (a *api) listCategories(c *gin.Context) {
	categories, err := a.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (a *api) listProducts(c *gin.Context) {
	filter, ok := productFilter(c)
	if !ok {
		return
	}
	products, err := a.deps.ProductSvc.List(c.Request.Context(), filter)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (a *api) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := a.deps.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func productFilter(c *gin.Context) (domain.ProductFilter, bool) {
	var f domain.ProductFilter
	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			badRequest(c, "invalid categoryId")
			return f, false
		}
		f.CategoryID = &id
	}
	if raw := strings.TrimSpace(c.Query("maxPrice")); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil || price.IsNegative() {
			badRequest(c, "invalid maxPrice")
			return f, false
		}
		f.MaxPrice = &price
	}
	f.Query = strings.TrimSpace(c.Query("q"))
	return f, true
}
