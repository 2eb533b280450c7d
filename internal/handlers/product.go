package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/auth"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/httpx"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
	"github.com/lucaslmp2/EsfihariaMixPDV/internal/services"
)

var searchSanitizer = regexp.MustCompile(`[^\pL0-9 \-_]`)

type ProductHandler struct {
	DB    *gorm.DB
	Audit *services.AuditRecorder
}

func NewProductHandler(db *gorm.DB, audit *services.AuditRecorder) *ProductHandler {
	return &ProductHandler{DB: db, Audit: audit}
}

type productInput struct {
	Name        string           `json:"name"`
	SKU         string           `json:"sku"`
	Price       decimal.Decimal  `json:"price"`
	CostPrice   decimal.Decimal  `json:"cost_price"`
	Stock       int              `json:"stock"`
	Active      *bool            `json:"active"`
	CategoryID  uint             `json:"category_id"`
	Complements []complementInput `json:"complements"`
}

type complementInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Products dispatches /products by method.
func (h *ProductHandler) Products(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut, http.MethodPatch:
		h.update(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	pageSize := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			pageSize = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * pageSize
		}
	}
	dbq := h.DB.Model(&models.Product{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		safe := searchSanitizer.ReplaceAllString(q, "")
		like := "%" + strings.ToLower(safe) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(sku) LIKE ?", like, like)
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dbq = dbq.Where("category_id = ?", n)
		}
	}
	if v := r.URL.Query().Get("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			dbq = dbq.Where("active = ?", b)
		}
	}
	var total int64
	dbq.Count(&total)
	var products []models.Product
	if err := dbq.Preload("Category").Preload("Complements").
		Order("name asc").Limit(pageSize).Offset(offset).Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": total, "limit": pageSize, "offset": offset})
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Name == "" || input.Price.IsNegative() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required", "price": "must not be negative"})
		return
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	p := models.Product{
		Name:       input.Name,
		SKU:        strings.ToUpper(strings.TrimSpace(input.SKU)),
		Price:      input.Price,
		CostPrice:  input.CostPrice,
		Stock:      input.Stock,
		Active:     active,
		CategoryID: input.CategoryID,
	}
	for _, c := range input.Complements {
		p.Complements = append(p.Complements, models.ProductComplement{Name: c.Name, Price: c.Price})
	}
	if err := h.DB.Create(&p).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.Audit.Record(uid, "Product", strconv.Itoa(int(p.ID)), "create", nil, p)
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.Preload("Complements").First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	before := p
	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.SKU != "" {
		p.SKU = strings.ToUpper(strings.TrimSpace(input.SKU))
	}
	if !input.Price.IsZero() {
		p.Price = input.Price
	}
	if !input.CostPrice.IsZero() {
		p.CostPrice = input.CostPrice
	}
	if input.Stock != 0 {
		p.Stock = input.Stock
	}
	if input.Active != nil {
		p.Active = *input.Active
	}
	if input.CategoryID != 0 {
		p.CategoryID = input.CategoryID
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if input.Complements != nil {
			if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductComplement{}).Error; err != nil {
				return err
			}
			p.Complements = nil
			for _, c := range input.Complements {
				p.Complements = append(p.Complements, models.ProductComplement{ProductID: p.ID, Name: c.Name, Price: c.Price})
			}
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.Audit.Record(uid, "Product", strconv.Itoa(int(p.ID)), "update", before, p)
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := queryID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Product
	if err := h.DB.First(&p, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductComplement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	h.Audit.Record(uid, "Product", strconv.Itoa(int(id)), "delete", p, nil)
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Categories handles /categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var categories []models.Category
		if err := h.DB.Order("name asc").Find(&categories).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_categories", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, categories)
	case http.MethodPost:
		var input struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || strings.TrimSpace(input.Name) == "" {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
			return
		}
		c := models.Category{Name: strings.TrimSpace(input.Name)}
		if err := h.DB.Create(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
				httpx.JSONError(w, http.StatusConflict, "category_already_exists", nil)
				return
			}
			httpx.JSONError(w, http.StatusInternalServerError, "category_create_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusCreated, c)
	case http.MethodDelete:
		id := queryID(r)
		if id == 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		var count int64
		h.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&count)
		if count > 0 {
			httpx.JSONError(w, http.StatusConflict, "category_in_use", map[string]int64{"products": count})
			return
		}
		if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func queryID(r *http.Request) uint {
	n, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || n <= 0 {
		return 0
	}
	return uint(n)
}
