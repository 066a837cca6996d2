package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/HamzaAshfaq01/sellsgoods/internal/adapter/storage"
	"github.com/HamzaAshfaq01/sellsgoods/internal/domain/entity"
	"github.com/HamzaAshfaq01/sellsgoods/internal/middleware"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/metrics"
	"github.com/HamzaAshfaq01/sellsgoods/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxUploadFormSize = 32 << 20

type ProductHandler struct {
	catalog service.CatalogService
	store   storage.Storage
	m       *metrics.Manager
	log     logger.Logger
}

func NewProductHandler(catalog service.CatalogService, store storage.Storage, m *metrics.Manager, log logger.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, store: store, m: m, log: log}
}

// saveUploads persists every "images" part and returns the stored paths.
func (h *ProductHandler) saveUploads(r *http.Request, existing int) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["images"]
	if existing+len(files) > service.MaxImagesPerProduct {
		return nil, fmt.Errorf("a product can have at most %d images: %w", service.MaxImagesPerProduct, service.ErrValidation)
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return paths, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return paths, err
		}
		path, err := h.store.Save(r.Context(), fh.Filename, data)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// discardUploads removes files saved before a later step failed.
func (h *ProductHandler) discardUploads(r *http.Request, paths []string) {
	for _, p := range paths {
		if err := h.store.RemoveIfExists(r.Context(), p); err != nil {
			h.log.Warnf("failed to discard uploaded file %s: %v", p, err)
		}
	}
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		writeError(w, fmt.Errorf("invalid multipart form: %w", service.ErrValidation))
		return
	}
	user := middleware.UserFromContext(r.Context())

	paths, err := h.saveUploads(r, 0)
	if err != nil {
		h.discardUploads(r, paths)
		writeError(w, err)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		h.discardUploads(r, paths)
		writeError(w, fmt.Errorf("invalid price: %w", service.ErrValidation))
		return
	}
	negotiable, _ := strconv.ParseBool(r.FormValue("negotiable"))

	product, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Condition:   entity.Condition(r.FormValue("condition")),
		Category:    r.FormValue("category"),
		Tags:        splitList(r.Form["tags"]),
		Price:       price,
		Negotiable:  negotiable,
		Location: entity.Location{
			Area: r.FormValue("area"),
			City: r.FormValue("city"),
		},
		Contact: entity.Contact{
			Name:  r.FormValue("contactName"),
			Email: r.FormValue("contactEmail"),
			Phone: r.FormValue("contactPhone"),
		},
		ImagePaths: paths,
		SellerID:   user.ID.Hex(),
	})
	if err != nil {
		h.discardUploads(r, paths)
		writeError(w, err)
		return
	}

	h.m.ProductsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	result, err := h.catalog.ListAll(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) HandleListSeller(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	page, limit := pageParams(r)
	result, err := h.catalog.ListSeller(r.Context(), user.ID.Hex(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// HandleUpdate accepts the same multipart form as create but treats every
// field as optional: absent fields keep their stored value.
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadFormSize); err != nil {
		writeError(w, fmt.Errorf("invalid multipart form: %w", service.ErrValidation))
		return
	}
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	patch := service.ProductPatch{
		ImagesToDelete: splitList(r.Form["imagesToDelete"]),
	}

	formString := func(key string) *string {
		if vals, ok := r.Form[key]; ok && len(vals) > 0 {
			return &vals[0]
		}
		return nil
	}

	patch.Title = formString("title")
	patch.Description = formString("description")
	if v := formString("condition"); v != nil {
		c := entity.Condition(*v)
		patch.Condition = &c
	}
	patch.Category = formString("category")
	if _, ok := r.Form["tags"]; ok {
		tags := splitList(r.Form["tags"])
		patch.Tags = &tags
	}
	if v := formString("price"); v != nil {
		price, err := strconv.ParseFloat(*v, 64)
		if err != nil {
			writeError(w, fmt.Errorf("invalid price: %w", service.ErrValidation))
			return
		}
		patch.Price = &price
	}
	if v := formString("negotiable"); v != nil {
		negotiable, _ := strconv.ParseBool(*v)
		patch.Negotiable = &negotiable
	}
	if area, city := formString("area"), formString("city"); area != nil || city != nil {
		loc := entity.Location{}
		if area != nil {
			loc.Area = *area
		}
		if city != nil {
			loc.City = *city
		}
		patch.Location = &loc
	}
	if name, mail, phone := formString("contactName"), formString("contactEmail"), formString("contactPhone"); name != nil || mail != nil || phone != nil {
		contact := entity.Contact{}
		if name != nil {
			contact.Name = *name
		}
		if mail != nil {
			contact.Email = *mail
		}
		if phone != nil {
			contact.Phone = *phone
		}
		patch.Contact = &contact
	}

	paths, err := h.saveUploads(r, 0)
	if err != nil {
		h.discardUploads(r, paths)
		writeError(w, err)
		return
	}
	patch.AddImagePaths = paths

	product, err := h.catalog.Update(r.Context(), id, patch, user.ID.Hex())
	if err != nil {
		h.discardUploads(r, paths)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id"), user.ID.Hex()); err != nil {
		writeError(w, err)
		return
	}
	h.m.ProductsDeletedTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// HandleListByCategory serves the browse view. The path segment carries one
// or more category names, "All" disables category filtering.
func (h *ProductHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, fmt.Errorf("invalid category parameter: %w", service.ErrValidation))
		return
	}
	names := splitList([]string{raw})

	filter := service.CatalogFilter{
		Search: r.URL.Query().Get("search"),
	}
	if d := r.URL.Query().Get("date"); d != "" {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeError(w, fmt.Errorf("invalid date, expected YYYY-MM-DD: %w", service.ErrValidation))
			return
		}
		filter.Date = day
	}
	for _, c := range splitList(r.URL.Query()["condition"]) {
		filter.Conditions = append(filter.Conditions, entity.Condition(c))
	}

	page, limit := pageParams(r)
	result, err := h.catalog.ListByCategory(r.Context(), names, filter, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) HandleGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.catalog.Grouped(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
