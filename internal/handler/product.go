package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/raniadwi/recycle-market/internal/middleware"
	"github.com/raniadwi/recycle-market/internal/queue"
	"github.com/raniadwi/recycle-market/internal/repository"
	"github.com/raniadwi/recycle-market/internal/uploader"
)

// ProductStore is the slice of the product repository the product handlers
// use. *repository.ProductRepo satisfies it.
type ProductStore interface {
	Create(ctx context.Context, p *repository.Product) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (repository.Product, error)
	ListAvailable(ctx context.Context) ([]repository.Product, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]repository.Product, error)
	ListAll(ctx context.Context) ([]repository.Product, error)
	Update(ctx context.Context, p repository.Product) error
	DeleteOwned(ctx context.Context, id uint64, caller repository.Account) error
}

// ProductHandler bundles dependencies for the product endpoints.
type ProductHandler struct {
	Products ProductStore
	Uploads  uploader.Uploader
	Events   *queue.Publisher
}

func NewProductHandler(products ProductStore, uploads uploader.Uploader, events *queue.Publisher) *ProductHandler {
	return &ProductHandler{Products: products, Uploads: uploads, Events: events}
}

// productResp is the product view returned to clients, with the seller's
// contact details denormalized in. AdminID goes out as a string for frontend
// compatibility.
type productResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	Image        string    `json:"image"`
	Stock        int       `json:"stock"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	AdminID      string    `json:"adminId"`
	SellerName   string    `json:"sellerName"`
	SellerPhone  string    `json:"sellerPhone"`
	Location     string    `json:"location"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
}

func productView(p repository.Product) productResp {
	return productResp{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Image:        p.Image,
		Stock:        p.Stock,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		AdminID:      strconv.FormatUint(p.AdminID, 10),
		SellerName:   p.SellerName,
		SellerPhone:  p.SellerPhone,
		Location:     p.SellerLocation,
		IsSuperAdmin: p.SellerIsSuper,
	}
}

func productViews(items []repository.Product) []productResp {
	out := make([]productResp, 0, len(items))
	for _, p := range items {
		out = append(out, productView(p))
	}
	return out
}

// withSeller fills the denormalized seller fields from the authenticated
// account, saving a re-read after create/update.
func withSeller(p repository.Product, acc repository.Account) repository.Product {
	p.SellerName = acc.Name
	p.SellerPhone = acc.Phone
	p.SellerLocation = acc.Location
	p.SellerIsSuper = acc.IsSuperAdmin
	return p
}

// Available handles GET /api/products/available: the public storefront list
// of in-stock products, newest first.
func (h *ProductHandler) Available(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Products.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, productViews(items))
}

// Mine handles GET /api/products/mine: the caller's own products.
func (h *ProductHandler) Mine(c echo.Context) error {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Products.ListByOwner(ctx, acc.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, productViews(items))
}

// All handles GET /api/products/all (super-admin only): every product.
func (h *ProductHandler) All(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Products.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, productViews(items))
}

// readImage pulls the "image" multipart file out of the request, if present.
func readImage(c echo.Context, accountID uint64) (*uploader.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}
	return &uploader.Image{AccountID: accountID, Filename: fh.Filename, MimeType: mime, Data: data}, nil
}

// Create handles POST /api/products (multipart). The image file is required;
// the owner is always the caller, never client-supplied; status derives from
// the initial stock.
func (h *ProductHandler) Create(c echo.Context) error {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}

	img, err := readImage(c, acc.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Please upload an image file for the product"})
	}

	stock, _ := strconv.Atoi(c.FormValue("stock")) // absent or garbage -> 0

	imageURL, err := h.Uploads.Upload(c.Request().Context(), *img)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error while adding product or uploading image"})
	}

	p := repository.Product{
		AdminID:     acc.ID,
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Image:       imageURL,
		Stock:       stock,
		Status:      repository.StatusForStock(stock),
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Products.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error while adding product or uploading image"})
	}
	return c.JSON(http.StatusCreated, productView(withSeller(p, acc)))
}

// Update handles PUT /api/products/:id (multipart, all fields optional).
// Ownership is enforced by the scoped lookup: a product owned by someone else
// is reported as missing, the same 404 a truly absent product gets. When the
// update drops stock to zero a sold-out event goes out.
func (h *ProductHandler) Update(c echo.Context) error {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	lookupCtx, lookupCancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer lookupCancel()

	cur, err := h.Products.GetByIDAndOwner(lookupCtx, id, acc.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found or you do not have permission to edit"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	upd := partialUpdateFrom(c)
	if img, err := readImage(c, acc.ID); err == nil {
		imageURL, err := h.Uploads.Upload(c.Request().Context(), *img)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
		}
		upd.Image = &imageURL
	}

	// The persist budget starts after the upload; the asset host has its
	// own 30s timeout and must not eat into the DB deadline.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	merged := upd.Apply(cur)
	if err := h.Products.Update(ctx, merged); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	if cur.Stock > 0 && merged.Stock == 0 {
		_ = h.Events.ProductSoldOut(ctx, queue.ProductSoldOutEvent{
			ProductID: merged.ID,
			AccountID: merged.AdminID,
			Name:      merged.Name,
			SoldOutAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, productView(withSeller(merged, acc)))
}

// partialUpdateFrom builds a ProductUpdate from the form fields actually
// present in the request, so an omitted field keeps its stored value while an
// explicitly empty one overwrites it.
func partialUpdateFrom(c echo.Context) repository.ProductUpdate {
	var upd repository.ProductUpdate
	params, err := c.FormParams()
	if err != nil {
		return upd
	}
	if v, ok := params["name"]; ok && len(v) > 0 {
		upd.Name = &v[0]
	}
	if v, ok := params["description"]; ok && len(v) > 0 {
		upd.Description = &v[0]
	}
	if v, ok := params["price"]; ok && len(v) > 0 {
		upd.Price = &v[0]
	}
	if v, ok := params["stock"]; ok && len(v) > 0 {
		n, _ := strconv.Atoi(v[0])
		upd.Stock = &n
	}
	return upd
}

// Delete handles DELETE /api/products/:id. An owner can delete their own
// product; a super-admin can delete anyone's. Unlike update, a foreign
// product here is a plain 403, not a hidden 404.
func (h *ProductHandler) Delete(c echo.Context) error {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch err := h.Products.DeleteOwned(ctx, id, acc); {
	case err == nil:
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, repository.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Product not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied: you can only delete your own products"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
}
