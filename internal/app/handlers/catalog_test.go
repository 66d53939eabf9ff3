package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/linemk/lemonade-shop/internal/app/handlers"
	"github.com/linemk/lemonade-shop/internal/domain/models"
	"github.com/linemk/lemonade-shop/internal/service"
)

type fakeProductService struct {
	product   *models.Product
	err       error
	lastID    uuid.UUID
	lastPatch models.ProductPatch
	lastInput *models.Product
}

var _ service.ProductService = (*fakeProductService)(nil)

func (f *fakeProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if f.product == nil {
		return []models.Product{}, f.err
	}
	return []models.Product{*f.product}, f.err
}

func (f *fakeProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	f.lastID = id
	return f.product, f.err
}

func (f *fakeProductService) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	f.lastInput = p
	p.ID = uuid.New()
	return p, f.err
}

func (f *fakeProductService) UpdateProduct(ctx context.Context, id uuid.UUID, patch models.ProductPatch) error {
	f.lastID = id
	f.lastPatch = patch
	return f.err
}

func (f *fakeProductService) UpsertProduct(ctx context.Context, id uuid.UUID, p *models.Product) (*models.Product, error) {
	f.lastID = id
	p.ID = id
	return p, f.err
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	f.lastID = id
	return f.err
}

func TestGetProductHandler_InvalidUUID(t *testing.T) {
	fakeSvc := &fakeProductService{}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/admin/v1/products/nope", nil), map[string]string{"id": "nope"})
	rr := httptest.NewRecorder()

	handlers.GetProductHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Validation failed (uuid is expected)", decodeError(t, rr).Message)
}

func TestGetProductHandler_Success(t *testing.T) {
	id := uuid.New()
	fakeSvc := &fakeProductService{product: &models.Product{
		ID:   id,
		Name: "Classic Lemonade",
		Variants: []models.ProductVariantOption{
			{ProductVariantID: uuid.New(), VariantID: uuid.New(), Name: "Small"},
		},
	}}
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/admin/v1/products/"+id.String(), nil), map[string]string{"id": id.String()})
	rr := httptest.NewRecorder()

	handlers.GetProductHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, fakeSvc.lastID)
	var got models.Product
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Len(t, got.Variants, 1)
}

func TestCreateProductHandler(t *testing.T) {
	fakeSvc := &fakeProductService{}
	body := `{"name": "Mint Lemonade", "description": "With fresh mint", "image_url": "https://example.com/mint.png", "is_active": true}`
	rr := httptest.NewRecorder()

	handlers.CreateProductHandler(testLogger(), fakeSvc).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/v1/products", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Mint Lemonade", fakeSvc.lastInput.Name)
	assert.Equal(t, "With fresh mint", *fakeSvc.lastInput.Description)
}

func TestCreateProductHandler_ValidationError(t *testing.T) {
	fakeSvc := &fakeProductService{}
	// нет is_active и слишком короткое имя
	body := `{"name": "ab", "description": "desc", "image_url": "https://example.com/x.png"}`
	rr := httptest.NewRecorder()

	handlers.CreateProductHandler(testLogger(), fakeSvc).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/v1/products", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, fakeSvc.lastInput)
}

func TestUpdateProductHandler_Patch(t *testing.T) {
	id := uuid.New()
	fakeSvc := &fakeProductService{}
	req := httptest.NewRequest(http.MethodPatch, "/admin/v1/products/"+id.String(), bytes.NewBufferString(`{"is_active": false}`))
	req = withURLParams(req, map[string]string{"id": id.String()})
	rr := httptest.NewRecorder()

	handlers.UpdateProductHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Nil(t, fakeSvc.lastPatch.Name, "Fields not in body should stay nil")
	if assert.NotNil(t, fakeSvc.lastPatch.IsActive) {
		assert.False(t, *fakeSvc.lastPatch.IsActive)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "missing", err: &service.Error{Kind: service.ErrNotFound, Msg: "not found"}, wantStatus: http.StatusNotFound},
		{name: "in use", err: &service.Error{Kind: service.ErrConflict, Msg: "in use"}, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParams(httptest.NewRequest(http.MethodDelete, "/admin/v1/products/"+id.String(), nil), map[string]string{"id": id.String()})
			rr := httptest.NewRecorder()
			handlers.DeleteProductHandler(testLogger(), &fakeProductService{err: tt.err}).ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

type fakeVariantService struct {
	variant   *models.Variant
	lastPatch models.VariantPatch
	upsertID  uuid.UUID
}

var _ service.VariantService = (*fakeVariantService)(nil)

func (f *fakeVariantService) ListVariants(ctx context.Context) ([]models.Variant, error) {
	return []models.Variant{}, nil
}

func (f *fakeVariantService) GetVariant(ctx context.Context, id uuid.UUID) (*models.Variant, error) {
	return f.variant, nil
}

func (f *fakeVariantService) CreateVariant(ctx context.Context, v *models.Variant) (*models.Variant, error) {
	f.variant = v
	return v, nil
}

func (f *fakeVariantService) UpdateVariant(ctx context.Context, id uuid.UUID, patch models.VariantPatch) error {
	f.lastPatch = patch
	return nil
}

func (f *fakeVariantService) UpsertVariant(ctx context.Context, id uuid.UUID, v *models.Variant) (*models.Variant, error) {
	f.upsertID = id
	v.ID = id
	return v, nil
}

func (f *fakeVariantService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return nil
}

func TestVariantHandlers(t *testing.T) {
	fakeSvc := &fakeVariantService{}
	id := uuid.New()

	rr := httptest.NewRecorder()
	handlers.CreateVariantHandler(testLogger(), fakeSvc).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/v1/variants", bytes.NewBufferString(`{"name": "Small", "is_active": true}`)))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Small", fakeSvc.variant.Name)

	req := withURLParams(httptest.NewRequest(http.MethodPut, "/admin/v1/variants/"+id.String(), bytes.NewBufferString(`{"name": "Large", "is_active": false}`)),
		map[string]string{"id": id.String()})
	rr = httptest.NewRecorder()
	handlers.UpsertVariantHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, fakeSvc.upsertID)

	req = withURLParams(httptest.NewRequest(http.MethodPatch, "/admin/v1/variants/"+id.String(), bytes.NewBufferString(`{"name": "Tiny"}`)),
		map[string]string{"id": id.String()})
	rr = httptest.NewRecorder()
	handlers.UpdateVariantHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "Tiny", *fakeSvc.lastPatch.Name)
	assert.Nil(t, fakeSvc.lastPatch.IsActive)
}

type fakeProductVariantService struct {
	productID uuid.UUID
	items     []service.NewProductVariant
	patch     models.ProductVariantPatch
}

var _ service.ProductVariantService = (*fakeProductVariantService)(nil)

func (f *fakeProductVariantService) AddVariants(ctx context.Context, productID uuid.UUID, items []service.NewProductVariant) ([]*models.ProductVariant, error) {
	f.productID = productID
	f.items = items
	out := make([]*models.ProductVariant, 0, len(items))
	for _, item := range items {
		out = append(out, &models.ProductVariant{ID: uuid.New(), ProductID: productID, VariantID: item.VariantID, Price: item.Price, IsActive: item.IsActive})
	}
	return out, nil
}

func (f *fakeProductVariantService) UpdateProductVariant(ctx context.Context, productID, id uuid.UUID, patch models.ProductVariantPatch) error {
	f.patch = patch
	return nil
}

func (f *fakeProductVariantService) DeleteProductVariant(ctx context.Context, productID, id uuid.UUID) error {
	return nil
}

func TestAddProductVariantsHandler(t *testing.T) {
	fakeSvc := &fakeProductVariantService{}
	productID, v1, v2 := uuid.New(), uuid.New(), uuid.New()
	body := `[{"variant_id": "` + v1.String() + `", "price": 2.5}, {"variant_id": "` + v2.String() + `", "price": "3.00", "is_active": false}]`

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/admin/v1/products/"+productID.String()+"/variants", bytes.NewBufferString(body)),
		map[string]string{"id": productID.String()})
	rr := httptest.NewRecorder()
	handlers.AddProductVariantsHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, productID, fakeSvc.productID)
	if assert.Len(t, fakeSvc.items, 2) {
		assert.True(t, fakeSvc.items[0].IsActive, "is_active defaults to true")
		assert.Equal(t, "2.50", fakeSvc.items[0].Price.StringFixed(2))
		assert.False(t, fakeSvc.items[1].IsActive)
	}
}

func TestAddProductVariantsHandler_MissingPrice(t *testing.T) {
	fakeSvc := &fakeProductVariantService{}
	productID := uuid.New()
	body := `[{"variant_id": "` + uuid.NewString() + `"}]`

	req := withURLParams(httptest.NewRequest(http.MethodPost, "/admin/v1/products/x/variants", bytes.NewBufferString(body)),
		map[string]string{"id": productID.String()})
	rr := httptest.NewRecorder()
	handlers.AddProductVariantsHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, fakeSvc.items)
}

func TestUpdateProductVariantHandler(t *testing.T) {
	fakeSvc := &fakeProductVariantService{}
	productID, id, variantID := uuid.New(), uuid.New(), uuid.New()

	body := `{"variant_id": "` + variantID.String() + `", "price": 4.25}`
	req := withURLParams(httptest.NewRequest(http.MethodPatch, "/", bytes.NewBufferString(body)),
		map[string]string{"id": productID.String(), "productVariantId": id.String()})
	rr := httptest.NewRecorder()
	handlers.UpdateProductVariantHandler(testLogger(), fakeSvc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, variantID, *fakeSvc.patch.VariantID)
	assert.Equal(t, "4.25", fakeSvc.patch.Price.StringFixed(2))
	assert.Nil(t, fakeSvc.patch.IsActive)
}
