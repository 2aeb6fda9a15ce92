package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"katalog/internal/handlers"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp wires the full HTTP surface against an in-memory SQLite
// database and an in-memory filesystem for media.
func setupTestApp(t *testing.T) (*fiber.App, afero.Fs) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Tag{},
		&models.Product{},
		&models.Variant{},
		&models.ProductImage{},
		&models.ProductVideo{},
	))

	fs := afero.NewMemMapFs()
	store := storage.NewFileStore(fs, "media")

	tagRepo := repositories.NewGORMTagRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	variantRepo := repositories.NewGORMVariantRepository(db)
	mediaRepo := repositories.NewGORMMediaRepository(db)

	tagService := services.NewTagService(tagRepo)
	productService := services.NewProductService(productRepo, tagRepo, variantRepo, nil)
	variantService := services.NewVariantService(variantRepo, productRepo, store)
	mediaService := services.NewMediaService(mediaRepo, productRepo, store)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewTagHandler(tagService).RegisterRoutes(apiV1)
	handlers.NewProductHandler(productService).RegisterRoutes(apiV1)
	handlers.NewVariantHandler(variantService).RegisterRoutes(apiV1)
	handlers.NewMediaHandler(mediaService).RegisterRoutes(apiV1)

	return app, fs
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// doJSONList is doJSON for endpoints returning a JSON array.
func doJSONList(t *testing.T, app *fiber.App, path string) (int, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

// multipartBody builds a multipart form from string fields plus an
// optional file field.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, val := range fields {
		require.NoError(t, writer.WriteField(key, val))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func doMultipart(t *testing.T, app *fiber.App, method, path string, fields map[string]string, fileField, filename string, content []byte) (int, map[string]interface{}) {
	t.Helper()

	buf, contentType := multipartBody(t, fields, fileField, filename, content)
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func createProductViaAPI(t *testing.T, app *fiber.App, payload map[string]interface{}) map[string]interface{} {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", payload)
	require.Equal(t, http.StatusCreated, status, "create product failed: %v", body)
	return body
}

func fieldErrors(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	require.Equal(t, "Validation failed", body["message"])
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "missing errors map in %v", body)
	return errs
}

func TestProductEndpoints_CreateAndGet(t *testing.T) {
	app, _ := setupTestApp(t)

	created := createProductViaAPI(t, app, map[string]interface{}{
		"name":        "Shirt",
		"description": "A plain shirt",
		"price":       19.99,
		"stock":       10,
		"variants": []map[string]interface{}{
			{"name": "Small", "sku": "SHIRT-S", "price": 19.99, "stock": 5},
		},
	})

	assert.NotEmpty(t, created["id"])
	assert.NotEmpty(t, created["created_at"])
	assert.Equal(t, "19.99", created["price"])
	assert.Equal(t, []interface{}{}, created["tags"], "empty collections serialize as [], not null")
	assert.Equal(t, []interface{}{}, created["images"])
	assert.Equal(t, []interface{}{}, created["videos"])

	variants, ok := created["variants"].([]interface{})
	require.True(t, ok)
	require.Len(t, variants, 1)
	variant := variants[0].(map[string]interface{})
	assert.Equal(t, "SHIRT-S", variant["sku"])
	assert.Equal(t, "19.99", variant["price"])
	assert.Nil(t, variant["image_url"])

	status, fetched := doJSON(t, app, http.MethodGet, "/api/v1/products/"+created["id"].(string), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Shirt", fetched["name"])
}

func TestProductEndpoints_ValidationFailure(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Lamp",
		"price": 0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "price must be positive", errs["price"])

	status, list := doJSONList(t, app, "/api/v1/products")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, list, "rejected create leaves the collection empty")
}

func TestProductEndpoints_DuplicateName(t *testing.T) {
	app, _ := setupTestApp(t)

	createProductViaAPI(t, app, map[string]interface{}{"name": "Mug", "price": 7.5})

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Mug",
		"price": 9.0,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "name not unique", errs["name"])

	_, list := doJSONList(t, app, "/api/v1/products")
	assert.Len(t, list, 1)
}

func TestProductEndpoints_UpdateReplacesVariants(t *testing.T) {
	app, _ := setupTestApp(t)

	created := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Shirt",
		"price": 19.99,
		"variants": []map[string]interface{}{
			{"sku": "SHIRT-S"},
			{"sku": "SHIRT-M"},
		},
	})
	id := created["id"].(string)
	oldVariants := created["variants"].([]interface{})
	require.Len(t, oldVariants, 2)
	oldID := oldVariants[0].(map[string]interface{})["id"].(string)

	status, updated := doJSON(t, app, http.MethodPatch, "/api/v1/products/"+id, map[string]interface{}{
		"variants": []map[string]interface{}{
			{"sku": "SHIRT-L", "stock": 3},
		},
	})
	require.Equal(t, http.StatusOK, status)

	newVariants := updated["variants"].([]interface{})
	require.Len(t, newVariants, 1, "variants key replaces the whole set")
	newVariant := newVariants[0].(map[string]interface{})
	assert.Equal(t, "SHIRT-L", newVariant["sku"])
	assert.NotEqual(t, oldID, newVariant["id"])

	// A payload without a variants key leaves the set alone.
	status, updated = doJSON(t, app, http.MethodPatch, "/api/v1/products/"+id, map[string]interface{}{
		"stock": 42,
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 42, updated["stock"])
	assert.Len(t, updated["variants"].([]interface{}), 1)
}

func TestProductEndpoints_TagAssignment(t *testing.T) {
	app, _ := setupTestApp(t)

	status, tag := doJSON(t, app, http.MethodPost, "/api/v1/tags", map[string]interface{}{"name": "summer"})
	require.Equal(t, http.StatusCreated, status)
	tagID := tag["id"].(string)

	created := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Beach Towel",
		"price": 12.0,
		"tags":  []string{tagID},
	})
	tags := created["tags"].([]interface{})
	require.Len(t, tags, 1)
	assert.Equal(t, "summer", tags[0].(map[string]interface{})["name"])

	// Unknown tag IDs are a validation failure, not a 500.
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  "Towel",
		"price": 10.0,
		"tags":  []string{"no-such-tag"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "invalid tag id", errs["tags"])

	// An empty tags key clears the association.
	status, updated := doJSON(t, app, http.MethodPatch, "/api/v1/products/"+created["id"].(string), map[string]interface{}{
		"tags": []string{},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, updated["tags"])
}

func TestProductEndpoints_ListFilters(t *testing.T) {
	app, _ := setupTestApp(t)

	status, tag := doJSON(t, app, http.MethodPost, "/api/v1/tags", map[string]interface{}{"name": "summer"})
	require.Equal(t, http.StatusCreated, status)

	createProductViaAPI(t, app, map[string]interface{}{
		"name":        "Beach Towel",
		"description": "striped cotton",
		"price":       12.0,
		"stock":       4,
		"tags":        []string{tag["id"].(string)},
	})
	createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Mug",
		"price": 7.5,
		"stock": 9,
	})

	status, list := doJSONList(t, app, "/api/v1/products?search=cotton")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, "Beach Towel", list[0]["name"])

	_, list = doJSONList(t, app, "/api/v1/products?tags__name=summer")
	require.Len(t, list, 1)

	_, list = doJSONList(t, app, "/api/v1/products?stock=9")
	require.Len(t, list, 1)
	assert.Equal(t, "Mug", list[0]["name"])

	_, list = doJSONList(t, app, "/api/v1/products?price=12.00")
	require.Len(t, list, 1)
	assert.Equal(t, "Beach Towel", list[0]["name"])

	_, list = doJSONList(t, app, "/api/v1/products?ordering=price")
	require.Len(t, list, 2)
	assert.Equal(t, "Mug", list[0]["name"])

	_, list = doJSONList(t, app, "/api/v1/products?ordering=-price")
	require.Len(t, list, 2)
	assert.Equal(t, "Beach Towel", list[0]["name"])

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/products?price=cheap", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "Invalid price filter")
}

func TestProductEndpoints_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body["message"], "not found")

	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/products/missing", map[string]interface{}{"stock": 1})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProductEndpoints_Delete(t *testing.T) {
	app, _ := setupTestApp(t)

	created := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Shirt",
		"price": 19.99,
		"variants": []map[string]interface{}{
			{"sku": "SHIRT-S"},
		},
	})
	id := created["id"].(string)

	status, body := doJSON(t, app, http.MethodDelete, "/api/v1/products/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("Product %s deleted successfully", id), body["message"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Owned variants went with the product.
	status, variants := doJSONList(t, app, "/api/v1/variants")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, variants)
}

func TestTagEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/tags", map[string]interface{}{"name": "summer"})
	require.Equal(t, http.StatusCreated, status)
	tagID := body["id"].(string)
	assert.Equal(t, "summer", body["name"])

	// A missing name fails the request-shape check.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/tags", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	// A duplicate name fails the business rule.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/tags", map[string]interface{}{"name": "summer"})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "name not unique", errs["name"])

	status, body = doJSON(t, app, http.MethodPut, "/api/v1/tags/"+tagID, map[string]interface{}{"name": "winter"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "winter", body["name"])

	status, list := doJSONList(t, app, "/api/v1/tags?search=win")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)

	status, body = doJSON(t, app, http.MethodDelete, "/api/v1/tags/"+tagID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "deleted successfully")
}

func TestVariantEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	product := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Shirt",
		"price": 19.99,
	})
	productID := product["id"].(string)

	// The product field is required on create.
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/variants", map[string]interface{}{
		"sku": "SHIRT-S",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", body["message"])

	status, created := doJSON(t, app, http.MethodPost, "/api/v1/variants", map[string]interface{}{
		"product": productID,
		"name":    "Small",
		"sku":     "SHIRT-S",
		"size":    "S",
		"price":   19.99,
		"stock":   5,
	})
	require.Equal(t, http.StatusCreated, status, "create variant failed: %v", created)
	variantID := created["id"].(string)
	assert.Equal(t, productID, created["product"])
	assert.Equal(t, "19.99", created["price"])

	// The variant appears under its product.
	status, fetched := doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fetched["variants"].([]interface{}), 1)

	// Duplicate SKUs are rejected.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/variants", map[string]interface{}{
		"product": productID,
		"sku":     "SHIRT-S",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "sku not unique", errs["sku"])

	// An unknown owner is a validation failure.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/variants", map[string]interface{}{
		"product": "no-such-product",
		"sku":     "X-1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errs = fieldErrors(t, body)
	assert.Equal(t, "invalid product id", errs["product"])

	// Updates silently drop any product field.
	status, updated := doJSON(t, app, http.MethodPatch, "/api/v1/variants/"+variantID, map[string]interface{}{
		"product": "no-such-product",
		"stock":   8,
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 8, updated["stock"])
	assert.Equal(t, productID, updated["product"], "ownership is write-restricted")

	status, body = doJSON(t, app, http.MethodDelete, "/api/v1/variants/"+variantID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("Variant %s deleted successfully", variantID), body["message"])
}

func TestVariantEndpoints_MultipartCreateWithImage(t *testing.T) {
	app, fs := setupTestApp(t)

	product := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Shirt",
		"price": 19.99,
	})
	productID := product["id"].(string)

	status, created := doMultipart(t, app, http.MethodPost, "/api/v1/variants",
		map[string]string{
			"product": productID,
			"sku":     "SHIRT-S",
			"price":   "21.50",
			"stock":   "3",
		},
		"image", "front.png", []byte("fake-png"),
	)
	require.Equal(t, http.StatusCreated, status, "multipart create failed: %v", created)
	assert.Equal(t, "21.50", created["price"])
	assert.EqualValues(t, 3, created["stock"])

	imageURL, ok := created["image_url"].(string)
	require.True(t, ok, "image_url missing in %v", created)
	assert.Contains(t, imageURL, "/media/products/variants/")

	ref := imageURL[strings.Index(imageURL, "/media/")+len("/media/"):]
	exists, err := afero.Exists(fs, "media/"+ref)
	require.NoError(t, err)
	assert.True(t, exists)

	// A non-image file is rejected.
	status, body := doMultipart(t, app, http.MethodPost, "/api/v1/variants",
		map[string]string{"product": productID, "sku": "SHIRT-M"},
		"image", "front.gif", []byte("fake-gif"),
	)
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "unsupported image type", errs["image"])
}

func TestImageEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	product := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Shirt",
		"price": 19.99,
	})
	productID := product["id"].(string)

	// Wrong file type.
	status, body := doMultipart(t, app, http.MethodPost, "/api/v1/product-images",
		map[string]string{"product": productID, "alt_text": "animated"},
		"image", "anim.gif", []byte("fake-gif"),
	)
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "unsupported image type", errs["image"])

	// Missing file.
	status, body = doMultipart(t, app, http.MethodPost, "/api/v1/product-images",
		map[string]string{"product": productID},
		"", "", nil,
	)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "An image file is required", body["message"])

	// Valid upload.
	status, created := doMultipart(t, app, http.MethodPost, "/api/v1/product-images",
		map[string]string{"product": productID, "alt_text": "front view"},
		"image", "front.png", []byte("fake-png"),
	)
	require.Equal(t, http.StatusCreated, status, "image upload failed: %v", created)
	imageID := created["id"].(string)
	assert.Equal(t, "front view", created["alt_text"])
	imageURL, ok := created["image_url"].(string)
	require.True(t, ok)
	assert.Contains(t, imageURL, "/media/products/images/")

	// The image appears under its product.
	status, fetched := doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fetched["images"].([]interface{}), 1)

	// Alt text updates without touching the file.
	status, updated := doMultipart(t, app, http.MethodPatch, "/api/v1/product-images/"+imageID,
		map[string]string{"alt_text": "new alt"},
		"", "", nil,
	)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new alt", updated["alt_text"])
	assert.Equal(t, imageURL, updated["image_url"])

	status, body = doJSON(t, app, http.MethodDelete, "/api/v1/product-images/"+imageID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("Product image %s deleted successfully", imageID), body["message"])
}

func TestVideoEndpoints(t *testing.T) {
	app, _ := setupTestApp(t)

	product := createProductViaAPI(t, app, map[string]interface{}{
		"name":  "Shirt",
		"price": 19.99,
	})
	productID := product["id"].(string)

	// Only mp4 is accepted.
	status, body := doMultipart(t, app, http.MethodPost, "/api/v1/product-videos",
		map[string]string{"product": productID},
		"video", "clip.avi", []byte("fake-avi"),
	)
	assert.Equal(t, http.StatusBadRequest, status)
	errs := fieldErrors(t, body)
	assert.Equal(t, "unsupported video type", errs["video"])

	status, created := doMultipart(t, app, http.MethodPost, "/api/v1/product-videos",
		map[string]string{"product": productID, "caption": "demo reel"},
		"video", "demo.mp4", []byte("fake-mp4"),
	)
	require.Equal(t, http.StatusCreated, status, "video upload failed: %v", created)
	videoID := created["id"].(string)
	assert.Equal(t, "demo reel", created["caption"])
	videoURL, ok := created["video_url"].(string)
	require.True(t, ok)
	assert.Contains(t, videoURL, "/media/products/videos/")

	status, fetched := doJSON(t, app, http.MethodGet, "/api/v1/products/"+productID, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, fetched["videos"].([]interface{}), 1)

	status, body = doJSON(t, app, http.MethodDelete, "/api/v1/product-videos/"+videoID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, fmt.Sprintf("Product video %s deleted successfully", videoID), body["message"])
}
