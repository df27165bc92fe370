package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/middleware"
	"backend/internal/models"
)

type fakeBlob struct {
	mu        sync.Mutex
	uploads   []string
	uploadErr error
	url       string
	urlErr    error

	started sync.Once
	release chan struct{} // when non-nil, Upload blocks until closed
	running chan struct{}
}

func (f *fakeBlob) Upload(ctx context.Context, object, contentType string, r io.Reader) error {
	if f.release != nil {
		f.started.Do(func() { close(f.running) })
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, object)
	return nil
}

func (f *fakeBlob) DownloadURL(ctx context.Context, object string) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return f.url, nil
}

func (f *fakeBlob) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

type fakeProductStore struct {
	mu        sync.Mutex
	created   []models.Product
	createErr error
}

func (f *fakeProductStore) CreateProduct(ctx context.Context, product *models.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	f.created = append(f.created, *product)
	return product.ID.Hex(), nil
}

func (f *fakeProductStore) ListProducts(ctx context.Context, page, limit int64) ([]models.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductStore) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func productForm(t *testing.T, fields map[string]string, imageName, imageType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}

	if imageName != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, imageName))
		h.Set("Content-Type", imageType)
		part, err := writer.CreatePart(h)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func validProductFields() map[string]string {
	return map[string]string{
		"name":        "Widget",
		"price":       "10",
		"quantity":    "5",
		"company":     "Acme",
		"description": "A widget",
		"location":    "Location 1",
	}
}

func newProductRouter(productStore *fakeProductStore, blob *fakeBlob) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/products", CreateProduct(productStore, blob))
	return r
}

func submitProduct(r *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProductPriceBounds(t *testing.T) {
	tests := []struct {
		price  string
		wantOK bool
	}{
		{"0", false},
		{"2001", false},
		{"", false},
		{"1", true},
		{"2000", true},
	}

	for _, tt := range tests {
		blob := &fakeBlob{url: "https://cdn.example.com/widget.png"}
		productStore := &fakeProductStore{}
		r := newProductRouter(productStore, blob)

		fields := validProductFields()
		fields["price"] = tt.price
		body, contentType := productForm(t, fields, "widget.png", "image/png")

		w := submitProduct(r, body, contentType)

		if tt.wantOK && w.Code != http.StatusCreated {
			t.Fatalf("price=%q: expected 201, got %d: %s", tt.price, w.Code, w.Body.String())
		}
		if !tt.wantOK {
			if w.Code != http.StatusBadRequest {
				t.Fatalf("price=%q: expected 400, got %d", tt.price, w.Code)
			}
			if blob.uploadCount() != 0 {
				t.Fatalf("price=%q: upload attempted before validation passed", tt.price)
			}
			if productStore.createCount() != 0 {
				t.Fatalf("price=%q: create attempted before validation passed", tt.price)
			}
		}
	}
}

func TestCreateProductQuantityBounds(t *testing.T) {
	for _, quantity := range []string{"0", "2001", ""} {
		blob := &fakeBlob{url: "https://cdn.example.com/widget.png"}
		productStore := &fakeProductStore{}
		r := newProductRouter(productStore, blob)

		fields := validProductFields()
		fields["quantity"] = quantity
		body, contentType := productForm(t, fields, "widget.png", "image/png")

		w := submitProduct(r, body, contentType)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("quantity=%q: expected 400, got %d", quantity, w.Code)
		}
		if blob.uploadCount() != 0 {
			t.Fatalf("quantity=%q: upload attempted before validation passed", quantity)
		}
	}
}

func TestCreateProductRequiresImageFile(t *testing.T) {
	blob := &fakeBlob{}
	productStore := &fakeProductStore{}
	r := newProductRouter(productStore, blob)

	body, contentType := productForm(t, validProductFields(), "", "")
	w := submitProduct(r, body, contentType)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "image file is required") {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}
}

func TestCreateProductRejectsNonImageContentType(t *testing.T) {
	blob := &fakeBlob{}
	productStore := &fakeProductStore{}
	r := newProductRouter(productStore, blob)

	body, contentType := productForm(t, validProductFields(), "notes.txt", "text/plain")
	w := submitProduct(r, body, contentType)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "only image files are allowed") {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}
	if blob.uploadCount() != 0 {
		t.Fatal("upload attempted for non-image file")
	}
}

func TestCreateProductUploadsThenWritesDocument(t *testing.T) {
	blob := &fakeBlob{url: "https://cdn.example.com/widget.png"}
	productStore := &fakeProductStore{}
	r := newProductRouter(productStore, blob)

	body, contentType := productForm(t, validProductFields(), "widget.png", "image/png")
	w := submitProduct(r, body, contentType)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if blob.uploadCount() != 1 {
		t.Fatalf("expected exactly 1 upload, got %d", blob.uploadCount())
	}
	if blob.uploads[0] != "products/widget.png" {
		t.Fatalf("expected fixed-prefix object path, got %s", blob.uploads[0])
	}
	if productStore.createCount() != 1 {
		t.Fatalf("expected exactly 1 create, got %d", productStore.createCount())
	}

	created := productStore.created[0]
	if created.ImageURL != blob.url {
		t.Fatalf("expected imageUrl %s, got %s", blob.url, created.ImageURL)
	}
	if created.Name != "Widget" || created.Price != 10 || created.Quantity != 5 || created.Location != "Location 1" {
		t.Fatalf("unexpected document: %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected server-assigned creation timestamp")
	}
}

func TestCreateProductUploadFailureSkipsCreate(t *testing.T) {
	blob := &fakeBlob{uploadErr: errors.New("bucket unavailable")}
	productStore := &fakeProductStore{}
	r := newProductRouter(productStore, blob)

	body, contentType := productForm(t, validProductFields(), "widget.png", "image/png")
	w := submitProduct(r, body, contentType)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "image upload failed") {
		t.Fatalf("unexpected message: %s", w.Body.String())
	}
	if productStore.createCount() != 0 {
		t.Fatal("document created despite upload failure")
	}
}

func TestCreateProductCreateFailureReportedDistinctly(t *testing.T) {
	blob := &fakeBlob{url: "https://cdn.example.com/widget.png"}
	productStore := &fakeProductStore{createErr: errors.New("write denied")}
	r := newProductRouter(productStore, blob)

	body, contentType := productForm(t, validProductFields(), "widget.png", "image/png")
	w := submitProduct(r, body, contentType)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "product create failed") {
		t.Fatalf("expected create failure message, got %s", w.Body.String())
	}
	// The upload already happened; the blob stays behind.
	if blob.uploadCount() != 1 {
		t.Fatalf("expected 1 upload, got %d", blob.uploadCount())
	}
}

func TestCreateProductSecondSubmitRejectedWhileFirstRuns(t *testing.T) {
	blob := &fakeBlob{
		url:     "https://cdn.example.com/widget.png",
		release: make(chan struct{}),
		running: make(chan struct{}),
	}
	productStore := &fakeProductStore{}

	gin.SetMode(gin.TestMode)
	guard := middleware.NewSubmitGuard()
	r := gin.New()
	r.POST("/api/products",
		middleware.OneInFlight(guard, "products"),
		CreateProduct(productStore, blob),
	)

	submit := func() *httptest.ResponseRecorder {
		body, contentType := productForm(t, validProductFields(), "widget.png", "image/png")
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/products", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-Form-Token", "form-1")
		r.ServeHTTP(w, req)
		return w
	}

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		firstDone <- submit()
	}()

	select {
	case <-blob.running:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the upload step")
	}

	second := submit()
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping submit, got %d", second.Code)
	}

	close(blob.release)
	first := <-firstDone
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first submit to succeed, got %d: %s", first.Code, first.Body.String())
	}
	if productStore.createCount() != 1 {
		t.Fatalf("expected exactly 1 create across both submits, got %d", productStore.createCount())
	}
}
