package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"backend/internal/models"
	"backend/internal/store"
)

// BlobStore is the upload surface the product form depends on. The uploaded
// object must resolve to a durable URL before the document is written.
type BlobStore interface {
	Upload(ctx context.Context, object, contentType string, r io.Reader) error
	DownloadURL(ctx context.Context, object string) (string, error)
}

// Uploaded product images live under one fixed prefix, keyed by the original
// file name. A same-named file overwrites the previous object; that policy
// comes from the storage backend and is not mitigated here.
const productImagePrefix = "products/"

type multipartProductInput struct {
	Name           string
	NameSet        bool
	Price          float64
	PriceSet       bool
	Quantity       int
	QuantitySet    bool
	Company        string
	CompanySet     bool
	Description    string
	DescriptionSet bool
	Location       string
	LocationSet    bool
	Image          *multipart.FileHeader
}

func parseMultipartProductRequest(c *gin.Context) (multipartProductInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return multipartProductInput{}, err
	}

	input := multipartProductInput{}

	if value, ok := c.GetPostForm("name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}

	if value, ok := c.GetPostForm("company"); ok {
		input.Company = strings.TrimSpace(value)
		input.CompanySet = true
	}

	if value, ok := c.GetPostForm("description"); ok {
		input.Description = strings.TrimSpace(value)
		input.DescriptionSet = true
	}

	if value, ok := c.GetPostForm("location"); ok {
		input.Location = strings.TrimSpace(value)
		input.LocationSet = true
	}

	if value, ok := c.GetPostForm("price"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return multipartProductInput{}, err
		}
		input.Price = parsed
		input.PriceSet = true
	}

	if value, ok := c.GetPostForm("quantity"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return multipartProductInput{}, err
		}
		input.Quantity = parsed
		input.QuantitySet = true
	}

	file, err := c.FormFile("image")
	if err == nil {
		input.Image = file
	} else if !errors.Is(err, http.ErrMissingFile) && !strings.Contains(err.Error(), "no such file") {
		return multipartProductInput{}, err
	}

	return input, nil
}

// validateProductInput applies the form's checks in order; the first failing
// check stops the rest, and nothing remote happens until all pass.
func validateProductInput(input multipartProductInput) string {
	if !input.NameSet || input.Name == "" {
		return "product name is required"
	}
	if !input.PriceSet || input.Price <= 0 || input.Price > 2000 {
		return "price must be between 1 and 2000"
	}
	if !input.QuantitySet || input.Quantity <= 0 || input.Quantity > 2000 {
		return "quantity must be between 1 and 2000"
	}
	if input.Image == nil {
		return "an image file is required"
	}
	if !strings.HasPrefix(input.Image.Header.Get("Content-Type"), "image/") {
		return "only image files are allowed"
	}
	if input.LocationSet && input.Location != "" && !validLocation(input.Location) {
		return "invalid location"
	}
	return ""
}

// CreateProduct validates, uploads the image, then writes the product
// document referencing the resolved URL. The create step never starts before
// the upload has yielded a URL; a create failure leaves the uploaded blob in
// place.
func CreateProduct(productStore store.ProductStore, blob BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "multipart/form-data required"})
			return
		}

		input, err := parseMultipartProductRequest(c)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] multipart parse failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if msg := validateProductInput(input); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		object := productImagePrefix + filepath.Base(input.Image.Filename)
		contentType := input.Image.Header.Get("Content-Type")

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		src, err := input.Image.Open()
		if err != nil {
			log.Println("[PRODUCT] [ERROR] open image failed:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
			return
		}
		defer src.Close()

		if err := blob.Upload(ctx, object, contentType, src); err != nil {
			log.Println("[PRODUCT] [ERROR] image upload failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}

		imageURL, err := blob.DownloadURL(ctx, object)
		if err != nil {
			log.Println("[PRODUCT] [ERROR] image url resolution failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}

		product := models.Product{
			Name:        input.Name,
			Price:       input.Price,
			Quantity:    input.Quantity,
			Company:     input.Company,
			Description: input.Description,
			Location:    input.Location,
			ImageURL:    imageURL,
		}

		id, err := productStore.CreateProduct(ctx, &product)
		if err != nil {
			// The uploaded object stays behind; flag it for manual cleanup.
			log.Println("[PRODUCT] [ERROR] create failed, orphaned upload at:", object, "error:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "product create failed"})
			return
		}

		log.Println("[PRODUCT] [INFO] product created:", id)
		c.JSON(http.StatusCreated, gin.H{"message": "product created", "product": product})
	}
}
