package handlers

import (
	"strings"
	"time"

	"katalog/internal/models"
)

// Response shapes for the catalog collections. Prices travel as
// fixed-point decimal strings so clients never see binary-float
// rounding drift. Media URLs are absolute when the originating
// request's base URL is known, relative otherwise, and null when no
// file is attached.

// TagResponse is the wire shape of a tag.
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VariantResponse is the wire shape of a variant.
type VariantResponse struct {
	ID       string  `json:"id"`
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Color    string  `json:"color"`
	Size     string  `json:"size"`
	Price    string  `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL *string `json:"image_url"`
}

// ImageResponse is the wire shape of a product image.
type ImageResponse struct {
	ID       string  `json:"id"`
	Product  string  `json:"product"`
	ImageURL *string `json:"image_url"`
	AltText  string  `json:"alt_text"`
}

// VideoResponse is the wire shape of a product video.
type VideoResponse struct {
	ID       string  `json:"id"`
	Product  string  `json:"product"`
	VideoURL *string `json:"video_url"`
	Caption  string  `json:"caption"`
}

// ProductResponse is the flat projection of the product aggregate.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	Stock       int               `json:"stock"`
	CreatedAt   time.Time         `json:"created_at"`
	Tags        []TagResponse     `json:"tags"`
	Variants    []VariantResponse `json:"variants"`
	Images      []ImageResponse   `json:"images"`
	Videos      []VideoResponse   `json:"videos"`
}

// mediaURL resolves a storage reference against the request base URL.
func mediaURL(ref, baseURL string) *string {
	if ref == "" {
		return nil
	}
	u := "/media/" + ref
	if baseURL != "" {
		u = strings.TrimSuffix(baseURL, "/") + u
	}
	return &u
}

func presentTag(tag models.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name}
}

func presentVariant(v models.Variant, baseURL string) VariantResponse {
	return VariantResponse{
		ID:       v.ID,
		Product:  v.ProductID,
		Name:     v.Name,
		SKU:      v.SKU,
		Color:    v.Color,
		Size:     v.Size,
		Price:    v.Price.StringFixed(2),
		Stock:    v.Stock,
		ImageURL: mediaURL(v.Image, baseURL),
	}
}

func presentImage(img models.ProductImage, baseURL string) ImageResponse {
	return ImageResponse{
		ID:       img.ID,
		Product:  img.ProductID,
		ImageURL: mediaURL(img.Image, baseURL),
		AltText:  img.AltText,
	}
}

func presentVideo(vid models.ProductVideo, baseURL string) VideoResponse {
	return VideoResponse{
		ID:       vid.ID,
		Product:  vid.ProductID,
		VideoURL: mediaURL(vid.Video, baseURL),
		Caption:  vid.Caption,
	}
}

func presentProduct(p *models.Product, baseURL string) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		Tags:        make([]TagResponse, 0, len(p.Tags)),
		Variants:    make([]VariantResponse, 0, len(p.Variants)),
		Images:      make([]ImageResponse, 0, len(p.Images)),
		Videos:      make([]VideoResponse, 0, len(p.Videos)),
	}
	for _, tag := range p.Tags {
		resp.Tags = append(resp.Tags, presentTag(tag))
	}
	for _, v := range p.Variants {
		resp.Variants = append(resp.Variants, presentVariant(v, baseURL))
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, presentImage(img, baseURL))
	}
	for _, vid := range p.Videos {
		resp.Videos = append(resp.Videos, presentVideo(vid, baseURL))
	}
	return resp
}
