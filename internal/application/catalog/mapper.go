package catalog

import (
	"github.com/jhoicas/veloce-moto-api/internal/application/dto"
	"github.com/jhoicas/veloce-moto-api/internal/domain/entity"
	"github.com/jhoicas/veloce-moto-api/pkg/money"
)

func toProductResponses(list []entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toProductResponse(p entity.Product) dto.ProductResponse {
	images := make([]dto.ProductImageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, dto.ProductImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			Alt:       img.Alt,
			IsPrimary: img.IsPrimary,
			Order:     img.Order,
		})
	}
	specs := make([]dto.SpecificationResponse, 0, len(p.Specifications))
	for _, s := range p.Specifications {
		specs = append(specs, dto.SpecificationResponse{Name: s.Name, Value: s.Value, Unit: s.Unit})
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	effective := p.EffectivePrice()
	return dto.ProductResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		SalePrice:        p.SalePrice,
		EffectivePrice:   effective,
		HasDiscount:      p.HasDiscount(),
		Currency:         p.Currency,
		FormattedPrice:   money.Format(effective, p.Currency),
		Images:           images,
		Category:         toCategoryResponse(p.Category),
		Brand:            p.Brand,
		SKU:              p.SKU,
		InStock:          p.InStock,
		StockQuantity:    p.StockQuantity,
		Tags:             tags,
		Specifications:   specs,
		Rating:           p.Rating,
		ReviewCount:      p.ReviewCount,
		Featured:         p.Featured,
		IsNew:            p.IsNew,
		IsBestSeller:     p.IsBestSeller,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toCategoryResponse(c entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		Order:       c.Order,
	}
}
