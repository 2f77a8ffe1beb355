package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Negocio-api/internal/application/dto"
	"github.com/jhoicas/Negocio-api/internal/domain"
	"github.com/jhoicas/Negocio-api/internal/domain/entity"
	"github.com/jhoicas/Negocio-api/internal/domain/repository"
)

// MaxImageSize tamaño máximo de imagen de producto (5 MB).
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	store   repository.Store
	storage ObjectStorage
}

// NewProductUseCase construye el caso de uso. storage puede ser nil (subida de imágenes deshabilitada).
func NewProductUseCase(store repository.Store, storage ObjectStorage) *ProductUseCase {
	return &ProductUseCase{store: store, storage: storage}
}

// Create crea un nuevo producto. SKU repetido en la empresa => domain.ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		SKU:            strings.TrimSpace(in.SKU),
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Price:          in.Price.Round(2),
		Cost:           in.Cost.Round(2),
		Unit:           in.Unit,
		TrackStock:     true,
		MinStock:       in.MinStock,
		MaxStock:       in.MaxStock,
		ReorderLevel:   in.ReorderLevel,
		AllowBackorder: in.AllowBackorder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Unit == "" {
		p.Unit = "unidad"
	}
	if in.TrackStock != nil {
		p.TrackStock = *in.TrackStock
	}
	if err := validateStockLevels(p); err != nil {
		return nil, err
	}
	if err := uc.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Get obtiene un producto de la empresa (incluye borrados lógicamente).
func (uc *ProductUseCase) Get(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	p, err := LoadProduct(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// Update actualiza un producto. Un producto borrado no se edita.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := LoadProduct(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() {
		return nil, fmt.Errorf("%w: el producto fue eliminado", domain.ErrInvalidState)
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.Cost != nil {
		p.Cost = in.Cost.Round(2)
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.TrackStock != nil {
		p.TrackStock = *in.TrackStock
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		p.MaxStock = *in.MaxStock
	}
	if in.ReorderLevel != nil {
		p.ReorderLevel = *in.ReorderLevel
	}
	if in.AllowBackorder != nil {
		p.AllowBackorder = *in.AllowBackorder
	}
	if err := validateStockLevels(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.store.Products().Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List lista productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, in dto.ProductFilterRequest) (dto.ListResponse[dto.ProductResponse], error) {
	in.DefaultPage()
	list, err := uc.store.Products().ListByCompany(ctx, companyID, repository.ProductFilter{
		Search:         strings.TrimSpace(in.Search),
		IncludeDeleted: in.IncludeDeleted,
		Limit:          in.Limit,
		Offset:         in.Offset,
	})
	if err != nil {
		return dto.ListResponse[dto.ProductResponse]{}, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return dto.NewList(items, in.PageRequest), nil
}

// Delete borrado lógico: las facturas y el libro de stock siguen referenciándolo.
func (uc *ProductUseCase) Delete(ctx context.Context, companyID, id string) error {
	p, err := LoadProduct(ctx, uc.store, companyID, id)
	if err != nil {
		return err
	}
	if p.IsDeleted() {
		return nil
	}
	now := time.Now()
	p.DeletedAt = &now
	p.UpdatedAt = now
	return uc.store.Products().Update(ctx, p)
}

// UploadImage guarda la imagen en el almacenamiento de objetos y registra la URL en el producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, companyID, id, contentType string, body io.Reader, size int64) (*dto.ProductResponse, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: almacenamiento de imágenes no configurado", domain.ErrInvalidState)
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, domain.FieldErrors{"image": "formato no soportado (jpeg, png o webp)"}
	}
	if size <= 0 || size > MaxImageSize {
		return nil, domain.FieldErrors{"image": "la imagen debe pesar como máximo 5 MB"}
	}
	p, err := LoadProduct(ctx, uc.store, companyID, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() {
		return nil, fmt.Errorf("%w: el producto fue eliminado", domain.ErrInvalidState)
	}
	key := path.Join("companies", companyID, "products", p.ID, uuid.New().String()+ext)
	url, err := uc.storage.Upload(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}
	p.ImageURL = url
	p.UpdatedAt = time.Now()
	if err := uc.store.Products().Update(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// LoadProduct obtiene el producto y verifica que pertenezca a la empresa.
func LoadProduct(ctx context.Context, store repository.Store, companyID, id string) (*entity.Product, error) {
	p, err := store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	return p, nil
}

func validateStockLevels(p *entity.Product) error {
	if p.MaxStock.IsPositive() && p.MinStock.GreaterThan(p.MaxStock) {
		return domain.FieldErrors{"min_stock": "no puede ser mayor que max_stock"}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		CompanyID:      p.CompanyID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Cost:           p.Cost,
		Unit:           p.Unit,
		TrackStock:     p.TrackStock,
		MinStock:       p.MinStock,
		MaxStock:       p.MaxStock,
		ReorderLevel:   p.ReorderLevel,
		AllowBackorder: p.AllowBackorder,
		ImageURL:       p.ImageURL,
		Deleted:        p.IsDeleted(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
