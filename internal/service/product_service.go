package service

import (
	"fmt"
	"strings"

	"carty/internal/models"
	"carty/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Image       string
	IsActive    *bool
}

type ProductService struct {
	stores   *repository.StoreRepository
	products *repository.ProductRepository
}

func NewProductService(stores *repository.StoreRepository, products *repository.ProductRepository) *ProductService {
	return &ProductService{stores: stores, products: products}
}

func (s *ProductService) storeID(userID uint) (uint, error) {
	st, err := s.stores.GetByUserID(userID)
	if err != nil {
		return 0, notFound(err, "store")
	}
	return st.ID, nil
}

func (s *ProductService) Create(userID uint, in ProductInput) (*models.Product, error) {
	storeID, err := s.storeID(userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("product name is required: %w", ErrInvalidInput)
	}
	if in.Price == nil || !in.Price.IsPositive() {
		return nil, fmt.Errorf("price must be positive: %w", ErrInvalidAmount)
	}
	p := &models.Product{
		StoreID:     storeID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       *in.Price,
		Image:       in.Image,
		IsActive:    true,
	}
	if err := s.products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) List(userID uint) ([]models.Product, error) {
	storeID, err := s.storeID(userID)
	if err != nil {
		return nil, err
	}
	return s.products.ListByStore(storeID, false)
}

func (s *ProductService) Update(userID, productID uint, in ProductInput) (*models.Product, error) {
	storeID, err := s.storeID(userID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.GetByIDForStore(productID, storeID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Price != nil {
		if !in.Price.IsPositive() {
			return nil, fmt.Errorf("price must be positive: %w", ErrInvalidAmount)
		}
		p.Price = *in.Price
	}
	if in.Image != "" {
		p.Image = in.Image
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if err := s.products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductService) Delete(userID, productID uint) error {
	storeID, err := s.storeID(userID)
	if err != nil {
		return err
	}
	ok, err := s.products.Delete(productID, storeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("product: %w", ErrNotFound)
	}
	return nil
}
