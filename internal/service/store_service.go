package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"carty/internal/models"
	"carty/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StoreInput struct {
	Name           string
	Logo           string
	WhatsAppNumber string
	Email          string
}

type Dashboard struct {
	Store         *models.Store
	TotalOrders   int64
	TotalSales    decimal.Decimal
	ProductsCount int64
	RecentOrders  []models.Order
}

type Storefront struct {
	Store    *models.Store
	Products []models.Product
}

type StoreService struct {
	stores   *repository.StoreRepository
	products *repository.ProductRepository
	orders   *repository.OrderRepository
}

func NewStoreService(stores *repository.StoreRepository, products *repository.ProductRepository, orders *repository.OrderRepository) *StoreService {
	return &StoreService{stores: stores, products: products, orders: orders}
}

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// Slugify lowercases name, drops punctuation and joins words with dashes.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "")
	return slugSpace.ReplaceAllString(strings.TrimSpace(s), "-")
}

func (s *StoreService) Create(userID uint, in StoreInput) (*models.Store, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("store name is required: %w", ErrInvalidInput)
	}
	if _, err := s.stores.GetByUserID(userID); err == nil {
		return nil, fmt.Errorf("you already have a store: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	base := Slugify(in.Name)
	if base == "" {
		base = "store"
	}
	slug := base
	for i := 1; ; i++ {
		taken, err := s.stores.SlugExists(slug)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	st := &models.Store{
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		Slug:           slug,
		Logo:           in.Logo,
		WhatsAppNumber: in.WhatsAppNumber,
		Email:          in.Email,
	}
	if err := s.stores.Create(st); err != nil {
		return nil, err
	}
	return s.stores.GetByID(st.ID)
}

func (s *StoreService) MyStore(userID uint) (*models.Store, error) {
	st, err := s.stores.GetByUserID(userID)
	if err != nil {
		return nil, notFound(err, "store")
	}
	return st, nil
}

// Update changes the profile fields that are non-empty in in.
func (s *StoreService) Update(userID uint, in StoreInput) (*models.Store, error) {
	st, err := s.MyStore(userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		st.Name = in.Name
	}
	if in.Logo != "" {
		st.Logo = in.Logo
	}
	if in.WhatsAppNumber != "" {
		st.WhatsAppNumber = in.WhatsAppNumber
	}
	if in.Email != "" {
		st.Email = in.Email
	}
	if err := s.stores.Update(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StoreService) Dashboard(userID uint) (*Dashboard, error) {
	st, err := s.MyStore(userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.orders.CompletedStats(st.ID)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.ListByStore(st.ID, 5, 0)
	if err != nil {
		return nil, err
	}
	count, err := s.products.CountByStore(st.ID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Store: st, TotalOrders: stats.Count, TotalSales: stats.Total, ProductsCount: count, RecentOrders: recent}, nil
}

func (s *StoreService) Storefront(slug string) (*Storefront, error) {
	st, err := s.stores.GetBySlug(slug)
	if err != nil {
		return nil, notFound(err, "store")
	}
	products, err := s.products.ListByStore(st.ID, true)
	if err != nil {
		return nil, err
	}
	return &Storefront{Store: st, Products: products}, nil
}

func (s *StoreService) Orders(userID uint, limit, offset int) ([]models.Order, error) {
	st, err := s.MyStore(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.orders.ListByStore(st.ID, limit, offset)
}
