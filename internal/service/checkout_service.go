package service

import (
	"context"
	"fmt"
	"strings"

	"carty/internal/domain"
	"carty/internal/models"
	"carty/internal/notify"
	"carty/internal/repository"
	"carty/pkg/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartItem struct {
	ProductID uint
	Quantity  int
}

type CheckoutInput struct {
	BuyerName    string
	BuyerPhone   string
	BuyerAddress string
	BuyerNote    string
	Items        []CartItem
}

type CheckoutResult struct {
	// SubscriptionRequired is set when the store cannot take payments; only
	// WhatsAppLink is filled in that case.
	SubscriptionRequired bool
	WhatsAppLink         string
	AuthorizationURL     string
	Reference            string
	Order                *models.Order
}

// CheckoutService turns a storefront cart into a pending order and a
// provider checkout session.
type CheckoutService struct {
	stores        *repository.StoreRepository
	products      *repository.ProductRepository
	orders        *repository.OrderRepository
	gateway       payment.Provider
	publicBaseURL string
}

func NewCheckoutService(stores *repository.StoreRepository, products *repository.ProductRepository, orders *repository.OrderRepository, gateway payment.Provider, publicBaseURL string) *CheckoutService {
	return &CheckoutService{stores: stores, products: products, orders: orders, gateway: gateway, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *CheckoutService) Checkout(ctx context.Context, slug string, in CheckoutInput) (*CheckoutResult, error) {
	store, err := s.stores.GetBySlug(slug)
	if err != nil {
		return nil, notFound(err, "store")
	}
	if !store.IsSubscribed() {
		return &CheckoutResult{SubscriptionRequired: true, WhatsAppLink: notify.ChatLink(store.WhatsAppNumber)}, nil
	}
	items, total, err := s.priceCart(store.ID, in.Items)
	if err != nil {
		return nil, err
	}
	order := &models.Order{
		StoreID:          store.ID,
		BuyerName:        strings.TrimSpace(in.BuyerName),
		BuyerPhone:       strings.TrimSpace(in.BuyerPhone),
		BuyerAddress:     in.BuyerAddress,
		BuyerNote:        in.BuyerNote,
		Items:            items,
		TotalAmount:      total,
		PaymentReference: domain.NewReference(domain.OrderRefPrefix),
		Status:           domain.OrderPending,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	resp, err := s.gateway.InitiatePayment(ctx, payment.PaymentRequest{
		Reference:   order.PaymentReference,
		Email:       order.BuyerPhone + "@carty.store",
		AmountKobo:  payment.ToKobo(total),
		CallbackURL: s.callbackURL(store.Slug),
		Metadata:    map[string]interface{}{"order_id": order.ID, "store_id": store.ID},
	})
	if err != nil {
		zap.L().Error("[Checkout] initialize failed", zap.String("reference", order.PaymentReference), zap.Error(err))
		return nil, gatewayErr("initialize payment", err)
	}
	zap.L().Info("[Checkout] order created",
		zap.String("order_id", order.ID),
		zap.String("reference", order.PaymentReference),
		zap.String("total", total.String()))
	return &CheckoutResult{AuthorizationURL: resp.AuthorizationURL, Reference: order.PaymentReference, Order: order}, nil
}

// callbackURL is the storefront page the buyer returns to after paying. It is
// empty when no storefront URL is configured, and the provider then keeps its
// dashboard default.
func (s *CheckoutService) callbackURL(slug string) string {
	if s.publicBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/store/%s/payment", s.publicBaseURL, slug)
}

// priceCart snapshots product names and computes line totals from current
// catalog prices. Client-side prices are never trusted.
func (s *CheckoutService) priceCart(storeID uint, cart []CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	if len(cart) == 0 {
		return nil, decimal.Zero, fmt.Errorf("cart is empty: %w", ErrInvalidInput)
	}
	ids := make([]uint, 0, len(cart))
	for _, it := range cart {
		if it.Quantity < 1 {
			return nil, decimal.Zero, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidInput)
		}
		ids = append(ids, it.ProductID)
	}
	catalog, err := s.products.GetForStore(storeID, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart))
	for _, it := range cart {
		p, ok := catalog[it.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("product not found: %d: %w", it.ProductID, ErrInvalidInput)
		}
		line := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
		items = append(items, models.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: it.Quantity, Price: line})
	}
	return items, total, nil
}
