package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"oms-backend/internal/model"
)

// productResponse hides the cost price from sales reps.
type productResponse struct {
	ID            uint                  `json:"id"`
	SKU           string                `json:"sku"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	StockQuantity int                   `json:"stock_quantity"`
	LockedStock   int                   `json:"locked_stock"`
	CostPrice     *decimal.Decimal      `json:"cost_price,omitempty"`
	SellingPrice  decimal.Decimal       `json:"selling_price"`
	Category      model.ProductCategory `json:"category"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func productJSON(p *model.Product, role model.Role) productResponse {
	resp := productResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		StockQuantity: p.StockQuantity,
		LockedStock:   p.LockedStock,
		SellingPrice:  p.SellingPrice,
		Category:      p.Category,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if role != model.RoleSalesRep {
		cost := p.CostPrice
		resp.CostPrice = &cost
	}
	return resp
}

func productsJSON(products []model.Product, role model.Role) []productResponse {
	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, productJSON(&products[i], role))
	}
	return out
}

type orderItemResponse struct {
	ID          uint   `json:"id"`
	Product     uint   `json:"product"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku"`
	Quantity    int    `json:"quantity"`
}

type orderResponse struct {
	ID                 uint                `json:"id"`
	Customer           *uint               `json:"customer"`
	CustomerName       string              `json:"customer_name"`
	CustomerPhone      string              `json:"customer_phone"`
	CustomerAddress    string              `json:"customer_address"`
	CustomerCity       string              `json:"customer_city"`
	Status             model.OrderStatus   `json:"status"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	DiscountPercentage decimal.Decimal     `json:"discount_percentage"`
	CreatedBy          uint                `json:"created_by"`
	CreatedByUsername  string              `json:"created_by_username"`
	CreatedByName      string              `json:"created_by_name"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Items              []orderItemResponse `json:"items"`
}

func orderJSON(o *model.Order) orderResponse {
	resp := orderResponse{
		ID:                 o.ID,
		Customer:           o.CustomerID,
		Status:             o.Status,
		TotalAmount:        o.TotalAmount,
		DiscountPercentage: o.DiscountPercentage,
		CreatedBy:          o.CreatedByID,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Items:              make([]orderItemResponse, 0, len(o.Items)),
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.Name
		resp.CustomerPhone = o.Customer.PhoneNumber
		resp.CustomerAddress = o.Customer.Address
		resp.CustomerCity = o.Customer.City
	}
	if o.CreatedBy != nil {
		resp.CreatedByUsername = o.CreatedBy.Username
		resp.CreatedByName = o.CreatedBy.DisplayName()
	}
	for _, it := range o.Items {
		item := orderItemResponse{
			ID:       it.ID,
			Product:  it.ProductID,
			Quantity: it.Quantity,
		}
		if it.Product != nil {
			item.ProductName = it.Product.Name
			item.ProductSKU = it.Product.SKU
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func ordersJSON(orders []model.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	return out
}
