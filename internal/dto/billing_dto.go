package dto

type CheckoutRequest struct {
	PriceID string `json:"priceId"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

type PriceInfo struct {
	ID         string `json:"id"`
	ProductID  string `json:"productId"`
	UnitAmount int64  `json:"unitAmount"`
	Currency   string `json:"currency"`
}

type ProductInfo struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	DefaultPriceID string `json:"defaultPriceId,omitempty"`
}

type PricingResponse struct {
	Prices   []PriceInfo   `json:"prices"`
	Products []ProductInfo `json:"products"`
}
