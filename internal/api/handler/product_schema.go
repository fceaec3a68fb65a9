package handler

import "github.com/producthub/catalog-api/internal/core/ports"

// listProductsQuery is bound from the query string of GET /products.
type listProductsQuery struct {
	Search    string  `query:"q" validate:"max=100"`
	Category  string  `query:"category"`
	MinPrice  float64 `query:"min_price" validate:"gte=0"`
	MaxPrice  float64 `query:"max_price" validate:"gte=0"`
	MinRating float64 `query:"min_rating" validate:"gte=0,lte=5"`
	Limit     int     `query:"limit" validate:"gte=0,lte=100"`
	Offset    int     `query:"offset" validate:"gte=0"`
}

func (q listProductsQuery) toInput() ports.ListProductsInput {
	return ports.ListProductsInput{
		Search:    q.Search,
		Category:  q.Category,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		MinRating: q.MinRating,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorBody documents the error envelope rendered by the API error handler.
type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
