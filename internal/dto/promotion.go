package dto

// PromotionResult reports how many students the rollover touched.
type PromotionResult struct {
	Promoted  int `json:"promoted"`
	Graduated int `json:"graduated"`
}

// PromotionResponse is the front-end contract for promote endpoints.
type PromotionResponse struct {
	Success   bool   `json:"success"`
	Promoted  int    `json:"promoted"`
	Graduated int    `json:"graduated"`
	Message   string `json:"message"`
}

// PromotionErrorResponse is the failure shape for promote endpoints.
type PromotionErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
