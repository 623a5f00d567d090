package models

// Ingredient is a single food item detected in an uploaded image.
type Ingredient struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Recipe is one suggestion built from the detected ingredients.
type Recipe struct {
	Title      string   `json:"title"`
	PrepTime   string   `json:"prep_time"`
	Difficulty string   `json:"difficulty"`
	Steps      []string `json:"steps"`
}

// AnalysisResult holds the full outcome of one image analysis.
// Both slices are always non-nil so clients get [] rather than null.
type AnalysisResult struct {
	Ingredients []Ingredient `json:"ingredients"`
	Recipes     []Recipe     `json:"recipes"`
}

// NewAnalysisResult returns an empty result with initialized slices.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Ingredients: []Ingredient{},
		Recipes:     []Recipe{},
	}
}

// SuccessResponse wraps a successful analysis for the API.
type SuccessResponse struct {
	Success bool           `json:"success"`
	Data    AnalysisResult `json:"data"`
	Message string         `json:"message,omitempty"`
}

// ErrorResponse is the body returned for any failed request.
// Detail is only populated when the service runs in debug mode.
type ErrorResponse struct {
	Error      string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"status_code"`
}
