package ai

// Provider and model defaults
const (
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	DefaultProvider     = ProviderGemini
	DefaultGeminiModel  = "gemini-2.0-flash"
	DefaultGeminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultOpenAIModel  = "gpt-4o"
	DefaultMaxTokens    = 800
	DefaultTemperature  = 0.7
	DefaultTopK         = 40
	DefaultTopP         = 0.95
)

// Content roles
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// InlineData is a base64 encoded binary payload such as an image
type InlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Part is one piece of a content turn: either text or inline data
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// Content is a single turn in a generate request
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerationConfig controls sampling
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Request is a provider independent generate request
type Request struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// DefaultGenerationConfig returns the sampling settings used for chat replies
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     DefaultTemperature,
		TopK:            DefaultTopK,
		TopP:            DefaultTopP,
		MaxOutputTokens: DefaultMaxTokens,
	}
}

// TextPart builds a text part
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline data part
func ImagePart(data InlineData) Part {
	d := data
	return Part{InlineData: &d}
}
