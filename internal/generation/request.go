package generation

import (
	"strconv"

	"server/internal/cache"
	"server/internal/sanitize"
)

// Payload is the job submission as it arrives over the session, prior to
// sanitization.
type Payload struct {
	ProductName       string `json:"product_name"`
	ProductDetails    string `json:"product_details"`
	Language          string `json:"language"`
	Tone              string `json:"tone"`
	Keywords          string `json:"keywords"`
	Audience          string `json:"audience"`
	Platform          string `json:"platform"`
	USPs              string `json:"usps"`
	CTAStyle          string `json:"cta_style"`
	Viral             string `json:"viral"`
	ExtraInstructions string `json:"extra_instructions"`
	GenerateImage     bool   `json:"generate_image"`
}

// Request is the normalized, sanitized form of a job. It is built once per
// job and not mutated afterwards.
type Request struct {
	ProductName       string
	ProductDetails    string
	Language          string
	Tone              string
	Keywords          string
	Audience          string
	Platform          string
	USPs              string
	CTAStyle          string
	Viral             bool
	ExtraInstructions string
}

// Normalize sanitizes every free-text field and applies defaults. The viral
// flag is set only by the literal submission value "Yes".
func (p Payload) Normalize() Request {
	req := Request{
		ProductName:       sanitize.Clean(p.ProductName),
		ProductDetails:    sanitize.Clean(p.ProductDetails),
		Language:          sanitize.Clean(p.Language),
		Tone:              sanitize.Clean(p.Tone),
		Keywords:          sanitize.Clean(p.Keywords),
		Audience:          sanitize.Clean(p.Audience),
		Platform:          sanitize.Clean(p.Platform),
		USPs:              sanitize.Clean(p.USPs),
		CTAStyle:          sanitize.Clean(p.CTAStyle),
		Viral:             p.Viral == "Yes",
		ExtraInstructions: sanitize.Clean(p.ExtraInstructions),
	}
	if req.Language == "" {
		req.Language = "English"
	}
	if req.Tone == "" {
		req.Tone = "Professional"
	}
	return req
}

const (
	descriptionNamespace = "product_description"
	imageNamespace       = "product_image"
)

// fingerprint derives the description cache key from the sanitized request
// fields plus the model identifier. Logically identical requests always map
// to the same key.
func (r Request) fingerprint(model string) string {
	return cache.MakeKey(descriptionNamespace, map[string]string{
		"product_name":       r.ProductName,
		"product_details":    r.ProductDetails,
		"language":           r.Language,
		"tone":               r.Tone,
		"keywords":           r.Keywords,
		"audience":           r.Audience,
		"platform":           r.Platform,
		"usps":               r.USPs,
		"cta_style":          r.CTAStyle,
		"viral_flag":         strconv.FormatBool(r.Viral),
		"extra_instructions": r.ExtraInstructions,
		"model":              model,
	})
}

func imageFingerprint(productName, model, size, quality string) string {
	return cache.MakeKey(imageNamespace, map[string]string{
		"product_name": productName,
		"model":        model,
		"size":         size,
		"quality":      quality,
	})
}
