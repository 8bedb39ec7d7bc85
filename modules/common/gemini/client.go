package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"adgenius-server/modules/common/model"
)

// ContentGenerator is the slice of the genai Models API the client uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// AdCopy - one copy variation returned by the provider
type AdCopy struct {
	Headline    string `json:"headline"`
	PrimaryText string `json:"primaryText"`
	CTA         string `json:"cta"`
}

// Client talks to the Gemini API for ad copy and background images.
type Client struct {
	models     ContentGenerator
	initErr    error
	copyModel  string
	imageModel string
}

// NewClient builds a client. It never fails: a missing key or a client
// construction error is returned from the first call instead.
func NewClient(ctx context.Context, apiKey, copyModel, imageModel string) *Client {
	c := &Client{copyModel: copyModel, imageModel: imageModel}

	if apiKey == "" {
		log.Println("⚠️  [Gemini] API key not set, generation calls will fail with an auth error")
		c.initErr = ErrMissingAPIKey
		return c
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("❌ [Gemini] Failed to create Genai client: %v", err)
		c.initErr = err
		return c
	}

	c.models = genaiClient.Models
	log.Printf("✅ [Gemini] Client initialized (copy: %s, image: %s)", copyModel, imageModel)
	return c
}

// NewClientWithGenerator wires an explicit generator, used by tests.
func NewClientWithGenerator(models ContentGenerator, copyModel, imageModel string) *Client {
	return &Client{models: models, copyModel: copyModel, imageModel: imageModel}
}

// copySchema requires all three string fields on every element.
var copySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headline":    {Type: genai.TypeString},
			"primaryText": {Type: genai.TypeString},
			"cta":         {Type: genai.TypeString},
		},
		Required: []string{"headline", "primaryText", "cta"},
	},
}

// GenerateAdCopy asks for three copy variations. An absent or unparseable
// response yields an empty slice and a nil error; only call failures are
// returned as errors.
func (c *Client) GenerateAdCopy(ctx context.Context, brandName, productDescription, targetAudience string, platform model.Platform) ([]AdCopy, error) {
	if c.initErr != nil {
		return nil, wrapCallError("generate copy", c.initErr)
	}

	prompt := buildCopyPrompt(brandName, productDescription, targetAudience, platform)

	log.Printf("📝 [Gemini] Generating ad copy - model: %s, brand: %s, platform: %s", c.copyModel, brandName, platform)

	result, err := c.models.GenerateContent(
		ctx,
		c.copyModel,
		[]*genai.Content{userContent(prompt)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   copySchema,
		},
	)
	if err != nil {
		log.Printf("❌ [Gemini] Copy request failed: %v", err)
		return nil, wrapCallError("generate copy", err)
	}

	copies, err := parseAdCopies(responseText(result))
	if err != nil {
		log.Printf("⚠️  [Gemini] Failed to parse ad copy JSON: %v", err)
		return []AdCopy{}, nil
	}

	log.Printf("✅ [Gemini] Received %d copy variations", len(copies))
	return copies, nil
}

// GenerateAdImage requests one background image and returns it as a data URI.
func (c *Client) GenerateAdImage(ctx context.Context, prompt string, size model.AdSize) (string, error) {
	if c.initErr != nil {
		return "", wrapCallError("generate image", c.initErr)
	}

	aspectRatio := AspectRatioFor(size)
	log.Printf("🎨 [Gemini] Generating image - model: %s, ratio: %s, prompt: %s", c.imageModel, aspectRatio, truncateString(prompt, 50))

	result, err := c.models.GenerateContent(
		ctx,
		c.imageModel,
		[]*genai.Content{userContent(buildImagePrompt(prompt))},
		&genai.GenerateContentConfig{
			ImageConfig: &genai.ImageConfig{
				AspectRatio: aspectRatio,
			},
		},
	)
	if err != nil {
		log.Printf("❌ [Gemini] Image request failed: %v", err)
		return "", wrapCallError("generate image", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			log.Printf("✅ [Gemini] Image generated: %d bytes", len(part.InlineData.Data))
			return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(part.InlineData.Data)), nil
		}
	}

	return "", &ProviderError{Kind: KindValidation, Op: "generate image", Err: ErrNoImage}
}

// AspectRatioFor maps a size to the provider's ratio string. PORTRAIT is
// nominally 4:5 but the provider is asked for 3:4.
func AspectRatioFor(size model.AdSize) string {
	switch size {
	case model.SizeSquare:
		return "1:1"
	case model.SizeStory:
		return "9:16"
	case model.SizeLandscape:
		return "16:9"
	default:
		return "3:4"
	}
}

func buildCopyPrompt(brandName, productDescription, targetAudience string, platform model.Platform) string {
	return fmt.Sprintf("Generate 3 high-converting ad copy variations for %s.\n"+
		"Product: %s.\n"+
		"Target Audience: %s.\n"+
		"Platform: %s.\n"+
		"Each variation must have a headline (max 40 chars), primary text (max 125 chars), and a short CTA.",
		brandName, productDescription, targetAudience, platform)
}

func buildImagePrompt(description string) string {
	return fmt.Sprintf("A high-quality, professional marketing background for: %s. "+
		"Clean, minimalist, modern aesthetic suitable for a professional brand ad.", description)
}

func userContent(text string) *genai.Content {
	return &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{genai.NewPartFromText(text)},
	}
}

// responseText concatenates the text parts of the first candidate.
func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

type rawAdCopy struct {
	Headline    *string `json:"headline"`
	PrimaryText *string `json:"primaryText"`
	CTA         *string `json:"cta"`
}

func parseAdCopies(text string) ([]AdCopy, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty response")
	}

	var raw []rawAdCopy
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}

	copies := make([]AdCopy, 0, len(raw))
	for i, r := range raw {
		if r.Headline == nil || r.PrimaryText == nil || r.CTA == nil {
			return nil, fmt.Errorf("variation %d is missing a required field", i)
		}
		copies = append(copies, AdCopy{Headline: *r.Headline, PrimaryText: *r.PrimaryText, CTA: *r.CTA})
	}
	return copies, nil
}

// truncateString cuts s to maxLen runes.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
