// Package extract calls the external vision model that turns a photographed
// grocery list into structured items, and sanitizes what comes back before
// anything downstream trusts it.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"grocery-tracker-ws/internal/model"
)

// Client talks to an OpenAI-compatible chat-completion endpoint.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

func NewClient() *Client {
	apiURL := os.Getenv("EXTRACT_API_URL")
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	apiKey := os.Getenv("EXTRACT_API_KEY")

	modelName := os.Getenv("EXTRACT_MODEL")
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiURL: apiURL,
		apiKey: apiKey,
		model:  modelName,
	}
}

func categoryNames() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func extractionPrompt() string {
	return fmt.Sprintf(`You are an expert at reading handwritten or digital grocery lists from images.
Analyze the provided image, identify each distinct grocery item, its quantity, its price, and classify it into one of the following categories: %s.

- Extract a concise, clean name for each item, removing brand names and descriptive words unless they are essential ("Britannia 100%% Whole Wheat Bread" becomes "Whole Wheat Bread"; keep uniquely branded names like "Kitkat").
- Extract the quantity. Look for multipliers like "x 2"; if none is mentioned, assume 1.
- Extract the price if available.
- VERY IMPORTANT: if an item's quantity is greater than 1, the listed price is likely the total for all units. You MUST divide the total by the quantity: the "price" field must always be the price for a single unit.
- Choose the most appropriate category from the list; use "Other" when nothing fits.
- Do not return things that are not groceries (list titles, stray numbers, notes).

Respond with ONLY a JSON array in this exact shape:
[{"name": "Whole Wheat Bread", "category": "Bakery", "price": 2.5, "quantity": 1}]

Omit "price" or "quantity" entirely when they are not readable from the image.`, categoryNames())
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// rawItem mirrors the model's JSON before sanitation.
type rawItem struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

// Extract sends the grocery-list photo (a data URI) to the vision model and
// returns the sanitized item batch. An empty slice means nothing usable was
// found; callers treat that as "nothing to reconcile".
func (c *Client) Extract(ctx context.Context, photoDataURI string) ([]model.ExtractedItem, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": extractionPrompt()},
					{"type": "image_url", "image_url": map[string]string{"url": photoDataURI}},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("unexpected extraction response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, nil
	}

	return ParseItems(chat.Choices[0].Message.Content)
}

// ParseItems decodes the model's reply into sanitized extracted items.
// Split out from Extract so the parsing contract is testable offline.
func ParseItems(content string) ([]model.ExtractedItem, error) {
	content = stripFences(content)
	if content == "" {
		return nil, nil
	}

	var raw []rawItem
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("extraction reply is not a JSON item array: %w", err)
	}

	return sanitize(raw), nil
}

// stripFences removes a surrounding markdown code fence, which chat models
// add even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// sanitize enforces the boundary contract on black-box output: blank names
// are dropped, unknown categories map to Other, quantities are clamped to
// at least 1 and negative prices are discarded as unreadable.
func sanitize(raw []rawItem) []model.ExtractedItem {
	items := make([]model.ExtractedItem, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		item := model.ExtractedItem{
			Name:     name,
			Category: model.NormalizeCategory(r.Category),
		}
		if r.Price != nil && *r.Price >= 0 {
			item.Price = r.Price
		}
		if r.Quantity != nil {
			qty := *r.Quantity
			if qty < 1 {
				qty = 1
			}
			item.Quantity = &qty
		}
		items = append(items, item)
	}
	return items
}
