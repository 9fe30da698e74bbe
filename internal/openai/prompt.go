package openai

import "encoding/json"

// ImagePrompt is the structured context sent to the image model: the
// editor's short instruction plus the surrounding post title and body.
type ImagePrompt struct {
	Prompt      string `json:"prompt"`
	PostTitle   string `json:"post_title"`
	PostContent string `json:"post_content"`
}

// promptBudgets caps the serialized prompt payload per image model.
var promptBudgets = map[string]int{
	"dall-e-2":    1000,
	"dall-e-3":    4000,
	"gpt-image-1": 32000,
}

const defaultPromptBudget = 1000

// PromptBudget returns the maximum serialized prompt length for model.
func PromptBudget(model string) int {
	if budget, ok := promptBudgets[model]; ok {
		return budget
	}
	return defaultPromptBudget
}

// ComposePrompt serializes the prompt context for the given model. When
// the payload exceeds the model's budget, the post content is shortened
// by exactly the overflow; title and instruction are never touched. The
// result is deterministic for identical inputs.
func ComposePrompt(p ImagePrompt, model string) string {
	serialized, _ := json.Marshal(p)
	overflow := len(serialized) - PromptBudget(model)
	if overflow <= 0 {
		return string(serialized)
	}
	cut := overflow
	if cut > len(p.PostContent) {
		cut = len(p.PostContent)
	}
	p.PostContent = p.PostContent[:len(p.PostContent)-cut]
	serialized, _ = json.Marshal(p)
	return string(serialized)
}
