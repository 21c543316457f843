// Package gemini implements the model boundary on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
)

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, model string, clientConfig *genai.ClientConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: model}, nil
}

func toSchema(s *jsonschema.Schema) (*genai.Schema, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	decoded := &genai.Schema{}
	if err := json.Unmarshal(encoded, decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func toContents(turns []conversation.Turn) []*genai.Content {
	var contents []*genai.Content
	for _, t := range turns {
		switch t.Role {
		case conversation.RoleUser:
			var parts []*genai.Part
			for _, s := range t.Segments {
				if s.Text != "" {
					parts = append(parts, &genai.Part{Text: s.Text})
				}
				if s.ImageURL != "" {
					parts = append(parts, &genai.Part{
						FileData: &genai.FileData{FileURI: s.ImageURL},
					})
				}
			}
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})
		case conversation.RoleAssistant:
			var parts []*genai.Part
			if text := t.Text(); text != "" {
				parts = append(parts, &genai.Part{Text: text})
			}
			if t.Call != nil {
				parts = append(parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{
						ID:   t.Call.ID,
						Name: t.Call.Name,
						Args: t.Call.Args,
					},
				})
			}
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: parts})
		case conversation.RoleTool:
			if t.Result == nil {
				continue
			}
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						ID:       t.Result.ID,
						Name:     t.Result.Name,
						Response: map[string]any{"content": t.Result.Content},
					},
				}},
			})
		}
	}
	return contents
}

func (c *Client) generate(ctx context.Context, system string, turns []conversation.Turn, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return c.client.Models.GenerateContent(ctx, c.model, toContents(turns), config)
}

func (c *Client) Complete(ctx context.Context, system string, turns []conversation.Turn) (string, error) {
	resp, err := c.generate(ctx, system, turns, &genai.GenerateContentConfig{})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			text += part.Text
		}
	}
	return text, nil
}

func (c *Client) CompleteWithTool(ctx context.Context, system string, turns []conversation.Turn, tool llm.Tool) (llm.Reply, error) {
	params, err := toSchema(tool.Schema)
	if err != nil {
		return llm.Reply{}, fmt.Errorf("failed to encode request schema for %s: %w", tool.Name, err)
	}
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{
			FunctionDeclarations: []*genai.FunctionDeclaration{{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			}},
		}},
	}
	resp, err := c.generate(ctx, system, turns, config)
	if err != nil {
		return llm.Reply{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return llm.Reply{}, nil
	}
	var reply llm.Reply
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			reply.Text += part.Text
		}
		if part.FunctionCall != nil && reply.Call == nil {
			reply.Call = &conversation.ToolCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			}
		}
	}
	return reply, nil
}
