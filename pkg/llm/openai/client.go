// Package openai implements the model boundary on the OpenAI
// chat-completions API (or any compatible endpoint via base_url).
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"

	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
)

type Client struct {
	client openai.ChatCompletionService
	model  string
}

type Options struct {
	BaseURL       string
	APIKey        string
	APIKeyFromEnv string
	Model         string
}

func New(opts Options) (*Client, error) {
	var reqOpts []option.RequestOption
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.APIKeyFromEnv != "" {
		apikey := os.Getenv(opts.APIKeyFromEnv)
		if apikey == "" {
			return nil, fmt.Errorf("environment variable %s not found", opts.APIKeyFromEnv)
		}
		reqOpts = append(reqOpts, option.WithAPIKey(apikey))
	} else if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	return &Client{
		client: openai.NewChatCompletionService(reqOpts...),
		model:  opts.Model,
	}, nil
}

func userContent(t conversation.Turn) openai.ChatCompletionMessageParamUnion {
	var hasImage bool
	for _, s := range t.Segments {
		if s.ImageURL != "" {
			hasImage = true
		}
	}
	if !hasImage {
		return openai.UserMessage(t.Text())
	}
	var parts []openai.ChatCompletionContentPartUnionParam
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, openai.TextContentPart(s.Text))
		}
		if s.ImageURL != "" {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    s.ImageURL,
				Detail: "auto",
			}))
		}
	}
	return openai.UserMessage(parts)
}

func toMessages(system string, turns []conversation.Turn) ([]openai.ChatCompletionMessageParamUnion, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	for _, t := range turns {
		switch t.Role {
		case conversation.RoleUser:
			messages = append(messages, userContent(t))
		case conversation.RoleAssistant:
			if t.Call != nil {
				args, err := json.Marshal(t.Call.Args)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal tool args: %w", err)
				}
				messages = append(messages, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						ToolCalls: []openai.ChatCompletionMessageToolCallUnionParam{{
							OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
								ID: t.Call.ID,
								Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
									Name:      t.Call.Name,
									Arguments: string(args),
								},
								Type: "function",
							},
						}},
					},
				})
			} else {
				messages = append(messages, openai.AssistantMessage(t.Text()))
			}
		case conversation.RoleTool:
			if t.Result == nil {
				continue
			}
			messages = append(messages, openai.ToolMessage(t.Result.Content, t.Result.ID))
		}
	}
	return messages, nil
}

func convertTool(tool llm.Tool) (openai.ChatCompletionToolUnionParam, error) {
	encoded, err := json.Marshal(tool.Schema)
	if err != nil {
		return openai.ChatCompletionToolUnionParam{}, err
	}
	parameters := map[string]any{}
	if err := json.Unmarshal(encoded, &parameters); err != nil {
		return openai.ChatCompletionToolUnionParam{}, err
	}
	return openai.ChatCompletionToolUnionParam{
		OfFunction: &openai.ChatCompletionFunctionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: param.NewOpt(tool.Description),
				Parameters:  parameters,
			},
			Type: "function",
		},
	}, nil
}

func (c *Client) Complete(ctx context.Context, system string, turns []conversation.Turn) (string, error) {
	messages, err := toMessages(system, turns)
	if err != nil {
		return "", err
	}
	resp, err := c.client.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) CompleteWithTool(ctx context.Context, system string, turns []conversation.Turn, tool llm.Tool) (llm.Reply, error) {
	messages, err := toMessages(system, turns)
	if err != nil {
		return llm.Reply{}, err
	}
	toolParam, err := convertTool(tool)
	if err != nil {
		return llm.Reply{}, err
	}
	resp, err := c.client.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
		Tools:    []openai.ChatCompletionToolUnionParam{toolParam},
	})
	if err != nil {
		return llm.Reply{}, err
	}
	if len(resp.Choices) == 0 {
		return llm.Reply{}, nil
	}
	msg := resp.Choices[0].Message
	for _, tc := range msg.ToolCalls {
		if tc.Function.Name != tool.Name {
			continue
		}
		parsed := map[string]any{}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &parsed); err != nil {
			return llm.Reply{}, fmt.Errorf("failed to parse tool arguments: %w", err)
		}
		return llm.Reply{
			Text: msg.Content,
			Call: &conversation.ToolCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: parsed,
			},
		}, nil
	}
	return llm.Reply{Text: msg.Content}, nil
}
