package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/whuang/agentlab/internal/config"
)

// Service is the agent adapter: it owns one compiled eino chain over the
// configured Ark chat model and normalizes every failure into a
// ProviderError. One call per request, no retries, no caching.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the adapter. Missing credentials surface as a
// credential ProviderError so callers can distinguish configuration
// trouble from runtime transport trouble.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, &ProviderError{
			Kind: FailureCredential,
			Err:  fmt.Errorf("ark credentials or model missing"),
		}
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, &ProviderError{Kind: FailureCredential, Err: err}
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{chatModel: chatModel, chain: runnable}, nil
}

// Generate runs one prompt exchange. The call blocks until the provider
// answers or the context ends; cancellation and timeouts arrive through
// ctx and surface as transport failures.
func (s *Service) Generate(ctx context.Context, system, query string) (string, error) {
	input := map[string]any{
		"system": system,
		"query":  query,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", &ProviderError{Kind: FailureTransport, Err: err}
	}

	content := strings.TrimSpace(response.Content)
	if content == "" {
		return "", &ProviderError{Kind: FailureMalformed, Err: fmt.Errorf("empty completion")}
	}

	log.Printf("[ai] completion received, length=%d", len(content))
	return content, nil
}
