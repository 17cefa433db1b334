package api

import (
	"context"

	"neighbournode.dev/cli/internal/core/domain"
)

// AskChatbot sends a natural-language question about the neighbourhood and
// returns the rendered answer with its structured matches.
func (g *Gateway) AskChatbot(ctx context.Context, query domain.ChatQuery) (*domain.ChatAnswer, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var answer domain.ChatAnswer
	if err := g.client.PostJSON(ctx, "/chatbot/query", query, &answer); err != nil {
		return nil, err
	}
	return &answer, nil
}
