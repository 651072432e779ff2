package main

import (
	"context"
	"log"
	"time"

	"ai-helpdesk-be/internal/config"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/implementation"
	"ai-helpdesk-be/pkg/database"
	"ai-helpdesk-be/pkg/embedding"

	"github.com/google/uuid"
)

// Seeds one demo workspace with knowledge snippets and urgency rules,
// computing embeddings through the configured provider.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var embedder embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	} else {
		embedder = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
	}

	ctx := context.Background()
	workspaceId := uuid.New()
	log.Printf("Seeding demo workspace %s...", workspaceId)

	contentRepo := implementation.NewContentRepository(db)
	snippets := []struct {
		title string
		text  string
	}{
		{"Shipping Policy", "Standard orders ship within five business days. Express shipping delivers in two business days for an extra fee."},
		{"Password Reset", "To reset your password, open Settings, choose Security, and click 'Send reset link'. The link expires after one hour."},
		{"Refund Policy", "Purchases can be refunded within 30 days of delivery. Refunds are issued to the original payment method within five business days."},
		{"Account Deletion", "Account deletion is permanent. Export your data first; all stored content is removed within 24 hours of confirmation."},
	}

	for _, s := range snippets {
		vector, err := embedder.Embed(ctx, s.text)
		if err != nil {
			log.Fatalf("Error embedding snippet '%s': %v", s.title, err)
		}
		snippet := &entity.ContentSnippet{
			Id:          uuid.New(),
			WorkspaceId: workspaceId,
			Title:       s.title,
			Text:        s.text,
			Embedding:   vector,
			CreatedAt:   time.Now(),
		}
		if err := contentRepo.Create(ctx, snippet); err != nil {
			log.Printf("Error creating snippet '%s': %v", s.title, err)
		} else {
			log.Printf("Created snippet: %s", s.title)
		}
	}

	ruleRepo := implementation.NewUrgencyRuleRepository(db)
	rules := []string{
		"the user threatens to cancel their subscription",
		"the user reports losing data or content",
		"the user reports being charged incorrectly",
	}

	for _, text := range rules {
		vector, err := embedder.Embed(ctx, text)
		if err != nil {
			log.Fatalf("Error embedding rule '%s': %v", text, err)
		}
		rule := &entity.UrgencyRule{
			Id:          uuid.New(),
			WorkspaceId: workspaceId,
			RuleText:    text,
			Embedding:   vector,
			CreatedAt:   time.Now(),
		}
		if err := ruleRepo.Create(ctx, rule); err != nil {
			log.Printf("Error creating rule '%s': %v", text, err)
		} else {
			log.Printf("Created urgency rule: %s", text)
		}
	}

	log.Println("✅ Seeding completed!")
}
