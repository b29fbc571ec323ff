package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mnemonic-fyi/mnemonic/internal/config"
	"github.com/mnemonic-fyi/mnemonic/internal/database"
	"github.com/mnemonic-fyi/mnemonic/internal/notion"
	"github.com/mnemonic-fyi/mnemonic/internal/openai"
	"github.com/mnemonic-fyi/mnemonic/internal/repository"
	"github.com/mnemonic-fyi/mnemonic/internal/service"
	"github.com/mnemonic-fyi/mnemonic/internal/slack"
)

// deps bundles the wiring shared by the serve, ingest, and stats commands.
type deps struct {
	cfg  *config.Config
	pool *pgxpool.Pool
	repo *repository.KnowledgeRepository

	embedding    service.EmbeddingClient
	synthesizer  service.Synthesizer
	slackClient  *slack.Client
	notionClient *notion.Client
}

func openDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("connected to database")

	d := &deps{
		cfg:  cfg,
		pool: pool,
		repo: repository.NewKnowledgeRepository(pool),
	}

	if cfg.HasOpenAI() {
		client := openai.NewClient(cfg.OpenAIAPIKey)
		d.embedding = client
		d.synthesizer = service.NewAnswerSynthesizer(client)
	} else {
		log.Println("MNEMONIC_OPENAI_API_KEY not set: substring retrieval with extractive answers")
		d.embedding = &noOpEmbeddingClient{}
		d.synthesizer = service.NewExtractiveSynthesizer()
	}

	if cfg.HasSlack() {
		d.slackClient = slack.NewClient(cfg.SlackBotToken)
	}
	if cfg.HasNotion() {
		d.notionClient = notion.NewClient(cfg.NotionAPIKey)
	}

	return d, nil
}

func (d *deps) close() {
	d.pool.Close()
}

// searchStrategy downgrades to substring retrieval when no embedding
// provider is configured.
func (d *deps) searchStrategy() string {
	if !d.cfg.HasOpenAI() {
		return "substring"
	}
	return d.cfg.SearchStrategy
}

func (d *deps) ingestService() *service.IngestService {
	var slackFetcher service.SlackFetcher
	if d.slackClient != nil {
		slackFetcher = d.slackClient
	}
	var notionFetcher service.NotionFetcher
	if d.notionClient != nil {
		notionFetcher = d.notionClient
	}
	return service.NewIngestService(slackFetcher, notionFetcher, d.embedding, d.repo, &service.DefaultUUIDGenerator{})
}
