package handlers

import (
	"datatalk/ai"
	"datatalk/config"
	"datatalk/db"
	"datatalk/service"
)

// @title           DataTalk API
// @version         1.0
// @description     Conversational assistant that answers questions by querying a connected data platform through AI tool calls

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

const sessionCookie = "session_id"

type Handlers struct {
	db           *db.DB
	aiService    *ai.AIService
	identity     *service.IdentityClient
	searchClient *service.SearchClient
	cfg          config.Config
}

func New(database *db.DB, aiService *ai.AIService, identity *service.IdentityClient, searchClient *service.SearchClient, cfg config.Config) *Handlers {
	return &Handlers{
		db:           database,
		aiService:    aiService,
		identity:     identity,
		searchClient: searchClient,
		cfg:          cfg,
	}
}
