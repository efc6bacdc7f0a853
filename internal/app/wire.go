package app

import (
	"net/http"

	"sealedchat/internal/directory"
	"sealedchat/internal/domain"
	identitysvc "sealedchat/internal/services/identity"
	messagesvc "sealedchat/internal/services/message"
	sessionsvc "sealedchat/internal/services/session"
	"sealedchat/internal/store"
)

// App bundles all stores, services, and clients for the CLI.
type App struct {
	IDs       domain.IdentityService
	Sessions  domain.SessionService
	Messages  domain.MessageService
	Directory domain.DirectoryClient
	Creds     domain.CredentialStore
}

// New constructs the dependency graph from cfg. A cached login token, if
// one exists, is installed on the directory client so authenticated
// commands work without a fresh login.
func New(cfg Config) (*App, error) {
	identityStore := store.NewIdentityFileStore(cfg.Home)
	sessionStore := store.NewSessionFileStore(cfg.Home)
	counterStore := store.NewCounterFileStore(cfg.Home)
	credStore := store.NewCredentialFileStore(cfg.Home)

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	dir := directory.NewClient(cfg.ServerURL, httpClient)
	if creds, ok, err := credStore.LoadCredentials(); err == nil && ok {
		dir.SetToken(creds.Token)
	}

	idSvc := identitysvc.New(identityStore)
	sessSvc := sessionsvc.New(identityStore, sessionStore, dir)
	msgSvc := messagesvc.New(identityStore, sessSvc, counterStore, credStore, dir)

	return &App{
		IDs:       idSvc,
		Sessions:  sessSvc,
		Messages:  msgSvc,
		Directory: dir,
		Creds:     credStore,
	}, nil
}
