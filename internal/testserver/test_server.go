package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/mcp"
	"github.com/rpggio/listview/internal/sqlite"
	"github.com/rpggio/listview/internal/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// TestServer is the whole HTTP stack over an in-memory database.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Keys      *sqlite.APIKeyRepository
	Resources *resource.Service
	Token     string
	Principal access.Principal
}

// New starts a server whose callers authenticate with bearer tokens. token
// is registered for p.
func New(t *testing.T, token string, p access.Principal) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activityRepo := sqlite.NewActivityRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	resourceSvc := resource.NewService(sqlite.NewResourceRepository(db), sqlite.NewCollectionRepository(db), activityRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	viewSvc, err := listview.NewService(listview.DefaultPresets(), resourceSvc, sqlite.NewViewStateRepository(db), activityRepo, nil, listview.Options{
		Language: language.English,
	})
	require.NoError(t, err)

	handler := mcp.NewHandler(resourceSvc, viewSvc, activitySvc)
	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       handler,
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(handler, transport.Options{
		Auth: transport.AuthMiddleware(keys),
		MCP:  mcpHandler,
	}))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Keys:      keys,
		Resources: resourceSvc,
		Token:     token,
		Principal: p,
	}

	require.NoError(t, ts.AddAPIKey(token, p))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another token.
func (ts *TestServer) AddAPIKey(token string, p access.Principal) error {
	return ts.Keys.Create(context.Background(), token, p, "test")
}
