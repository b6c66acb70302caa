package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-backend/internal/docs"
	"library-backend/internal/platform/config"
	"library-backend/internal/platform/session"
	"library-backend/internal/stubs"
)

var ginParam = regexp.MustCompile(`:([A-Za-z0-9_]+)`)

// swaggerPath は gin のルートを swagger の書式 (basePath 抜き，{id}) に直す
func swaggerPath(route string) string {
	return ginParam.ReplaceAllString(strings.TrimPrefix(route, "/api"), "{$1}")
}

func TestSwaggerDoc_CoversAPIRoutes(t *testing.T) {
	cfg := &config.Config{Version: "test", Mode: config.ModeRelease}
	issuer := session.NewIssuer([]byte("test-secret"), time.Hour)
	r := NewRouter(cfg, zap.NewNop(), MemoryRepositories(stubs.NewSeededMemoryDB(time.Now().UTC())), issuer)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))
	require.Equal(t, "/api", doc.BasePath)

	routed := make(map[string]bool)
	for _, rt := range r.Routes() {
		if !strings.HasPrefix(rt.Path, "/api/") {
			continue
		}
		path, method := swaggerPath(rt.Path), strings.ToLower(rt.Method)
		routed[method+" "+path] = true

		ops, ok := doc.Paths[path]
		if !assert.Truef(t, ok, "%s %s is not documented", rt.Method, rt.Path) {
			continue
		}
		_, ok = ops[method]
		assert.Truef(t, ok, "%s %s is not documented", rt.Method, rt.Path)
	}
	require.NotEmpty(t, routed)

	// 逆方向: ドキュメントにだけ残っている操作が無いこと
	for path, ops := range doc.Paths {
		for method := range ops {
			assert.Truef(t, routed[method+" "+path], "%s %s is documented but not routed", strings.ToUpper(method), path)
		}
	}
}

func TestSwaggerUI(t *testing.T) {
	cfg := &config.Config{Version: "test", Mode: config.ModeRelease}
	issuer := session.NewIssuer([]byte("test-secret"), time.Hour)
	r := NewRouter(cfg, zap.NewNop(), MemoryRepositories(stubs.NewMemoryDB()), issuer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/reserve/{id}"`)
}
