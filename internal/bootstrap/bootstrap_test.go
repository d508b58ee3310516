package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

const memoryConfig = `server:
  mode: memory
jwt:
  secret: test-secret
monitor:
  queue_schedule: "@every 1h"
logging:
  level: error
`

type BootstrapSuite struct {
	suite.Suite
	deps *Dependencies
}

func TestBootstrapSuite(t *testing.T) {
	suite.Run(t, new(BootstrapSuite))
}

func (s *BootstrapSuite) SetupTest() {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(memoryConfig), 0o600))

	cfg, err := LoadConfigAndSetupLogger(path)
	s.Require().NoError(err)

	s.deps, err = BuildDependencies(cfg)
	s.Require().NoError(err)
}

func (s *BootstrapSuite) TearDownTest() {
	s.deps.Close()
}

func (s *BootstrapSuite) TestBuildDependencies() {
	s.Run("memory mode skips the database", func() {
		s.Nil(s.deps.Postgres)
		s.Nil(s.deps.Redis)
		s.NotNil(s.deps.PersonService)
		s.NotNil(s.deps.SyncService)
		s.Equal(2, s.deps.Scheduler.Entries())
	})

	s.Run("router serves health", func() {
		w := httptest.NewRecorder()
		SetupRouter(s.deps).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		s.Equal(http.StatusOK, w.Code)
	})
}
