package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"WardCare360/config"
	"WardCare360/server"
	"WardCare360/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWiresEveryHandler(t *testing.T) {
	isTest = true
	defer func() { isTest = false }()
	t.Setenv("MONGO_ENABLED", "false")
	t.Setenv("CACHE_ENABLED", "false")

	var capturedOpts server.Options
	original := startServer
	startServer = func(opts server.Options) {
		capturedOpts = opts
	}
	defer func() { startServer = original }()

	main()
	run()

	require.NotNil(t, capturedOpts.Config)
	assert.False(t, capturedOpts.JobsEnabled)
	assert.False(t, capturedOpts.MigrationEnabled)

	require.NoError(t, capturedOpts.BootstrapHandler(&server.Runtime{Config: capturedOpts.Config}))
	capturedOpts.JobsHandler()
	capturedOpts.MigrationHandler()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	capturedOpts.WebServerPreHandler(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/patients", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAllowsAnyOrigin(t *testing.T) {
	assert.True(t, allowsAnyOrigin([]string{"*"}))
	assert.True(t, allowsAnyOrigin(nil))
	assert.False(t, allowsAnyOrigin([]string{"https://ward.example.org"}))
}

func TestLoadSigningKeyFromConfig(t *testing.T) {
	key, err := loadSigningKey(&config.Config{})
	require.NoError(t, err)
	assert.Nil(t, key)

	generated, _, err := services.GenerateKeyPair()
	require.NoError(t, err)
	key, err = loadSigningKey(&config.Config{SigningKeyPEM: string(services.EncodePrivateKey(generated))})
	require.NoError(t, err)
	assert.True(t, generated.Equal(key))

	_, err = loadSigningKey(&config.Config{SigningKeyPEM: "garbage"})
	assert.Error(t, err)
	assert.Error(t, bootstrap(&server.Runtime{Config: &config.Config{SigningKeyPEM: "garbage"}}))
}
