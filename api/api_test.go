package api_test

import (
	"context"
	"encoding/json"
	"testing"

	"fooddelivery/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestLoad(t *testing.T) {
	doc, err := api.Load(context.Background())
	require.NoError(t, err)

	claim := doc.Paths.Value("/api/v1/orders/{id}/claim")
	require.NotNil(t, claim)
	assert.Equal(t, "ClaimOrder", claim.Post.OperationID)

	callback := doc.Paths.Value("/api/v1/payments/callback")
	require.NotNil(t, callback)
	assert.Empty(t, callback.Post.Parameters, "the gateway callback carries no actor headers")
}

func TestSwaggerDocIsRegistered(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/v1/riders/available")
}
