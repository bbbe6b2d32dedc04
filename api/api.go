// Package api embeds the OpenAPI document of the HTTP surface. The inbound adapter validates
// requests against it, and it is registered with swag so echo-swagger can serve it.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var document []byte

// Load parses the embedded document and checks that it is a valid OpenAPI 3 description.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi document is invalid: %w", err)
	}
	return doc, nil
}

// swaggerDoc hands the document to swag as JSON, which is what the swagger UI fetches.
type swaggerDoc struct {
	once sync.Once
	json string
}

func (d *swaggerDoc) ReadDoc() string {
	d.once.Do(func() {
		d.json = "{}"
		doc, err := Load(context.Background())
		if err != nil {
			return
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			return
		}
		d.json = string(raw)
	})
	return d.json
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
