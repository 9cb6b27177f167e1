package api

import (
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// =============================================================================
// OpenAPI Specification
// =============================================================================

var (
	apiSpec     *openapi3.T
	apiSpecOnce sync.Once
)

// handleOpenAPI serves the OpenAPI 3.0 specification.
func (h *Handler) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	apiSpecOnce.Do(func() {
		apiSpec = buildSpec()
	})
	w.Header().Set("Access-Control-Allow-Origin", "*")
	h.writeJSON(w, http.StatusOK, apiSpec)
}

// buildSpec assembles the OpenAPI document for the catalog API.
func buildSpec() *openapi3.T {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Catalog API",
			Version:     "1.0.0",
			Description: "Product catalog management with URL slug lifecycle and SliceWP affiliate integration",
		},
		Servers: openapi3.Servers{
			&openapi3.Server{URL: "/"},
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	addSchemas(spec)

	idParam := openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:     "id",
				In:       "path",
				Required: true,
				Schema:   stringSchema(),
			},
		},
	}
	affiliateParam := &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:   "affiliate_id",
			In:     "query",
			Schema: stringSchema(),
		},
	}

	spec.Paths.Set("/health", &openapi3.PathItem{
		Get: op("getHealth", "Liveness probe", "Health"),
	})
	spec.Paths.Set("/ready", &openapi3.PathItem{
		Get: op("getReady", "Readiness probe", "Health"),
	})

	spec.Paths.Set("/api/v1/products", &openapi3.PathItem{
		Get: withParams(op("listProducts", "List products", "Products"),
			queryParam("search", "string"),
			queryParam("limit", "integer"),
			queryParam("offset", "integer"),
		),
	})
	spec.Paths.Set("/api/v1/products/summary", &openapi3.PathItem{
		Get: op("getSummary", "Catalog field completion summary", "Products"),
	})
	spec.Paths.Set("/api/v1/products/{id}", &openapi3.PathItem{
		Parameters: idParam,
		Get:        op("getProduct", "Get a product", "Products"),
	})
	spec.Paths.Set("/api/v1/products/{id}/slug", &openapi3.PathItem{
		Parameters: idParam,
		Put:        withBody(op("updateProductSlug", "Set a product's URL slug", "Products"), "UpdateSlugRequest"),
	})
	spec.Paths.Set("/api/v1/products/{id}/links", &openapi3.PathItem{
		Parameters: idParam,
		Get:        withParams(op("getProductLinks", "Get product and affiliate URLs", "Products"), affiliateParam),
	})
	spec.Paths.Set("/api/v1/products/{id}/integration", &openapi3.PathItem{
		Parameters: idParam,
		Get:        withParams(op("getProductIntegration", "Get SliceWP integration snippets", "Products"), affiliateParam),
	})

	spec.Paths.Set("/api/v1/slugs/validate", &openapi3.PathItem{
		Post: withBody(op("validateSlug", "Validate a slug and check availability", "Slugs"), "ValidateSlugRequest"),
	})
	spec.Paths.Set("/api/v1/slugs/suggest", &openapi3.PathItem{
		Post: withBody(op("suggestSlug", "Suggest a slug for a product name", "Slugs"), "SuggestSlugRequest"),
	})
	spec.Paths.Set("/api/v1/slugs/bulk", &openapi3.PathItem{
		Post: withBody(op("bulkUpdateSlugs", "Apply multiple slug updates", "Slugs"), "BulkUpdateRequest"),
	})
	spec.Paths.Set("/api/v1/slugs/generate-missing", &openapi3.PathItem{
		Post: op("generateMissingSlugs", "Generate slugs for products without one", "Slugs"),
	})
	spec.Paths.Set("/api/v1/slugs/analysis", &openapi3.PathItem{
		Get: op("getSlugAnalysis", "Slug health analysis", "Slugs"),
	})

	spec.Paths.Set("/api/v1/exports/affiliate-links.csv", &openapi3.PathItem{
		Get: withParams(op("exportAffiliateLinksCSV", "Download affiliate links CSV", "Exports"), affiliateParam),
	})
	spec.Paths.Set("/api/v1/exports/slicewp-config.json", &openapi3.PathItem{
		Get: withParams(op("exportSliceWPConfig", "Download SliceWP plugin configuration", "Exports"),
			queryParam("commission_rate", "number"),
		),
	})
	spec.Paths.Set("/api/v1/exports/catalog.pdf", &openapi3.PathItem{
		Get: op("exportCatalogPDF", "Download product catalog PDF", "Exports"),
	})
	spec.Paths.Set("/api/v1/exports/affiliate-report.pdf", &openapi3.PathItem{
		Get: op("exportAffiliateReportPDF", "Download affiliate links report PDF", "Exports"),
	})

	return spec
}

// =============================================================================
// Schema Helpers
// =============================================================================

func addSchemas(spec *openapi3.T) {
	spec.Components.Schemas["UpdateSlugRequest"] = objectSchema(map[string]*openapi3.SchemaRef{
		"slug": stringSchema(),
	}, "slug")

	spec.Components.Schemas["ValidateSlugRequest"] = objectSchema(map[string]*openapi3.SchemaRef{
		"slug":              stringSchema(),
		"exclude_record_id": stringSchema(),
	}, "slug")

	spec.Components.Schemas["SuggestSlugRequest"] = objectSchema(map[string]*openapi3.SchemaRef{
		"name": stringSchema(),
	}, "name")

	spec.Components.Schemas["SlugUpdate"] = objectSchema(map[string]*openapi3.SchemaRef{
		"record_id": stringSchema(),
		"new_slug":  stringSchema(),
	}, "record_id", "new_slug")

	spec.Components.Schemas["BulkUpdateRequest"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"updates": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: &openapi3.SchemaRef{Ref: "#/components/schemas/SlugUpdate"},
					},
				},
			},
			Required: []string{"updates"},
		},
	}

	spec.Components.Schemas["Error"] = objectSchema(map[string]*openapi3.SchemaRef{
		"error": stringSchema(),
		"code":  stringSchema(),
	})
}

func stringSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{Type: &openapi3.Types{"string"}},
	}
}

func objectSchema(props map[string]*openapi3.SchemaRef, required ...string) *openapi3.SchemaRef {
	schemas := make(openapi3.Schemas, len(props))
	for name, ref := range props {
		schemas[name] = ref
	}
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:       &openapi3.Types{"object"},
			Properties: schemas,
			Required:   required,
		},
	}
}

// =============================================================================
// Operation Helpers
// =============================================================================

func op(id, summary, tag string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: id,
		Summary:     summary,
		Tags:        []string{tag},
		Responses:   &openapi3.Responses{},
	}
}

func withBody(o *openapi3.Operation, schemaName string) *openapi3.Operation {
	o.RequestBody = &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{Ref: "#/components/schemas/" + schemaName},
				},
			},
		},
	}
	return o
}

func withParams(o *openapi3.Operation, params ...*openapi3.ParameterRef) *openapi3.Operation {
	o.Parameters = append(o.Parameters, params...)
	return o
}

func queryParam(name, typ string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name: name,
			In:   "query",
			Schema: &openapi3.SchemaRef{
				Value: &openapi3.Schema{Type: &openapi3.Types{typ}},
			},
		},
	}
}
