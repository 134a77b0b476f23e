package backend

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// contracts maps an endpoint path to the compiled schema of its success body.
var contracts = map[string]*jsonschema.Schema{}

func init() {
	for endpoint, file := range map[string]string{
		pathDetectCancer:  "detect-cancer.json",
		pathPredictImage:  "predict.json",
		pathCancerTypes:   "cancer-types.json",
		pathPatients:      "patients.json",
		pathClusterStats:  "cluster-stats.json",
		pathClusterCounts: "cluster-counts.json",
		pathTopRisk:       "top-risk.json",
		pathAggressivity:  "predictAgressivity.json",
		pathHADS:          "predict_hads.json",
		pathMenopause:     "predict-menopause-risk.json",
		pathRecurrence:    "predict-recurrence.json",
		pathRisk:          "predictRisk.json",
		pathHealth:        "health.json",
	} {
		contracts[endpoint] = mustCompileSchema(file)
	}
}

func mustCompileSchema(name string) *jsonschema.Schema {
	raw, err := schemaFiles.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded %s: %v", name, err))
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}
	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// checkContract parses body as JSON and validates it against the endpoint's schema.
func checkContract(endpoint string, body []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, ok := contracts[endpoint]
	if !ok {
		return nil
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	return nil
}
