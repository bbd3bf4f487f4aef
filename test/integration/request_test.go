package integration

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/cryogrid-fetcher/internal/config"
	"github.com/eugenenazirov/cryogrid-fetcher/internal/schema"
)

func fillTemplate(t *testing.T, path string, fill func(doc map[string]any)) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse template: %v", err)
	}

	fill(doc)

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		t.Fatalf("write request: %v", err)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	for _, key := range []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_ENDPOINT_URL", "AWS_REGION"} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}

	workDir := t.TempDir()
	dotenv := "AWS_ACCESS_KEY_ID=AKIDEXAMPLE\nAWS_SECRET_ACCESS_KEY=secret\nAWS_ENDPOINT_URL=https://s3.example.org\n"
	if err := os.WriteFile(filepath.Join(workDir, ".env"), []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	path := filepath.Join(workDir, "request.yaml")
	if err := schema.WriteTemplate(path); err != nil {
		t.Fatalf("WriteTemplate returned error: %v", err)
	}

	fillTemplate(t, path, func(doc map[string]any) {
		doc["bbox_WSEN"] = []any{7.5, 45.8, 10.5, 47.8}
		doc["start_year"] = 1990
		doc["end_year"] = 1991
		doc["fpath_base_s3"] = "s3://alps-forcing/cryogrid/{bbox_str}/"
		doc["fname_dotenv"] = ".env"
	})

	req, err := config.Load(path,
		config.WithLogger(zaptest.NewLogger(t)),
		config.WithAllowedBuckets("alps-forcing"),
		config.WithDotenvSearchDir(workDir),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if req.BBoxStr != "W750_S4580_E1050_N4780" {
		t.Fatalf("unexpected bbox_str %s", req.BBoxStr)
	}
	if want := "s3://alps-forcing/cryogrid/W750_S4580_E1050_N4780/era5/"; req.ERA5.DstDirS3 != want {
		t.Fatalf("expected ERA5 destination %s, got %s", want, req.ERA5.DstDirS3)
	}
	if want := "s3://alps-forcing/cryogrid/W750_S4580_E1050_N4780/dem/cop30.tif"; req.DEM.FpathS3 != want {
		t.Fatalf("expected DEM path %s, got %s", want, req.DEM.FpathS3)
	}
	if len(req.Years()) != 2 {
		t.Fatalf("unexpected years %v", req.Years())
	}
	if missing := req.Credentials.Missing(); len(missing) != 0 {
		t.Fatalf("expected credentials from .env, missing %v", missing)
	}
}
