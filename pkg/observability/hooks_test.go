package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnEnumerateStart(ctx, "bracelet", 6)
	p.OnEnumerateComplete(ctx, "bracelet", 6, time.Second, nil)
	p.OnSearchStart(ctx, 13, "minimal_variance")
	p.OnSearchComplete(ctx, 13, "minimal_variance", 99, time.Second, nil)
	p.OnExportComplete(ctx, "json", time.Millisecond, errors.New("disk full"))

	// Catalog hooks
	c := NoopCatalogHooks{}
	c.OnCatalogHit(ctx, "file")
	c.OnCatalogMiss(ctx, "redis")
	c.OnCatalogPut(ctx, "mongo", true)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/enumerate")
	h.OnResponse(ctx, "POST", "/v1/enumerate", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/enumerate", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Catalog().(NoopCatalogHooks); !ok {
		t.Error("Catalog() should return NoopCatalogHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCatalog := &testCatalogHooks{}
	SetCatalogHooks(customCatalog)
	if Catalog() != customCatalog {
		t.Error("SetCatalogHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore NoopPipelineHooks")
	}
	if _, ok := Catalog().(NoopCatalogHooks); !ok {
		t.Error("Reset should restore NoopCatalogHooks")
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	Reset()
	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)
	SetCatalogHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
	if _, ok := Catalog().(NoopCatalogHooks); !ok {
		t.Error("SetCatalogHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCatalogHooks struct{ NoopCatalogHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
