//go:build integration

// Package docstore integration tests run against a SurrealDB container.
package docstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testDimension = 8

var testStore *Store
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testStore, err = NewStore(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		Dimension: testDimension,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testStore.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testStore.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

// unitVector returns an embedding with a single non-zero component, so
// cosine similarity between vectors is trivially predictable.
func unitVector(axis int) []float32 {
	embedding := make([]float32, testDimension)
	embedding[axis] = 1.0
	return embedding
}

func TestUpsertAndMatch(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testStore.WipeData(ctx) }()

	if err := testStore.UpsertDocument(ctx, "doc-1", "Built an e-commerce platform with Next.js", unitVector(0), map[string]any{"type": "project"}); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if err := testStore.UpsertDocument(ctx, "doc-2", "Framer Motion landing page", unitVector(1), nil); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	docs, err := testStore.MatchDocuments(ctx, unitVector(0), 0.7, 5)
	if err != nil {
		t.Fatalf("MatchDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 match above threshold, got %d", len(docs))
	}
	if docs[0].Content != "Built an e-commerce platform with Next.js" {
		t.Errorf("Unexpected match content: %q", docs[0].Content)
	}
	if docs[0].Similarity < 0.99 {
		t.Errorf("Expected similarity ~1.0, got %f", docs[0].Similarity)
	}
}

func TestMatchRespectsLimit(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testStore.WipeData(ctx) }()

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("doc-%d", i)
		if err := testStore.UpsertDocument(ctx, id, fmt.Sprintf("document %d", i), unitVector(0), nil); err != nil {
			t.Fatalf("UpsertDocument failed: %v", err)
		}
	}

	docs, err := testStore.MatchDocuments(ctx, unitVector(0), 0.7, 5)
	if err != nil {
		t.Fatalf("MatchDocuments failed: %v", err)
	}
	if len(docs) > 5 {
		t.Errorf("Expected at most 5 matches, got %d", len(docs))
	}
}

func TestMatchEmptyStore(t *testing.T) {
	ctx := context.Background()
	_ = testStore.WipeData(ctx)

	docs, err := testStore.MatchDocuments(ctx, unitVector(0), 0.7, 5)
	if err != nil {
		t.Fatalf("MatchDocuments failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("Expected no matches, got %d", len(docs))
	}
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	ctx := context.Background()

	err := testStore.UpsertDocument(ctx, "bad", "content", []float32{1, 2}, nil)
	if err == nil {
		t.Fatal("Expected dimension mismatch error")
	}
}

func TestUpsertReplacesDocument(t *testing.T) {
	ctx := context.Background()
	defer func() { _ = testStore.WipeData(ctx) }()

	if err := testStore.UpsertDocument(ctx, "doc-1", "old content", unitVector(0), nil); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}
	if err := testStore.UpsertDocument(ctx, "doc-1", "new content", unitVector(0), nil); err != nil {
		t.Fatalf("UpsertDocument failed: %v", err)
	}

	count, err := testStore.CountDocuments(ctx)
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 document after re-upsert, got %d", count)
	}

	docs, err := testStore.MatchDocuments(ctx, unitVector(0), 0.7, 5)
	if err != nil {
		t.Fatalf("MatchDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Content != "new content" {
		t.Errorf("Expected replaced content, got %+v", docs)
	}
}
