package search

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	gql "github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const policyClass = "HRPolicy"

// PolicyHit is one matching policy passage.
type PolicyHit struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}

// PolicyIndex is the vector index over HR policy documents.
type PolicyIndex interface {
	Search(ctx context.Context, query string, topK int) ([]PolicyHit, error)
	Upsert(ctx context.Context, title, category, content string) error
}

type weaviatePolicyIndex struct {
	client   *weaviate.Client
	embedder Embedder
}

// NewPolicyIndex connects to Weaviate at host and ensures the policy class
// exists. Vectors come from the supplied embedder; hybrid search blends them
// with keyword matching.
func NewPolicyIndex(ctx context.Context, host string, embedder Embedder) (PolicyIndex, error) {
	cfg := weaviate.Config{Scheme: "http", Host: host}
	cl, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	idx := &weaviatePolicyIndex{client: cl, embedder: embedder}
	if err := idx.ensureClass(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (w *weaviatePolicyIndex) ensureClass(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	existing, err := w.client.Schema().ClassGetter().WithClassName(policyClass).Do(cctx)
	if err == nil && existing != nil {
		return nil
	}
	class := &models.Class{
		Class:      policyClass,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: "title", DataType: []string{"text"}},
			{Name: "category", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
		},
	}
	if err := w.client.Schema().ClassCreator().WithClass(class).Do(cctx); err != nil {
		return fmt.Errorf("create class %s: %w", policyClass, err)
	}
	return nil
}

func (w *weaviatePolicyIndex) Upsert(ctx context.Context, title, category, content string) error {
	vec, err := w.embedder.Embed(ctx, title+"\n"+content)
	if err != nil {
		return fmt.Errorf("embed policy: %w", err)
	}
	// Deterministic id from the title keeps re-ingestion idempotent.
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(title)).String()
	_, err = w.client.Data().Creator().
		WithClassName(policyClass).
		WithID(id).
		WithProperties(map[string]interface{}{
			"title":    title,
			"category": category,
			"content":  content,
		}).
		WithVector(vec).
		Do(ctx)
	return err
}

func (w *weaviatePolicyIndex) Search(ctx context.Context, query string, topK int) ([]PolicyHit, error) {
	vec, err := w.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hy := (&gql.HybridArgumentBuilder{}).
		WithQuery(query).
		WithVector(vec).
		WithAlpha(0.5).
		WithProperties([]string{"title", "content"})

	resp, err := w.client.GraphQL().Get().
		WithClassName(policyClass).
		WithHybrid(hy).
		WithLimit(topK).
		WithFields(
			gql.Field{Name: "title"},
			gql.Field{Name: "category"},
			gql.Field{Name: "content"},
			gql.Field{Name: "_additional", Fields: []gql.Field{{Name: "score"}}},
		).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate graphql: %v", resp.Errors[0].Message)
	}

	getData, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	raw, ok := getData[policyClass].([]interface{})
	if !ok {
		return []PolicyHit{}, nil
	}

	out := make([]PolicyHit, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		hit := PolicyHit{}
		hit.Title, _ = m["title"].(string)
		hit.Category, _ = m["category"].(string)
		hit.Content, _ = m["content"].(string)
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			switch v := add["score"].(type) {
			case float64:
				hit.Score = v
			case string:
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					hit.Score = f
				}
			}
		}
		out = append(out, hit)
	}
	return out, nil
}
