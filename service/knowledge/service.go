// Package knowledge abstracts the retrieval store workflow steps consult for
// domain context. The engine only sees the returned context map; where it
// comes from is the implementation's concern.
package knowledge

import (
	"context"
	"fmt"
	"sync"
)

// Service retrieves reference material for a domain key. Implementations may
// call a vector store, a search index or a static corpus; failures propagate
// as step errors.
type Service interface {
	Context(ctx context.Context, domainKey string, params map[string]string) (map[string][]string, error)
}

// Memory is an in-process corpus keyed by domain. It backs tests and the
// example binary.
type Memory struct {
	mu     sync.RWMutex
	corpus map[string]map[string][]string
}

// NewMemory creates an empty in-process corpus.
func NewMemory() *Memory {
	return &Memory{corpus: map[string]map[string][]string{}}
}

// Add registers reference entries under a domain key and topic.
func (m *Memory) Add(domainKey, topic string, entries ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics, ok := m.corpus[domainKey]
	if !ok {
		topics = map[string][]string{}
		m.corpus[domainKey] = topics
	}
	topics[topic] = append(topics[topic], entries...)
	return m
}

// Context returns the corpus entries for the domain key, filtered to the
// requested topic when params carries one.
func (m *Memory) Context(ctx context.Context, domainKey string, params map[string]string) (map[string][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	topics, ok := m.corpus[domainKey]
	if !ok {
		return nil, fmt.Errorf("no knowledge for domain %v", domainKey)
	}
	ret := make(map[string][]string, len(topics))
	topic := params["topic"]
	for name, entries := range topics {
		if topic != "" && name != topic {
			continue
		}
		ret[name] = append([]string{}, entries...)
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("no knowledge for domain %v topic %v", domainKey, topic)
	}
	return ret, nil
}
