package ai

import (
	"context"
	"log"
	"sync"

	"buku-saku-server/config"
)

// SharedEmbedder : klien embedding tunggal untuk seluruh proses.
// Inisialisasi malas dengan sync.Once supaya request paralel pertama
// tidak memicu pembuatan klien ganda; pemakaian dihitung dengan
// referensi sehingga Release terakhir yang menutupnya.
type SharedEmbedder struct {
	cfg *config.EmbeddingConfig

	mu     sync.Mutex
	once   sync.Once
	client *Client
	refs   int
}

func NewSharedEmbedder(cfg *config.EmbeddingConfig) *SharedEmbedder {
	return &SharedEmbedder{cfg: cfg}
}

// Acquire menaikkan jumlah referensi. Klien baru dibuat saat pemanggilan pertama.
func (s *SharedEmbedder) Acquire() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

// Release menurunkan jumlah referensi; referensi terakhir melepas klien.
func (s *SharedEmbedder) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refs == 0 {
		return
	}
	s.refs--
	if s.refs == 0 && s.client != nil {
		log.Println("[Embedder] klien embedding dilepas")
		s.client = nil
		s.once = sync.Once{}
	}
}

// EmbedText mendelegasikan ke klien yang diinisialisasi sekali.
func (s *SharedEmbedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.client = NewClient(s.cfg)
		s.mu.Unlock()
		log.Printf("[Embedder] klien embedding siap (model %s)", s.cfg.Model)
	})

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		client = NewClient(s.cfg)
	}
	return client.EmbedText(ctx, text)
}
